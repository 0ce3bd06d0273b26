package app

import (
	"context"
	"errors"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/clock"
	"github.com/ishaanJ91/NiteOut/internal/domain"
)

// AllocationRepository is the storage contract for game lifecycle
// operations. ReserveSlots and ReleaseSlots are the only writers of slot
// capacity; ReserveSlots is all-or-nothing across the key range.
type AllocationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ReserveSlots(ctx context.Context, eventID string, slotKeys []string, units int) error
	ReleaseSlots(ctx context.Context, eventID string, slotKeys []string, units int) error
	CreateGame(ctx context.Context, game domain.Game) error
	GetGameForUpdate(ctx context.Context, gameID string) (domain.Game, error)
	ListUpcomingGames(ctx context.Context, now time.Time) ([]domain.Game, error)
	AddParticipant(ctx context.Context, gameID, gamerID string) error
	RemoveParticipant(ctx context.Context, gameID, gamerID string) error
	TransitionGameState(ctx context.Context, gameID string, from, to domain.GameState) error
}

type AllocationService struct {
	repo       AllocationRepository
	clock      clock.Clock
	maxRetries int
}

const defaultMaxRetries = 3

func NewAllocationService(repo AllocationRepository, clk clock.Clock, opts ...AllocationServiceOption) *AllocationService {
	svc := &AllocationService{
		repo:       repo,
		clock:      clk,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AllocationServiceOption func(*AllocationService)

// WithMaxRetries overrides how often a transaction is retried after a
// concurrent-modification failure before it is surfaced.
func WithMaxRetries(n int) AllocationServiceOption {
	return func(s *AllocationService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

type CreateGameInput struct {
	EventID    string
	Host       string
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	MaxPlayers int
}

// CreateGame reserves capacity for every slot the window overlaps and
// persists the game as confirmed, with the host as first participant.
// If any slot in the range lacks capacity nothing is written.
func (s *AllocationService) CreateGame(ctx context.Context, in CreateGameInput) (domain.Game, error) {
	if in.MaxPlayers <= 0 {
		return domain.Game{}, domain.ErrInvalidPlayerCount
	}

	now := s.clock.Now()
	var result domain.Game

	err := s.retryTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if event.Expired(now) {
			return domain.ErrEventExpired
		}

		keys, err := event.GameSlotKeys(in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		units, err := event.UnitsFor(in.MaxPlayers)
		if err != nil {
			return err
		}

		if err := s.repo.ReserveSlots(txCtx, event.ID, keys, units); err != nil {
			return err
		}

		game := domain.Game{
			ID:           newID(),
			EventID:      event.ID,
			Host:         in.Host,
			Name:         in.Name,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
			MaxPlayers:   in.MaxPlayers,
			Units:        units,
			Participants: []string{in.Host},
			State:        domain.GameStateConfirmed,
			CreatedAt:    now,
		}
		if err := s.repo.CreateGame(txCtx, game); err != nil {
			return err
		}

		result = game
		return nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result, nil
}

// JoinGame adds a gamer to a confirmed game. Capacity was reserved for the
// full player limit at creation, so joining never touches the ledger.
func (s *AllocationService) JoinGame(ctx context.Context, gameID, gamerID string) (domain.Game, error) {
	var result domain.Game

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		game, err := s.repo.GetGameForUpdate(txCtx, gameID)
		if err != nil {
			return err
		}
		if game.State != domain.GameStateConfirmed {
			return domain.ErrGameNotConfirmed
		}
		if game.HasParticipant(gamerID) {
			return domain.ErrAlreadyJoined
		}
		if game.Full() {
			return domain.ErrGameFull
		}

		if err := s.repo.AddParticipant(txCtx, game.ID, gamerID); err != nil {
			return err
		}
		game.Participants = append(game.Participants, gamerID)
		result = game
		return nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result, nil
}

// LeaveGame removes a participant. The ledger is untouched: capacity
// tracks slots reserved for the game, not live occupancy.
func (s *AllocationService) LeaveGame(ctx context.Context, gameID, gamerID string) (domain.Game, error) {
	var result domain.Game

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		game, err := s.repo.GetGameForUpdate(txCtx, gameID)
		if err != nil {
			return err
		}
		if game.Host == gamerID {
			return domain.ErrHostCannotLeave
		}
		if !game.HasParticipant(gamerID) {
			return domain.ErrNotInGame
		}

		if err := s.repo.RemoveParticipant(txCtx, game.ID, gamerID); err != nil {
			return err
		}
		remaining := make([]string, 0, len(game.Participants)-1)
		for _, p := range game.Participants {
			if p != gamerID {
				remaining = append(remaining, p)
			}
		}
		game.Participants = remaining
		result = game
		return nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result, nil
}

// CancelGame transitions a confirmed game to cancelled and releases its
// reserved units exactly once. The guarded state transition prevents a
// double release; the game row is kept for audit.
func (s *AllocationService) CancelGame(ctx context.Context, gameID string) (domain.Game, error) {
	var result domain.Game

	err := s.retryTx(ctx, func(txCtx context.Context) error {
		game, err := s.repo.GetGameForUpdate(txCtx, gameID)
		if err != nil {
			return err
		}
		if game.State != domain.GameStateConfirmed {
			return domain.ErrGameNotConfirmed
		}

		keys, err := domain.SlotKeys(game.StartTime, game.EndTime)
		if err != nil {
			return err
		}
		if err := s.repo.TransitionGameState(txCtx, game.ID, domain.GameStateConfirmed, domain.GameStateCancelled); err != nil {
			return err
		}
		if err := s.repo.ReleaseSlots(txCtx, game.EventID, keys, game.Units); err != nil {
			return err
		}

		game.State = domain.GameStateCancelled
		result = game
		return nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result, nil
}

// GetGame returns a game by id.
func (s *AllocationService) GetGame(ctx context.Context, gameID string) (domain.Game, error) {
	var result domain.Game
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		game, err := s.repo.GetGameForUpdate(txCtx, gameID)
		if err != nil {
			return err
		}
		result = game
		return nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result, nil
}

// ListUpcomingGames returns games whose window has not yet ended.
func (s *AllocationService) ListUpcomingGames(ctx context.Context) ([]domain.Game, error) {
	return s.repo.ListUpcomingGames(ctx, s.clock.Now())
}

func (s *AllocationService) retryTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.repo.WithTx(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
	}
	return err
}
