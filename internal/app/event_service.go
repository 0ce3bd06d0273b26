package app

import (
	"context"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/clock"
	"github.com/ishaanJ91/NiteOut/internal/domain"
)

// EventRepository is the storage contract for event publishing and the
// expiry sweep.
type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetPublican(ctx context.Context, pubID string) (domain.Publican, error)
	CreateEvent(ctx context.Context, event domain.Event, slotKeys []string, capacity int) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetEventSlots(ctx context.Context, eventID string) (map[string]int, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListExpiredEvents(ctx context.Context, now time.Time) ([]domain.Event, error)
	ListConfirmedGames(ctx context.Context, eventID string) ([]domain.Game, error)
	ReleaseSlots(ctx context.Context, eventID string, slotKeys []string, units int) error
	TransitionGameState(ctx context.Context, gameID string, from, to domain.GameState) error
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	PubID         string
	GameType      domain.GameType
	StartTime     time.Time
	EndTime       time.Time
	Expires       time.Time
	NumSeats      int
	NumTables     int
	TableCapacity int
}

// CreateEvent publishes an event and seeds its slot ledger: one entry per
// hour of the window, each starting at the model's initial capacity.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	switch in.GameType {
	case domain.GameTypeSeatBased:
		if in.NumSeats <= 0 {
			return domain.Event{}, domain.ErrInvalidCapacity
		}
	case domain.GameTypeTableBased:
		if in.NumTables <= 0 || in.TableCapacity <= 0 {
			return domain.Event{}, domain.ErrInvalidCapacity
		}
	default:
		return domain.Event{}, domain.ErrInvalidGameType
	}

	keys, err := domain.SlotKeys(in.StartTime, in.EndTime)
	if err != nil {
		return domain.Event{}, err
	}

	expires := in.Expires
	if expires.IsZero() {
		expires = in.EndTime
	}

	if _, err := s.repo.GetPublican(ctx, in.PubID); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:            newID(),
		PubID:         in.PubID,
		GameType:      in.GameType,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Expires:       expires,
		NumSeats:      in.NumSeats,
		NumTables:     in.NumTables,
		TableCapacity: in.TableCapacity,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repo.CreateEvent(ctx, event, keys, event.InitialSlotCapacity()); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// EventAvailability pairs an event with the remaining capacity per slot.
type EventAvailability struct {
	Event          domain.Event
	AvailableSlots map[string]int
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (EventAvailability, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return EventAvailability{}, err
	}
	slots, err := s.repo.GetEventSlots(ctx, eventID)
	if err != nil {
		return EventAvailability{}, err
	}
	return EventAvailability{Event: event, AvailableSlots: slots}, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// ExpireEvents transitions every still-confirmed game of events past their
// expiry to expired, releasing its reserved units. One transaction per
// event; a second run over the same events is a no-op. Returns the number
// of games expired.
func (s *EventService) ExpireEvents(ctx context.Context) (int, error) {
	now := s.clock.Now()

	events, err := s.repo.ListExpiredEvents(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, event := range events {
		eventID := event.ID
		err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
			games, err := s.repo.ListConfirmedGames(txCtx, eventID)
			if err != nil {
				return err
			}
			for _, game := range games {
				keys, err := domain.SlotKeys(game.StartTime, game.EndTime)
				if err != nil {
					return err
				}
				if err := s.repo.TransitionGameState(txCtx, game.ID, domain.GameStateConfirmed, domain.GameStateExpired); err != nil {
					return err
				}
				if err := s.repo.ReleaseSlots(txCtx, eventID, keys, game.Units); err != nil {
					return err
				}
				expired++
			}
			return nil
		})
		if err != nil {
			return expired, err
		}
	}
	return expired, nil
}
