// Package memory provides an in-memory store with the same contracts as
// the Postgres repositories. Slot mutations serialize on a per-event
// mutex, mirroring the row-lock scope of the SQL ledger.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/domain"
)

type eventState struct {
	mu    sync.Mutex
	event domain.Event
	slots map[string]int
}

type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	events    map[string]*eventState
	games     map[string]*domain.Game
	gamers    map[string]domain.Gamer
	publicans map[string]domain.Publican
}

type txKey struct{}

func NewStore() *Store {
	return &Store{
		events:    make(map[string]*eventState),
		games:     make(map[string]*domain.Game),
		gamers:    make(map[string]domain.Gamer),
		publicans: make(map[string]domain.Publican),
	}
}

// WithTx holds a store-wide mutex for the duration of fn, standing in
// for the row locks a SQL transaction would take: a read-check-write
// sequence inside fn cannot interleave with another transaction. A
// nested call reuses the ambient scope.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func (s *Store) CreateEvent(_ context.Context, event domain.Event, slotKeys []string, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make(map[string]int, len(slotKeys))
	for _, k := range slotKeys {
		slots[k] = capacity
	}
	s.events[event.ID] = &eventState{event: event, slots: slots}
	return nil
}

func (s *Store) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	es, err := s.eventState(eventID)
	if err != nil {
		return domain.Event{}, err
	}
	return es.event, nil
}

func (s *Store) GetEventSlots(_ context.Context, eventID string) (map[string]int, error) {
	es, err := s.eventState(eventID)
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	defer es.mu.Unlock()
	out := make(map[string]int, len(es.slots))
	for k, v := range es.slots {
		out[k] = v
	}
	return out, nil
}

func (s *Store) ListEvents(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.Event, 0, len(s.events))
	for _, es := range s.events {
		events = append(events, es.event)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (s *Store) ListExpiredEvents(_ context.Context, now time.Time) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []domain.Event
	for _, es := range s.events {
		if !es.event.Expired(now) {
			continue
		}
		for _, g := range s.games {
			if g.EventID == es.event.ID && g.State == domain.GameStateConfirmed {
				expired = append(expired, es.event)
				break
			}
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].CreatedAt.Before(expired[j].CreatedAt)
	})
	return expired, nil
}

// ReserveSlots checks the whole range under the event lock before
// mutating anything: if any slot would go negative, no slot changes.
func (s *Store) ReserveSlots(_ context.Context, eventID string, slotKeys []string, units int) error {
	es, err := s.eventState(eventID)
	if err != nil {
		return err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	for _, k := range slotKeys {
		remaining, ok := es.slots[k]
		if !ok {
			return domain.ErrWindowOutOfBounds
		}
		if remaining-units < 0 {
			return domain.ErrInsufficientCapacity
		}
	}
	for _, k := range slotKeys {
		es.slots[k] -= units
	}
	return nil
}

func (s *Store) ReleaseSlots(_ context.Context, eventID string, slotKeys []string, units int) error {
	es, err := s.eventState(eventID)
	if err != nil {
		return err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	for _, k := range slotKeys {
		if _, ok := es.slots[k]; !ok {
			return domain.ErrWindowOutOfBounds
		}
	}
	for _, k := range slotKeys {
		es.slots[k] += units
	}
	return nil
}

func (s *Store) CreateGame(_ context.Context, game domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := game
	stored.Participants = append([]string{}, game.Participants...)
	s.games[game.ID] = &stored
	return nil
}

func (s *Store) GetGameForUpdate(_ context.Context, gameID string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameCopy(gameID)
}

func (s *Store) ListUpcomingGames(_ context.Context, now time.Time) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []domain.Game
	for id, g := range s.games {
		if g.State != domain.GameStateConfirmed || !g.EndTime.After(now) {
			continue
		}
		g2, _ := s.gameCopy(id)
		games = append(games, g2)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].StartTime.Before(games[j].StartTime)
	})
	return games, nil
}

func (s *Store) ListConfirmedGames(_ context.Context, eventID string) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []domain.Game
	for id, g := range s.games {
		if g.EventID == eventID && g.State == domain.GameStateConfirmed {
			g2, _ := s.gameCopy(id)
			games = append(games, g2)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games, nil
}

func (s *Store) AddParticipant(_ context.Context, gameID, gamerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	if g.HasParticipant(gamerID) {
		return domain.ErrAlreadyJoined
	}
	g.Participants = append(g.Participants, gamerID)
	return nil
}

func (s *Store) RemoveParticipant(_ context.Context, gameID, gamerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	kept := g.Participants[:0]
	found := false
	for _, p := range g.Participants {
		if p == gamerID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return domain.ErrNotInGame
	}
	g.Participants = kept
	return nil
}

func (s *Store) TransitionGameState(_ context.Context, gameID string, from, to domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return domain.ErrGameNotFound
	}
	if g.State != from {
		return domain.ErrGameNotConfirmed
	}
	g.State = to
	return nil
}

func (s *Store) CreateGamer(_ context.Context, gamer domain.Gamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-registration refreshes the record, matching the upsert the SQL
	// store performs.
	if existing, ok := s.gamers[gamer.ID]; ok {
		gamer.CreatedAt = existing.CreatedAt
	}
	s.gamers[gamer.ID] = gamer
	return nil
}

func (s *Store) GetGamer(_ context.Context, gamerID string) (domain.Gamer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gamer, ok := s.gamers[gamerID]
	if !ok {
		return domain.Gamer{}, domain.ErrGamerNotFound
	}
	return gamer, nil
}

func (s *Store) ListHostedGameIDs(_ context.Context, gamerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []domain.Game
	for _, g := range s.games {
		if g.Host == gamerID {
			games = append(games, *g)
		}
	}
	return sortedGameIDs(games), nil
}

func (s *Store) ListJoinedGameIDs(_ context.Context, gamerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []domain.Game
	for _, g := range s.games {
		if g.Host != gamerID && g.HasParticipant(gamerID) {
			games = append(games, *g)
		}
	}
	return sortedGameIDs(games), nil
}

func (s *Store) CreatePublican(_ context.Context, publican domain.Publican) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicans[publican.ID] = publican
	return nil
}

func (s *Store) GetPublican(_ context.Context, pubID string) (domain.Publican, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	publican, ok := s.publicans[pubID]
	if !ok {
		return domain.Publican{}, domain.ErrPublicanNotFound
	}
	return publican, nil
}

func (s *Store) eventState(eventID string) (*eventState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	es, ok := s.events[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return es, nil
}

func (s *Store) gameCopy(gameID string) (domain.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	out := *g
	out.Participants = append([]string{}, g.Participants...)
	return out, nil
}

func sortedGameIDs(games []domain.Game) []string {
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}
