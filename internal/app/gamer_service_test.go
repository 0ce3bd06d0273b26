package app

import (
	"context"
	"testing"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/clock"
	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/ishaanJ91/NiteOut/internal/storage/memory"
)

func TestGamerService(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)

	t.Run("RegisterGamer stores the provided id", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewGamerService(store, clock.NewFixed(now))

		gamer, err := svc.RegisterGamer(context.Background(), RegisterGamerInput{
			ID:    "auth0|abc123",
			Email: "ada@example.com",
			Name:  "Ada",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gamer.ID != "auth0|abc123" || !gamer.CreatedAt.Equal(now) {
			t.Fatalf("unexpected gamer: %+v", gamer)
		}

		got, err := store.GetGamer(context.Background(), "auth0|abc123")
		if err != nil {
			t.Fatalf("get gamer: %v", err)
		}
		if got.Email != "ada@example.com" {
			t.Fatalf("unexpected stored gamer: %+v", got)
		}
	})

	t.Run("RegisterGamer requires an id", func(t *testing.T) {
		svc := NewGamerService(memory.NewStore(), clock.NewFixed(now))

		_, err := svc.RegisterGamer(context.Background(), RegisterGamerInput{Name: "Ada"})
		if err != domain.ErrGamerIDRequired {
			t.Fatalf("expected ErrGamerIDRequired, got %v", err)
		}
	})

	t.Run("RegisterPublican mints an id", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewGamerService(store, clock.NewFixed(now))

		publican, err := svc.RegisterPublican(context.Background(), RegisterPublicanInput{PubName: "The Crown"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if publican.ID == "" {
			t.Fatalf("expected publican ID to be set")
		}

		got, err := store.GetPublican(context.Background(), publican.ID)
		if err != nil {
			t.Fatalf("get publican: %v", err)
		}
		if got.PubName != "The Crown" {
			t.Fatalf("unexpected publican: %+v", got)
		}
	})

	t.Run("RegisterPublican requires a pub name", func(t *testing.T) {
		svc := NewGamerService(memory.NewStore(), clock.NewFixed(now))

		_, err := svc.RegisterPublican(context.Background(), RegisterPublicanInput{})
		if err != domain.ErrPubNameRequired {
			t.Fatalf("expected ErrPubNameRequired, got %v", err)
		}
	})

	t.Run("GetProfile splits hosted and joined games", func(t *testing.T) {
		start := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
		store := memory.NewStore()
		svc := NewGamerService(store, clock.NewFixed(now))

		event := domain.Event{
			ID:        "event-1",
			GameType:  domain.GameTypeSeatBased,
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
			Expires:   start.Add(2 * time.Hour),
			NumSeats:  20,
		}
		keys, _ := domain.SlotKeys(event.StartTime, event.EndTime)
		if err := store.CreateEvent(context.Background(), event, keys, event.InitialSlotCapacity()); err != nil {
			t.Fatalf("create event: %v", err)
		}

		alloc := NewAllocationService(store, clock.NewFixed(now))
		if _, err := svc.RegisterGamer(context.Background(), RegisterGamerInput{ID: "gamer-1", Name: "Ada"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.RegisterGamer(context.Background(), RegisterGamerInput{ID: "gamer-2", Name: "Ben"}); err != nil {
			t.Fatalf("register: %v", err)
		}

		hosted, err := alloc.CreateGame(context.Background(), CreateGameInput{
			EventID:    "event-1",
			Host:       "gamer-1",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			MaxPlayers: 4,
		})
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		joined, err := alloc.CreateGame(context.Background(), CreateGameInput{
			EventID:    "event-1",
			Host:       "gamer-2",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			MaxPlayers: 4,
		})
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		if _, err := alloc.JoinGame(context.Background(), joined.ID, "gamer-1"); err != nil {
			t.Fatalf("join: %v", err)
		}

		profile, err := svc.GetProfile(context.Background(), "gamer-1")
		if err != nil {
			t.Fatalf("get profile: %v", err)
		}
		if len(profile.HostedGames) != 1 || profile.HostedGames[0] != hosted.ID {
			t.Fatalf("unexpected hosted games: %v", profile.HostedGames)
		}
		if len(profile.JoinedGames) != 1 || profile.JoinedGames[0] != joined.ID {
			t.Fatalf("unexpected joined games: %v", profile.JoinedGames)
		}
	})

	t.Run("GetProfile for unknown gamer", func(t *testing.T) {
		svc := NewGamerService(memory.NewStore(), clock.NewFixed(now))

		_, err := svc.GetProfile(context.Background(), "missing")
		if err != domain.ErrGamerNotFound {
			t.Fatalf("expected ErrGamerNotFound, got %v", err)
		}
	})
}
