package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/ishaanJ91/NiteOut/internal/testutil"
)

func TestGameRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewGameRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	start := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)

	seedEvent := func(t *testing.T, ctx context.Context, seats int) (pubID, eventID string) {
		t.Helper()
		pubID = testutil.InsertPublican(t, ctx, pool, "The Crown")
		eventID = testutil.InsertEvent(t, ctx, pool, pubID, domain.Event{
			GameType:  domain.GameTypeSeatBased,
			StartTime: start,
			EndTime:   start.Add(3 * time.Hour),
			Expires:   start.Add(3 * time.Hour),
			NumSeats:  seats,
		})
		return
	}

	t.Run("ReserveSlots debits every slot in the range", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)

		keys := []string{"18:00-19:00", "19:00-20:00"}
		if err := repo.ReserveSlots(ctx, eventID, keys, 4); err != nil {
			t.Fatalf("reserve: %v", err)
		}

		for _, key := range keys {
			if got := testutil.SlotRemaining(t, ctx, pool, eventID, key); got != 6 {
				t.Fatalf("expected slot %s remaining 6, got %d", key, got)
			}
		}
		if got := testutil.SlotRemaining(t, ctx, pool, eventID, "20:00-21:00"); got != 10 {
			t.Fatalf("untouched slot changed, remaining %d", got)
		}
	})

	t.Run("ReserveSlots is all-or-nothing when one slot is short", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)

		if _, err := pool.Exec(ctx,
			`UPDATE event_slots SET remaining = 2 WHERE event_id = $1 AND slot_key = $2`,
			eventID, "19:00-20:00",
		); err != nil {
			t.Fatalf("drain slot: %v", err)
		}

		err := repo.ReserveSlots(ctx, eventID, []string{"18:00-19:00", "19:00-20:00"}, 4)
		if err != domain.ErrInsufficientCapacity {
			t.Fatalf("expected ErrInsufficientCapacity, got %v", err)
		}

		if got := testutil.SlotRemaining(t, ctx, pool, eventID, "18:00-19:00"); got != 10 {
			t.Fatalf("first slot was debited despite failure, remaining %d", got)
		}
	})

	t.Run("ReserveSlots with missing slot returns ErrWindowOutOfBounds", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)

		err := repo.ReserveSlots(ctx, eventID, []string{"20:00-21:00", "21:00-22:00"}, 2)
		if err != domain.ErrWindowOutOfBounds {
			t.Fatalf("expected ErrWindowOutOfBounds, got %v", err)
		}
		if got := testutil.SlotRemaining(t, ctx, pool, eventID, "20:00-21:00"); got != 10 {
			t.Fatalf("slot was debited despite failure, remaining %d", got)
		}
	})

	t.Run("CreateGame stores game with host participant", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)
		host := testutil.InsertGamer(t, ctx, pool, "host-1")

		game := domain.Game{
			ID:           uuid.NewString(),
			EventID:      eventID,
			Host:         host,
			Name:         "Poker Night",
			StartTime:    start,
			EndTime:      start.Add(2 * time.Hour),
			MaxPlayers:   6,
			Units:        6,
			State:        domain.GameStateConfirmed,
			Participants: []string{host},
			CreatedAt:    start,
		}
		if err := repo.CreateGame(ctx, game); err != nil {
			t.Fatalf("create game: %v", err)
		}

		got, err := repo.GetGameForUpdate(ctx, game.ID)
		if err != nil {
			t.Fatalf("get game: %v", err)
		}
		if got.Host != host || got.State != domain.GameStateConfirmed || got.Units != 6 {
			t.Fatalf("unexpected game: %+v", got)
		}
		if len(got.Participants) != 1 || got.Participants[0] != host {
			t.Fatalf("unexpected participants: %v", got.Participants)
		}
	})

	t.Run("CreateGame with unknown host returns ErrGamerNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)

		err := repo.CreateGame(ctx, domain.Game{
			ID:         uuid.NewString(),
			EventID:    eventID,
			Host:       "ghost",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			MaxPlayers: 4,
			Units:      4,
			State:      domain.GameStateConfirmed,
			CreatedAt:  start,
		})
		if err != domain.ErrGamerNotFound {
			t.Fatalf("expected ErrGamerNotFound, got %v", err)
		}
	})

	t.Run("CreateGame with unknown event returns ErrEventNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		host := testutil.InsertGamer(t, ctx, pool, "host-1")

		err := repo.CreateGame(ctx, domain.Game{
			ID:           uuid.NewString(),
			EventID:      uuid.NewString(),
			Host:         host,
			StartTime:    start,
			EndTime:      start.Add(time.Hour),
			MaxPlayers:   4,
			Units:        4,
			State:        domain.GameStateConfirmed,
			Participants: []string{host},
			CreatedAt:    start,
		})
		if err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("GetGameForUpdate maps missing and malformed ids", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.GetGameForUpdate(ctx, uuid.NewString())
		if err != domain.ErrGameNotFound {
			t.Fatalf("expected ErrGameNotFound, got %v", err)
		}

		_, err = repo.GetGameForUpdate(ctx, "not-a-uuid")
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("AddParticipant rejects duplicates", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)
		host := testutil.InsertGamer(t, ctx, pool, "host-1")
		joiner := testutil.InsertGamer(t, ctx, pool, "gamer-2")

		gameID := testutil.InsertGame(t, ctx, pool, domain.Game{
			EventID:      eventID,
			Host:         host,
			StartTime:    start,
			EndTime:      start.Add(time.Hour),
			MaxPlayers:   4,
			Units:        4,
			State:        domain.GameStateConfirmed,
			Participants: []string{host},
		})

		if err := repo.AddParticipant(ctx, gameID, joiner); err != nil {
			t.Fatalf("add participant: %v", err)
		}
		if err := repo.AddParticipant(ctx, gameID, joiner); err != domain.ErrAlreadyJoined {
			t.Fatalf("expected ErrAlreadyJoined, got %v", err)
		}
		if err := repo.AddParticipant(ctx, gameID, "ghost"); err != domain.ErrGamerNotFound {
			t.Fatalf("expected ErrGamerNotFound, got %v", err)
		}
	})

	t.Run("RemoveParticipant reports absent members", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)
		host := testutil.InsertGamer(t, ctx, pool, "host-1")
		joiner := testutil.InsertGamer(t, ctx, pool, "gamer-2")

		gameID := testutil.InsertGame(t, ctx, pool, domain.Game{
			EventID:      eventID,
			Host:         host,
			StartTime:    start,
			EndTime:      start.Add(time.Hour),
			MaxPlayers:   4,
			Units:        4,
			State:        domain.GameStateConfirmed,
			Participants: []string{host, joiner},
		})

		if err := repo.RemoveParticipant(ctx, gameID, joiner); err != nil {
			t.Fatalf("remove participant: %v", err)
		}
		if err := repo.RemoveParticipant(ctx, gameID, joiner); err != domain.ErrNotInGame {
			t.Fatalf("expected ErrNotInGame, got %v", err)
		}
	})

	t.Run("ListUpcomingGames skips finished and non-confirmed games", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		_, eventID := seedEvent(t, ctx, 10)
		host := testutil.InsertGamer(t, ctx, pool, "host-1")

		upcomingID := testutil.InsertGame(t, ctx, pool, domain.Game{
			EventID:      eventID,
			Host:         host,
			StartTime:    start,
			EndTime:      start.Add(2 * time.Hour),
			MaxPlayers:   4,
			Units:        4,
			State:        domain.GameStateConfirmed,
			Participants: []string{host},
		})
		testutil.InsertGame(t, ctx, pool, domain.Game{
			EventID:    eventID,
			Host:       host,
			StartTime:  start.Add(-3 * time.Hour),
			EndTime:    start.Add(-2 * time.Hour),
			MaxPlayers: 4,
			Units:      4,
			State:      domain.GameStateConfirmed,
		})
		testutil.InsertGame(t, ctx, pool, domain.Game{
			EventID:    eventID,
			Host:       host,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Hour),
			MaxPlayers: 4,
			Units:      4,
			State:      domain.GameStateCancelled,
		})

		games, err := repo.ListUpcomingGames(ctx, start.Add(30*time.Minute))
		if err != nil {
			t.Fatalf("list upcoming: %v", err)
		}
		if len(games) != 1 || games[0].ID != upcomingID {
			t.Fatalf("expected only game %s, got %+v", upcomingID, games)
		}
		if len(games[0].Participants) != 1 {
			t.Fatalf("expected participants loaded, got %v", games[0].Participants)
		}
	})
}
