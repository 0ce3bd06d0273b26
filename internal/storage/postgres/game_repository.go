package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func (r *GameRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *GameRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, queryerFor(ctx, r.pool), eventID)
}

// ReserveSlots locks the requested range, verifies every slot can absorb
// the units, and applies one update. Any shortfall aborts before the
// update, so a failed reserve leaves the ledger untouched.
func (r *GameRepository) ReserveSlots(ctx context.Context, eventID string, slotKeys []string, units int) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		q := queryerFor(txCtx, r.pool)

		const lockQuery = `
SELECT slot_key, remaining
FROM event_slots
WHERE event_id = $1 AND slot_key = ANY($2)
ORDER BY slot_index ASC
FOR UPDATE`
		rows, err := q.Query(txCtx, lockQuery, eventID, slotKeys)
		if err != nil {
			return fmt.Errorf("lock slots: %w", err)
		}
		defer rows.Close()

		remaining := make(map[string]int, len(slotKeys))
		for rows.Next() {
			var key string
			var rem int
			if err := rows.Scan(&key, &rem); err != nil {
				return fmt.Errorf("scan slot: %w", err)
			}
			remaining[key] = rem
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate slots: %w", rows.Err())
		}

		for _, key := range slotKeys {
			rem, ok := remaining[key]
			if !ok {
				return domain.ErrWindowOutOfBounds
			}
			if rem-units < 0 {
				return domain.ErrInsufficientCapacity
			}
		}

		const stmt = `
UPDATE event_slots
SET remaining = remaining - $3
WHERE event_id = $1 AND slot_key = ANY($2)`
		if _, err := q.Exec(txCtx, stmt, eventID, slotKeys, units); err != nil {
			return fmt.Errorf("reserve slots: %w", err)
		}
		return nil
	})
}

func (r *GameRepository) ReleaseSlots(ctx context.Context, eventID string, slotKeys []string, units int) error {
	return releaseSlots(ctx, queryerFor(ctx, r.pool), eventID, slotKeys, units)
}

func (r *GameRepository) CreateGame(ctx context.Context, game domain.Game) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		q := queryerFor(txCtx, r.pool)

		const stmt = `
INSERT INTO games (id, event_id, host, name, start_time, end_time, max_players, units, state, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := q.Exec(txCtx, stmt,
			game.ID,
			game.EventID,
			game.Host,
			game.Name,
			game.StartTime,
			game.EndTime,
			game.MaxPlayers,
			game.Units,
			string(game.State),
			game.CreatedAt,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if isForeignKeyViolation(err) {
				if foreignKeyConstraint(err) == "games_event_id_fkey" {
					return domain.ErrEventNotFound
				}
				return domain.ErrGamerNotFound
			}
			return fmt.Errorf("create game: %w", err)
		}

		const participantStmt = `
INSERT INTO game_participants (game_id, gamer_id, joined_at)
VALUES ($1, $2, $3)`
		for _, gamerID := range game.Participants {
			if _, err := q.Exec(txCtx, participantStmt, game.ID, gamerID, game.CreatedAt); err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrGamerNotFound
				}
				return fmt.Errorf("add participant: %w", err)
			}
		}
		return nil
	})
}

func (r *GameRepository) GetGameForUpdate(ctx context.Context, gameID string) (domain.Game, error) {
	q := queryerFor(ctx, r.pool)

	const query = gameColumns + `
FROM games
WHERE id = $1
FOR UPDATE`
	game, err := scanGame(q.QueryRow(ctx, query, gameID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Game{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Game{}, domain.ErrGameNotFound
		}
		return domain.Game{}, fmt.Errorf("get game: %w", err)
	}

	game.Participants, err = listParticipants(ctx, q, gameID)
	if err != nil {
		return domain.Game{}, err
	}
	return game, nil
}

func (r *GameRepository) ListUpcomingGames(ctx context.Context, now time.Time) ([]domain.Game, error) {
	q := queryerFor(ctx, r.pool)

	const query = gameColumns + `
FROM games
WHERE state = 'confirmed' AND end_time > $1
ORDER BY start_time ASC`
	rows, err := q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list upcoming games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate games: %w", rows.Err())
	}

	for i := range games {
		games[i].Participants, err = listParticipants(ctx, q, games[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return games, nil
}

func (r *GameRepository) AddParticipant(ctx context.Context, gameID, gamerID string) error {
	q := queryerFor(ctx, r.pool)

	const stmt = `
INSERT INTO game_participants (game_id, gamer_id)
VALUES ($1, $2)`
	_, err := q.Exec(ctx, stmt, gameID, gamerID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		if isForeignKeyViolation(err) {
			return domain.ErrGamerNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (r *GameRepository) RemoveParticipant(ctx context.Context, gameID, gamerID string) error {
	q := queryerFor(ctx, r.pool)

	const stmt = `
DELETE FROM game_participants
WHERE game_id = $1 AND gamer_id = $2`
	tag, err := q.Exec(ctx, stmt, gameID, gamerID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotInGame
	}
	return nil
}

func (r *GameRepository) TransitionGameState(ctx context.Context, gameID string, from, to domain.GameState) error {
	return transitionGameState(ctx, queryerFor(ctx, r.pool), gameID, from, to)
}

const gameColumns = `
SELECT id, event_id, host, name, start_time, end_time, max_players, units, state, created_at`

func scanGame(row pgx.Row) (domain.Game, error) {
	var g domain.Game
	var state string
	err := row.Scan(
		&g.ID,
		&g.EventID,
		&g.Host,
		&g.Name,
		&g.StartTime,
		&g.EndTime,
		&g.MaxPlayers,
		&g.Units,
		&state,
		&g.CreatedAt,
	)
	if err != nil {
		return domain.Game{}, err
	}
	g.State = domain.GameState(state)
	return g, nil
}

func listParticipants(ctx context.Context, q querier, gameID string) ([]string, error) {
	const query = `
SELECT gamer_id
FROM game_participants
WHERE game_id = $1
ORDER BY joined_at ASC, gamer_id ASC`
	rows, err := q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var gamerID string
		if err := rows.Scan(&gamerID); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, gamerID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate participants: %w", rows.Err())
	}
	return participants, nil
}

func releaseSlots(ctx context.Context, q querier, eventID string, slotKeys []string, units int) error {
	const stmt = `
UPDATE event_slots
SET remaining = remaining + $3
WHERE event_id = $1 AND slot_key = ANY($2)`
	tag, err := q.Exec(ctx, stmt, eventID, slotKeys, units)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release slots: %w", err)
	}
	if tag.RowsAffected() != int64(len(slotKeys)) {
		return domain.ErrWindowOutOfBounds
	}
	return nil
}

func transitionGameState(ctx context.Context, q querier, gameID string, from, to domain.GameState) error {
	const stmt = `
UPDATE games
SET state = $3
WHERE id = $1 AND state = $2`
	tag, err := q.Exec(ctx, stmt, gameID, string(from), string(to))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("transition game state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`
		var exists bool
		if err := q.QueryRow(ctx, existsQuery, gameID).Scan(&exists); err != nil {
			return fmt.Errorf("check game: %w", err)
		}
		if !exists {
			return domain.ErrGameNotFound
		}
		return domain.ErrGameNotConfirmed
	}
	return nil
}
