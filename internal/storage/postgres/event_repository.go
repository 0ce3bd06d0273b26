package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) GetPublican(ctx context.Context, pubID string) (domain.Publican, error) {
	return getPublican(ctx, queryerFor(ctx, r.pool), pubID)
}

// CreateEvent inserts the event together with its slot ledger: one row
// per slot key, each starting at the model's initial capacity.
func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event, slotKeys []string, capacity int) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		q := queryerFor(txCtx, r.pool)

		const stmt = `
INSERT INTO events (id, pub_id, game_type, start_time, end_time, expires, num_seats, num_tables, table_capacity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := q.Exec(txCtx, stmt,
			event.ID,
			event.PubID,
			string(event.GameType),
			event.StartTime,
			event.EndTime,
			event.Expires,
			event.NumSeats,
			event.NumTables,
			event.TableCapacity,
			event.CreatedAt,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if isForeignKeyViolation(err) {
				return domain.ErrPublicanNotFound
			}
			return fmt.Errorf("create event: %w", err)
		}

		const slotStmt = `
INSERT INTO event_slots (event_id, slot_key, slot_index, remaining)
VALUES ($1, $2, $3, $4)`
		for i, key := range slotKeys {
			if _, err := q.Exec(txCtx, slotStmt, event.ID, key, i, capacity); err != nil {
				return fmt.Errorf("create event slot %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, queryerFor(ctx, r.pool), eventID)
}

func (r *EventRepository) GetEventSlots(ctx context.Context, eventID string) (map[string]int, error) {
	q := queryerFor(ctx, r.pool)

	if _, err := getEvent(ctx, q, eventID); err != nil {
		return nil, err
	}

	const query = `
SELECT slot_key, remaining
FROM event_slots
WHERE event_id = $1
ORDER BY slot_index ASC`
	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event slots: %w", err)
	}
	defer rows.Close()

	slots := make(map[string]int)
	for rows.Next() {
		var key string
		var remaining int
		if err := rows.Scan(&key, &remaining); err != nil {
			return nil, fmt.Errorf("scan event slot: %w", err)
		}
		slots[key] = remaining
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event slots: %w", rows.Err())
	}
	return slots, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = eventColumns + `
FROM events
ORDER BY created_at ASC`
	return listEvents(ctx, queryerFor(ctx, r.pool), query)
}

// ListExpiredEvents returns events past their expiry that still carry at
// least one confirmed game, so a clean second sweep selects nothing.
func (r *EventRepository) ListExpiredEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	const query = eventColumns + `
FROM events e
WHERE e.expires <= $1
  AND EXISTS (SELECT 1 FROM games g WHERE g.event_id = e.id AND g.state = 'confirmed')
ORDER BY e.created_at ASC`
	return listEvents(ctx, queryerFor(ctx, r.pool), query, now)
}

func (r *EventRepository) ListConfirmedGames(ctx context.Context, eventID string) ([]domain.Game, error) {
	q := queryerFor(ctx, r.pool)

	const query = gameColumns + `
FROM games
WHERE event_id = $1 AND state = 'confirmed'
ORDER BY created_at ASC
FOR UPDATE`
	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate confirmed games: %w", rows.Err())
	}
	return games, nil
}

func (r *EventRepository) ReleaseSlots(ctx context.Context, eventID string, slotKeys []string, units int) error {
	return releaseSlots(ctx, queryerFor(ctx, r.pool), eventID, slotKeys, units)
}

func (r *EventRepository) TransitionGameState(ctx context.Context, gameID string, from, to domain.GameState) error {
	return transitionGameState(ctx, queryerFor(ctx, r.pool), gameID, from, to)
}

const eventColumns = `
SELECT id, pub_id, game_type, start_time, end_time, expires, num_seats, num_tables, table_capacity, created_at`

func getEvent(ctx context.Context, q querier, eventID string) (domain.Event, error) {
	const query = eventColumns + `
FROM events
WHERE id = $1`

	event, err := scanEvent(q.QueryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func listEvents(ctx context.Context, q querier, query string, args ...any) ([]domain.Event, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var gameType string
	err := row.Scan(
		&e.ID,
		&e.PubID,
		&gameType,
		&e.StartTime,
		&e.EndTime,
		&e.Expires,
		&e.NumSeats,
		&e.NumTables,
		&e.TableCapacity,
		&e.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.GameType = domain.GameType(gameType)
	return e, nil
}

func getPublican(ctx context.Context, q querier, pubID string) (domain.Publican, error) {
	const query = `SELECT id, pub_name, created_at FROM publicans WHERE id = $1`

	var p domain.Publican
	err := q.QueryRow(ctx, query, pubID).Scan(&p.ID, &p.PubName, &p.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Publican{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Publican{}, domain.ErrPublicanNotFound
		}
		return domain.Publican{}, fmt.Errorf("get publican: %w", err)
	}
	return p, nil
}
