package postgres

import (
	"context"
	"fmt"

	"github.com/ishaanJ91/NiteOut/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GamerRepository struct {
	pool *pgxpool.Pool
}

func NewGamerRepository(pool *pgxpool.Pool) *GamerRepository {
	return &GamerRepository{pool: pool}
}

// CreateGamer upserts by id. Re-registration refreshes the profile
// fields and keeps the original created_at.
func (r *GamerRepository) CreateGamer(ctx context.Context, gamer domain.Gamer) error {
	q := queryerFor(ctx, r.pool)

	const stmt = `
INSERT INTO gamers (id, email, name, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name`
	if _, err := q.Exec(ctx, stmt, gamer.ID, gamer.Email, gamer.Name, gamer.CreatedAt); err != nil {
		return fmt.Errorf("create gamer: %w", err)
	}
	return nil
}

func (r *GamerRepository) GetGamer(ctx context.Context, gamerID string) (domain.Gamer, error) {
	q := queryerFor(ctx, r.pool)

	const query = `
SELECT id, email, name, created_at
FROM gamers
WHERE id = $1`
	var g domain.Gamer
	err := q.QueryRow(ctx, query, gamerID).Scan(&g.ID, &g.Email, &g.Name, &g.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Gamer{}, domain.ErrGamerNotFound
		}
		return domain.Gamer{}, fmt.Errorf("get gamer: %w", err)
	}
	return g, nil
}

func (r *GamerRepository) ListHostedGameIDs(ctx context.Context, gamerID string) ([]string, error) {
	const query = `
SELECT id
FROM games
WHERE host = $1
ORDER BY created_at ASC, id ASC`
	return r.listIDs(ctx, query, gamerID)
}

func (r *GamerRepository) ListJoinedGameIDs(ctx context.Context, gamerID string) ([]string, error) {
	const query = `
SELECT g.id
FROM games g
JOIN game_participants p ON p.game_id = g.id
WHERE p.gamer_id = $1 AND g.host <> $1
ORDER BY g.created_at ASC, g.id ASC`
	return r.listIDs(ctx, query, gamerID)
}

func (r *GamerRepository) listIDs(ctx context.Context, query, gamerID string) ([]string, error) {
	q := queryerFor(ctx, r.pool)

	rows, err := q.Query(ctx, query, gamerID)
	if err != nil {
		return nil, fmt.Errorf("list game ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate game ids: %w", rows.Err())
	}
	return ids, nil
}

func (r *GamerRepository) CreatePublican(ctx context.Context, publican domain.Publican) error {
	q := queryerFor(ctx, r.pool)

	const stmt = `
INSERT INTO publicans (id, pub_name, created_at)
VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, stmt, publican.ID, publican.PubName, publican.CreatedAt); err != nil {
		return fmt.Errorf("create publican: %w", err)
	}
	return nil
}

func (r *GamerRepository) GetPublican(ctx context.Context, publicanID string) (domain.Publican, error) {
	return getPublican(ctx, queryerFor(ctx, r.pool), publicanID)
}
