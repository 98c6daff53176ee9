package cartstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores snapshots in the cart_snapshots table, one row per
// session, overwritten in place on every save.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Load(ctx context.Context, sessionID string) ([]byte, error) {
	const q = `
SELECT payload
FROM cart_snapshots
WHERE session_id = $1
`
	var payload []byte
	if err := p.pool.QueryRow(ctx, q, sessionID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (p *Postgres) Save(ctx context.Context, sessionID string, payload []byte) error {
	const q = `
INSERT INTO cart_snapshots (session_id, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (session_id)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
`
	_, err := p.pool.Exec(ctx, q, sessionID, payload)
	return err
}

func (p *Postgres) Delete(ctx context.Context, sessionID string) error {
	const q = `
DELETE FROM cart_snapshots
WHERE session_id = $1
`
	_, err := p.pool.Exec(ctx, q, sessionID)
	return err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
