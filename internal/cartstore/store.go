package cartstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates no snapshot is stored for the session.
var ErrNotFound = errors.New("cart snapshot not found")

// Store persists serialized cart snapshots keyed by session id.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
