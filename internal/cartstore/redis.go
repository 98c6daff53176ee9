package cartstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores snapshots under cart:<sessionID> with a sliding TTL.
type Redis struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Redis{client: client, baseTTL: ttl}
}

func (r *Redis) Load(ctx context.Context, sessionID string) ([]byte, error) {
	payload, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return payload, nil
}

func (r *Redis) Save(ctx context.Context, sessionID string, payload []byte) error {
	// Jitter spreads expiry of carts created in the same burst.
	ttl := r.baseTTL + time.Duration(rand.Intn(300))*time.Second
	if err := r.client.Set(ctx, snapshotKey(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func snapshotKey(sessionID string) string {
	return "cart:" + sessionID
}
