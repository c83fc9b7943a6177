package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache wraps Redis for the two things the engine needs it for: a
// best-effort rebuild lease per period document, and invalidating cached
// leaderboard payloads after a snapshot rebuild. A nil *Cache is valid and
// turns every operation into a no-op, so the worker keeps running when Redis
// is down.
type Cache struct {
	client *redis.Client
}

// Config holds Redis configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// boardKeyPrefix namespaces cached leaderboard payloads.
const boardKeyPrefix = "rankings:board:"

// leaseKeyPrefix namespaces rebuild leases.
const leaseKeyPrefix = "rankings:lease:"

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Msg("Redis cache connected")

	return &Cache{client: client}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// AcquireLease takes the rebuild lease for a period document. Returns false
// when another run already holds it. Without Redis the lease always grants;
// rebuilds are overwrite-only, so an unguarded race self-corrects on the
// next clean run.
func (c *Cache) AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}

	ok, err := c.client.SetNX(ctx, leaseKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire rebuild lease: %w", err)
	}
	return ok, nil
}

// ReleaseLease drops the rebuild lease.
func (c *Cache) ReleaseLease(ctx context.Context, key string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, leaseKeyPrefix+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to release rebuild lease")
	}
}

// InvalidateBoard drops the cached payload of a rebuilt leaderboard.
func (c *Cache) InvalidateBoard(ctx context.Context, docID string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, boardKeyPrefix+docID).Err(); err != nil {
		log.Warn().Err(err).Str("board_id", docID).Msg("Failed to invalidate cached leaderboard")
	}
}
