package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a Cache backend for multi-instance deployments. Values are
// stored as JSON; a read returns the raw bytes and GetOrFetch decodes
// them into the caller's type. Every failure is treated as a miss or
// logged and swallowed, keeping the store authoritative.
type Redis struct {
	client *redis.Client
}

// NewRedis connects a Redis cache backend. The connection is verified
// with a short ping; a failure is returned so the caller can fall back
// to the in-process backend.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

// Get returns the raw JSON bytes for key, or a miss.
func (r *Redis) Get(ctx context.Context, key string) (any, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the value as JSON under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set: marshal failed")
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Del removes entries immediately.
func (r *Redis) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache del failed")
	}
}

// Flush clears the selected database.
func (r *Redis) Flush(ctx context.Context) {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("cache flush failed")
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
