// Package cache implements the read-through entity cache. The store is
// always authoritative; the cache is a best-effort accelerator, so every
// operation here degrades to "go to the store" rather than failing the
// request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache is the narrow interface the rest of the engine depends on. The
// default backend is an in-process TTL map; a Redis backend is available
// for multi-instance deployments. A Noop implementation exists for tests.
type Cache interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) (any, bool)
	// Set stores a value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Del removes an entry immediately.
	Del(ctx context.Context, keys ...string)
	// Flush clears everything; used on shutdown and in test setup.
	Flush(ctx context.Context)
}

// GetOrFetch returns the cached value for key if present, else invokes
// loader, stores the result and returns it. Two concurrent callers for
// the same missing key may both hit the loader; that stampede is accepted
// and bounded by the TTL.
func GetOrFetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		switch cached := v.(type) {
		case T:
			hits.Inc()
			return cached, nil
		case []byte:
			// Redis backend stores JSON.
			var typed T
			if err := json.Unmarshal(cached, &typed); err == nil {
				hits.Inc()
				return typed, nil
			}
		}
	}
	misses.Inc()

	v, err := loader(ctx)
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v, ttl)
	return v, nil
}

// Cache keys per entity. Mutations must invalidate every key derived
// from the touched entity's id after the write commits.

// UserProfileKey caches the user document.
func UserProfileKey(userID int64) string { return fmt.Sprintf("user:%d", userID) }

// UserPetsKey caches the user's pet list.
func UserPetsKey(userID int64) string { return fmt.Sprintf("user:%d:pets", userID) }

// PetDetailsKey caches a single pet.
func PetDetailsKey(petID int64) string { return fmt.Sprintf("pet:%d", petID) }

// UserEconomicKey caches the economic summary.
func UserEconomicKey(userID int64) string { return fmt.Sprintf("user:%d:economic", userID) }

// UserAchievementsKey caches the unlocked achievement set.
func UserAchievementsKey(userID int64) string { return fmt.Sprintf("user:%d:achievements", userID) }

// UserKeys returns every cache key derived from a user id.
func UserKeys(userID int64) []string {
	return []string{
		UserProfileKey(userID),
		UserPetsKey(userID),
		UserEconomicKey(userID),
		UserAchievementsKey(userID),
	}
}

// PetKeys returns every cache key derived from a pet id, plus the
// owner's pet list.
func PetKeys(petID, ownerID int64) []string {
	return []string{
		PetDetailsKey(petID),
		UserPetsKey(ownerID),
	}
}

var (
	hits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entity_cache_hits_total",
		Help: "Total entity cache hits",
	})
	misses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entity_cache_misses_total",
		Help: "Total entity cache misses",
	})
)

func init() {
	prometheus.MustRegister(hits)
	prometheus.MustRegister(misses)
}
