// internal/store/deduper.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const diagnosticKeyPrefix = "rfq:dispatch-diagnostic:"

// RedisDeduper remembers diagnostic keys across worker replicas. It
// satisfies dispatch.Deduper.
type RedisDeduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisDeduper(rdb redis.Cmdable, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

// Seen reports whether key was already recorded, recording it if not.
func (d *RedisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	created, err := d.rdb.SetNX(ctx, diagnosticKeyPrefix+key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe diagnostic: %w", err)
	}
	return !created, nil
}
