package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultThrottleLimit  = 5
	defaultThrottleWindow = 15 * time.Minute
)

// ResetThrottle is a fixed-window counter of forgot-password requests per
// address, backed by Redis.
// Key format: reset:throttle:<sha256(email)>
type ResetThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewResetThrottle creates a ResetThrottle allowing limit requests per window.
func NewResetThrottle(client *redis.Client, limit int, window time.Duration) *ResetThrottle {
	if limit <= 0 {
		limit = defaultThrottleLimit
	}
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &ResetThrottle{client: client, limit: int64(limit), window: window}
}

// Allow counts one request for email and reports whether it is within the
// limit. The window starts at the first request.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	key := t.key(email)

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}

	return incr.Val() <= t.limit, nil
}

// key hashes the address so raw emails never land in Redis.
func (t *ResetThrottle) key(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "reset:throttle:" + hex.EncodeToString(sum[:])
}
