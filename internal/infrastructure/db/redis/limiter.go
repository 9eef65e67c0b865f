package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request limiter backed by Redis, used to slow
// credential-stuffing on login and abuse of the password-reset endpoint.
// Key format: ratelimit:<scope>:<subject>
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLimiter creates a Limiter allowing limit requests per subject per
// window.
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: int64(limit), window: window}
}

// Allow counts one attempt for (scope, subject) and reports whether it is
// within the window's budget. On Redis failure the request is allowed; the
// limiter protects capacity, it is not an availability dependency.
func (l *Limiter) Allow(ctx context.Context, scope, subject string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", scope, subject)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("limiter expire: %w", err)
		}
	}
	return n <= l.limit, nil
}
