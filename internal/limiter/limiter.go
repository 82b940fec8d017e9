// Package limiter rate-limits login attempts per (username, client IP).
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles repeated login failures.
type Limiter interface {
	// Allow reports whether a login attempt may proceed.
	Allow(ctx context.Context, username, ip string) (bool, error)
	// Failure records a failed attempt and reports whether the caller is
	// now locked out.
	Failure(ctx context.Context, username, ip string) (bool, error)
	// Success clears the failure counter after a successful login.
	Success(ctx context.Context, username, ip string) error
}

// RedisLimiter counts failures in a fixed window backed by Redis.
type RedisLimiter struct {
	rdb         *redis.Client
	maxFailures int
	window      time.Duration
}

// NewRedisLimiter creates a new RedisLimiter instance.
func NewRedisLimiter(rdb *redis.Client, maxFailures int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, maxFailures: maxFailures, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, username, ip string) (bool, error) {
	count, err := l.rdb.Get(ctx, failureKey(username, ip)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read login failures: %w", err)
	}
	return count < l.maxFailures, nil
}

func (l *RedisLimiter) Failure(ctx context.Context, username, ip string) (bool, error) {
	key := failureKey(username, ip)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record login failure: %w", err)
	}
	if count == 1 {
		// First failure opens the window.
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set failure window: %w", err)
		}
	}
	return count >= int64(l.maxFailures), nil
}

func (l *RedisLimiter) Success(ctx context.Context, username, ip string) error {
	if err := l.rdb.Del(ctx, failureKey(username, ip)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func failureKey(username, ip string) string {
	return fmt.Sprintf("login_fail:%s:%s", username, ip)
}
