package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupLimiter(t *testing.T, maxFailures int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisLimiter(rdb, maxFailures, window), mr
}

func TestAllow_NoFailuresRecorded(t *testing.T) {
	l, _ := setupLimiter(t, 3, time.Minute)

	allowed, err := l.Allow(context.Background(), "jdoe", "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("a caller with no recorded failures must be allowed")
	}
}

func TestFailure_LocksOutAtThreshold(t *testing.T) {
	l, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		locked, err := l.Failure(ctx, "jdoe", "10.0.0.1")
		if err != nil {
			t.Fatalf("Failure() error = %v", err)
		}
		if locked {
			t.Fatalf("locked out after %d failures, threshold is 3", i+1)
		}

		allowed, err := l.Allow(ctx, "jdoe", "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !allowed {
			t.Fatalf("blocked after %d failures, threshold is 3", i+1)
		}
	}

	locked, err := l.Failure(ctx, "jdoe", "10.0.0.1")
	if err != nil {
		t.Fatalf("Failure() error = %v", err)
	}
	if !locked {
		t.Error("third failure must report lockout")
	}

	allowed, err := l.Allow(ctx, "jdoe", "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if allowed {
		t.Error("caller must be blocked after reaching the threshold")
	}
}

func TestFailure_CountersAreScopedPerUserAndIP(t *testing.T) {
	l, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if _, err := l.Failure(ctx, "jdoe", "10.0.0.1"); err != nil {
		t.Fatalf("Failure() error = %v", err)
	}

	cases := []struct{ username, ip string }{
		{"jdoe", "10.0.0.2"},
		{"other", "10.0.0.1"},
	}
	for _, c := range cases {
		allowed, err := l.Allow(ctx, c.username, c.ip)
		if err != nil {
			t.Fatalf("Allow(%s, %s) error = %v", c.username, c.ip, err)
		}
		if !allowed {
			t.Errorf("Allow(%s, %s) = false, counters must not leak across keys", c.username, c.ip)
		}
	}
}

func TestSuccess_ResetsCounter(t *testing.T) {
	l, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if _, err := l.Failure(ctx, "jdoe", "10.0.0.1"); err != nil {
		t.Fatalf("Failure() error = %v", err)
	}
	if err := l.Success(ctx, "jdoe", "10.0.0.1"); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	allowed, err := l.Allow(ctx, "jdoe", "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("a successful login must clear the failure counter")
	}
}

func TestFailure_WindowExpires(t *testing.T) {
	l, mr := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if _, err := l.Failure(ctx, "jdoe", "10.0.0.1"); err != nil {
		t.Fatalf("Failure() error = %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	allowed, err := l.Allow(ctx, "jdoe", "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("the failure window must expire")
	}
}
