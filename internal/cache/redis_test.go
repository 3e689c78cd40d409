package cache_test

import (
	"context"
	"testing"
	"time"

	"fender-store/internal/cache"
	"fender-store/pkg/testutil"

	"go.uber.org/zap"
)

func TestRedisClient_CountersAndBlacklist(t *testing.T) {
	addr := testutil.SetupTestRedis(t)
	c, err := cache.NewRedisClient(addr, "", 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.IncrWithTTL(ctx, "login_fail:a@b.c", time.Minute)
		if err != nil {
			t.Fatalf("IncrWithTTL: %v", err)
		}
		if n != i {
			t.Fatalf("expected counter %d, got %d", i, n)
		}
	}
	if err := c.Del(ctx, "login_fail:a@b.c"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if n, _ := c.IncrWithTTL(ctx, "login_fail:a@b.c", time.Minute); n != 1 {
		t.Fatalf("expected counter reset, got %d", n)
	}

	locked, err := c.CheckRateLimit(ctx, "login_lock:a@b.c")
	if err != nil || locked {
		t.Fatalf("expected no lock: %v %v", locked, err)
	}
	if err := c.SetRateLimit(ctx, "login_lock:a@b.c", time.Minute); err != nil {
		t.Fatalf("SetRateLimit: %v", err)
	}
	if locked, _ := c.CheckRateLimit(ctx, "login_lock:a@b.c"); !locked {
		t.Fatal("expected lock to be set")
	}

	if err := c.BlacklistToken(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("BlacklistToken: %v", err)
	}
	if ok, _ := c.IsTokenBlacklisted(ctx, "jti-1"); !ok {
		t.Fatal("expected jti-1 to be blacklisted")
	}
	if ok, _ := c.IsTokenBlacklisted(ctx, "jti-2"); ok {
		t.Fatal("jti-2 must not be blacklisted")
	}
}
