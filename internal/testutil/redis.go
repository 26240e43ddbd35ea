package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// RedisAddr returns the Redis address used by tests. KAIOS_TEST_REDIS
// overrides the localhost default.
func RedisAddr() string {
	if addr := os.Getenv("KAIOS_TEST_REDIS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// Redis connects to the test Redis on DB 15 and flushes it. The test is
// skipped when no server is reachable.
func Redis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: RedisAddr(),
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}
