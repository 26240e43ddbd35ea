package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/internal/testutil"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/client"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/feed"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/pagination"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/ratelimit"
)

func newClient(t *testing.T, rdb *redis.Client, mock *testutil.MockRAWG) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig(rdb, "test-key", "kaios-integration/1.0")
	cfg.BaseURL = mock.URL()
	cfg.RateLimit = 100
	cfg.Burst = 10
	cfg.InitialBackoff = 50 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs Docker")
	}
}

func cachedKeys(t *testing.T, rdb *redis.Client) []string {
	t.Helper()
	keys, err := rdb.Keys(context.Background(), "kaios:"+client.CacheNamespace+":*").Result()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	return keys
}

// TestFeedOverCachedClient runs the grid controller headless against the
// cached client: the first pass reaches the upstream, the second is served
// from Redis.
func TestFeedOverCachedClient(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(45)
	defer mock.Close()
	c := newClient(t, rdb, mock)

	run := func() *feed.Controller {
		ctrl := feed.New(c, feed.Options{Timeout: 10 * time.Second})
		ctrl.Drain(ctrl.Init())
		for ctrl.HasMore() && ctrl.Status() != feed.StatusError {
			ctrl.Drain(ctrl.LoadMore())
		}
		return ctrl
	}

	first := run()
	if got := len(first.Items()); got != 45 {
		t.Fatalf("items = %d, want 45", got)
	}
	if first.Status() != feed.StatusExhausted {
		t.Errorf("status = %v, want exhausted", first.Status())
	}
	// Three pages plus the 404 past the end.
	if got := mock.RequestCount(); got != 4 {
		t.Errorf("upstream requests = %d, want 4", got)
	}
	if got := len(cachedKeys(t, rdb)); got != 3 {
		t.Errorf("cached pages = %d, want 3", got)
	}

	second := run()
	if got := len(second.Items()); got != 45 {
		t.Fatalf("second run items = %d, want 45", got)
	}
	// Only the uncacheable 404 goes upstream again.
	if got := mock.RequestCount(); got != 5 {
		t.Errorf("upstream requests after second run = %d, want 5", got)
	}
}

// TestPrefetchWarmsCache checks that prefetched pages are later served
// without upstream traffic.
func TestPrefetchWarmsCache(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(60)
	defer mock.Close()
	c := newClient(t, rdb, mock)

	ctx := context.Background()
	pages, err := pagination.NewPrefetcher(c, pagination.DefaultConfig()).Prefetch(ctx, "", 3)
	if err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if got := len(pagination.Flatten(pages)); got != 60 {
		t.Fatalf("prefetched games = %d, want 60", got)
	}

	before := mock.RequestCount()
	for page := 1; page <= 3; page++ {
		games, err := c.ListGames(ctx, page, "")
		if err != nil {
			t.Fatalf("ListGames(%d): %v", page, err)
		}
		if len(games) != 20 {
			t.Errorf("page %d: %d games, want 20", page, len(games))
		}
	}
	if got := mock.RequestCount(); got != before {
		t.Errorf("upstream requests = %d, want %d (cache hits)", got, before)
	}
}

// TestRevalidateNotModified checks that a revalidating request sends the
// stored ETag and keeps serving the cached body on 304.
func TestRevalidateNotModified(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(0)
	defer mock.Close()
	mock.SetHandler("/games", testutil.NewConditionalHandler(`"stable"`,
		`{"count":1,"results":[{"id":7,"name":"Stable Game"}]}`))
	c := newClient(t, rdb, mock)

	ctx := context.Background()
	first, err := c.ListGames(ctx, 1, "")
	if err != nil {
		t.Fatalf("first ListGames: %v", err)
	}

	second, err := c.ListGames(client.WithRevalidate(ctx), 1, "")
	if err != nil {
		t.Fatalf("revalidating ListGames: %v", err)
	}

	if mock.RequestCount() != 2 {
		t.Errorf("upstream requests = %d, want 2", mock.RequestCount())
	}
	if mock.ConditionalCount() != 1 {
		t.Errorf("conditional requests = %d, want 1", mock.ConditionalCount())
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "Stable Game" {
		t.Errorf("second = %+v, want the cached page", second)
	}
}

// TestQuotaBlock seeds a critical quota state shared through Redis.
func TestQuotaBlock(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(20)
	defer mock.Close()

	ctx := context.Background()
	lastUpdate, _ := json.Marshal(time.Now())
	rdb.Set(ctx, ratelimit.RedisKeyRemaining, 3, 0)
	rdb.Set(ctx, ratelimit.RedisKeyResetTimestamp, time.Now().Add(time.Minute).Unix(), 0)
	rdb.Set(ctx, ratelimit.RedisKeyLastUpdate, lastUpdate, 0)

	c := newClient(t, rdb, mock)

	_, err := c.ListGames(ctx, 1, "")
	if !errors.Is(err, client.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("upstream requests = %d, want 0 (blocked)", mock.RequestCount())
	}
}

// TestRetryServerErrors checks that 5xx answers are retried and the
// eventual success is cached.
func TestRetryServerErrors(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(0)
	defer mock.Close()

	attempts := 0
	mock.SetHandler("/games", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.Write([]byte(`{"count":1,"results":[{"id":1,"name":"Recovered"}]}`))
	})
	c := newClient(t, rdb, mock)

	games, err := c.ListGames(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("ListGames after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(games) != 1 || games[0].Name != "Recovered" {
		t.Errorf("games = %+v", games)
	}
	if got := len(cachedKeys(t, rdb)); got != 1 {
		t.Errorf("cached pages = %d, want 1", got)
	}
}

// TestGameDetails checks the detail endpoint through the cache.
func TestGameDetails(t *testing.T) {
	skipShort(t)
	rdb := testutil.StartRedis(t)

	mock := testutil.NewMockRAWG(5)
	defer mock.Close()
	c := newClient(t, rdb, mock)

	ctx := context.Background()
	game, err := c.GameDetails(ctx, 3)
	if err != nil {
		t.Fatalf("GameDetails: %v", err)
	}
	if game.Name != "Game 3" || game.DescriptionRaw != "Description of Game 3" {
		t.Errorf("game = %+v", game)
	}

	if _, err := c.GameDetails(ctx, 3); err != nil {
		t.Fatalf("cached GameDetails: %v", err)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("upstream requests = %d, want 1", mock.RequestCount())
	}

	if _, err := c.GameDetails(ctx, 99); err == nil {
		t.Error("GameDetails(99) succeeded, want error")
	}
}
