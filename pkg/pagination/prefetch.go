package pagination

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

// Config holds prefetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page fetches.
	MaxConcurrency int
	// Timeout per page fetch.
	Timeout time.Duration
}

// DefaultConfig returns a configuration that stays inside the client's
// default token bucket.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// Prefetcher fetches a range of catalog pages in parallel.
type Prefetcher struct {
	source catalog.Source
	config Config
	logger zerolog.Logger
}

// NewPrefetcher creates a new prefetcher over source.
func NewPrefetcher(source catalog.Source, config Config) *Prefetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Prefetcher{
		source: source,
		config: config,
		logger: logging.NewLogger("prefetch"),
	}
}

// Prefetch fetches pages 1..pages for query. The returned map holds every
// page fetched successfully; pages past the end of the catalog are absent.
// On failure the partial map is returned with the first error.
func (p *Prefetcher) Prefetch(ctx context.Context, query string, pages int) (map[int][]catalog.Game, error) {
	if pages < 1 {
		return nil, fmt.Errorf("pages must be >= 1 (got %d)", pages)
	}
	start := time.Now()

	results := make(map[int][]catalog.Game, pages)

	first, err := p.fetch(ctx, 1, query)
	if err != nil {
		return results, fmt.Errorf("fetch first page: %w", err)
	}
	if len(first) == 0 {
		p.logger.Info().Str("query", query).Msg("Catalog empty, nothing to prefetch")
		return results, nil
	}
	results[1] = first

	var (
		mu       sync.Mutex
		lastPage = pages
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxConcurrency)

	for page := 2; page <= pages; page++ {
		mu.Lock()
		stop := page > lastPage
		mu.Unlock()
		if stop || gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			mu.Lock()
			past := page > lastPage
			mu.Unlock()
			if past {
				return nil
			}

			games, err := p.fetch(gctx, page, query)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", page, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(games) == 0 {
				if page-1 < lastPage {
					lastPage = page - 1
				}
				return nil
			}
			results[page] = games
			return nil
		})
	}

	err = g.Wait()

	// Drop pages that raced past the end marker.
	for page := range results {
		if page > lastPage {
			delete(results, page)
		}
	}

	event := p.logger.Info()
	if err != nil {
		event = p.logger.Warn().Err(err)
	}
	event.
		Str("query", query).
		Int("requested", pages).
		Int("fetched", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Prefetch complete")

	return results, err
}

func (p *Prefetcher) fetch(ctx context.Context, page int, query string) ([]catalog.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()
	return p.source.FetchGames(ctx, page, query)
}

// Flatten joins pages in page order, keeping the first occurrence of each
// game id.
func Flatten(pages map[int][]catalog.Game) []catalog.Game {
	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	seen := make(map[int64]struct{})
	var out []catalog.Game
	for _, n := range nums {
		for _, g := range pages[n] {
			if _, dup := seen[g.ID]; dup {
				continue
			}
			seen[g.ID] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}
