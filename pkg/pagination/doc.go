// Package pagination prefetches catalog pages in parallel.
//
// The prefetcher is used to warm the shared Redis cache so the first
// scrolls of an interactive session are served without waiting on RAWG.
// Concurrency is bounded with an errgroup limit and every page gets its
// own timeout.
//
// Example usage:
//
//	p := pagination.NewPrefetcher(rawgClient, pagination.DefaultConfig())
//	pages, err := p.Prefetch(ctx, "", 5)
//	games := pagination.Flatten(pages)
//
// The prefetcher:
//   - Fetches page 1 first; an empty first page ends the run
//   - Fetches pages 2..n concurrently (default 4 at a time)
//   - Stops scheduling past the first empty page (end of catalog)
//   - Returns the pages fetched so far together with the first error
package pagination
