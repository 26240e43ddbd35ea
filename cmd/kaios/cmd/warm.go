package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/client"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/pagination"
)

var (
	warmPages       int
	warmQuery       string
	warmConcurrency int
	warmRefresh     bool
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefetch catalog pages into the Redis cache",
	Long: `Fetch the first pages of the catalog (optionally for a search query)
in parallel so later browsing is served from Redis.

--refresh revalidates entries that are still fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rdb := connectRedis(ctx)
		if rdb == nil {
			return fmt.Errorf("warm needs a reachable Redis: set [redis] addr or REDIS_URL")
		}
		defer rdb.Close()

		c, err := newRAWGClient(rdb)
		if err != nil {
			return err
		}
		defer c.Close()

		if warmRefresh {
			ctx = client.WithRevalidate(ctx)
		}

		prefetchCfg := pagination.DefaultConfig()
		prefetchCfg.MaxConcurrency = warmConcurrency
		prefetcher := pagination.NewPrefetcher(c, prefetchCfg)

		pages, err := prefetcher.Prefetch(ctx, warmQuery, warmPages)

		nums := make([]int, 0, len(pages))
		for n := range pages {
			nums = append(nums, n)
		}
		sort.Ints(nums)

		out := cmd.OutOrStdout()
		for _, n := range nums {
			fmt.Fprintf(out, "page %d: %d games\n", n, len(pages[n]))
		}
		fmt.Fprintf(out, "cached %d games across %d pages\n", len(pagination.Flatten(pages)), len(pages))

		if err != nil {
			return fmt.Errorf("prefetch: %w", err)
		}
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVar(&warmPages, "pages", 5, "number of pages to fetch")
	warmCmd.Flags().StringVar(&warmQuery, "query", "", "search query to warm")
	warmCmd.Flags().IntVar(&warmConcurrency, "concurrency", 4, "parallel page fetches")
	warmCmd.Flags().BoolVar(&warmRefresh, "refresh", false, "revalidate fresh cache entries")
	rootCmd.AddCommand(warmCmd)
}
