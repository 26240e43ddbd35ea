package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/internal/tui"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/feed"
)

var (
	browseOffline     bool
	browseOfflinePage int
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive catalog",
	Long: `Open the interactive catalog: featured titles on top, the game grid
below. The grid loads more games as the cursor reaches the end.

Keys:
  ↑/k, ↓/j    Move
  PgUp/PgDn   Page
  Enter       Game details (Esc closes)
  /           Search
  Tab         Next featured title
  r           Reconnect after a failure
  a           Assistant panel
  q           Quit

--offline browses generated sample data instead of the RAWG API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		closeLog, err := logToFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer closeLog()

		opts := tui.Options{
			MockFallback: cfg.Feed.MockFallback,
			Assistant:    newAssistant(ctx),
			Feed: feed.Options{
				Debounce: cfg.Feed.Debounce,
				Timeout:  cfg.Feed.Timeout,
			},
			Version: Version,
			Logger:  &logger,
		}

		if browseOffline {
			opts.Source = catalog.MockSource(browseOfflinePage)
			opts.Featured = feed.FeaturedFunc(func(context.Context) ([]catalog.Card, error) {
				return catalog.MockCards(feed.FeaturedCount), nil
			})
		} else {
			rdb := connectRedis(ctx)
			if rdb != nil {
				defer rdb.Close()
			}
			c, err := newRAWGClient(rdb)
			if err != nil {
				return fmt.Errorf("%w (or run with --offline)", err)
			}
			defer c.Close()

			opts.Source = c
			opts.Featured = c
			opts.Details = c
		}

		logger.Info().Bool("offline", browseOffline).Msg("Starting catalog browser")

		model := tui.New(opts)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		final, err := p.Run()
		if m, ok := final.(tui.Model); ok {
			m.Feed().Close()
		}
		if err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().BoolVar(&browseOffline, "offline", false, "browse generated sample data")
	browseCmd.Flags().IntVar(&browseOfflinePage, "offline-pages", 5, "pages of sample data in offline mode")
	rootCmd.AddCommand(browseCmd)
}
