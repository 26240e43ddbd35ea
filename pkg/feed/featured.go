package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

// FeaturedCount is the number of mock cards used when falling back.
const FeaturedCount = 5

// FeaturedSource supplies the hero carousel.
type FeaturedSource interface {
	FeaturedGames(ctx context.Context) ([]catalog.Card, error)
}

// FeaturedFunc adapts a function to FeaturedSource.
type FeaturedFunc func(ctx context.Context) ([]catalog.Card, error)

// FeaturedGames implements FeaturedSource.
func (f FeaturedFunc) FeaturedGames(ctx context.Context) ([]catalog.Card, error) {
	return f(ctx)
}

// FeaturedLoadedMsg carries the hero cards. Fallback is set when the cards
// are mock cards standing in for a failed fetch.
type FeaturedLoadedMsg struct {
	Cards    []catalog.Card
	Fallback bool
}

// LoadFeatured fetches the hero cards. Unlike the grid, the hero never
// reports a failure: an error yields no cards, or the deterministic mock
// cards when fallback is set. A cancelled fetch always yields no cards.
func LoadFeatured(ctx context.Context, src FeaturedSource, fallback bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		logger := logging.NewLogger("featured")

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		cards, err := src.FeaturedGames(ctx)
		switch {
		case err == nil:
			return FeaturedLoadedMsg{Cards: cards}
		case catalog.IsCancelled(err):
			return FeaturedLoadedMsg{Cards: []catalog.Card{}}
		case fallback:
			logger.Warn().Err(err).Msg("Featured fetch failed, using mock cards")
			return FeaturedLoadedMsg{Cards: catalog.MockCards(FeaturedCount), Fallback: true}
		default:
			logger.Warn().Err(err).Msg("Featured fetch failed")
			return FeaturedLoadedMsg{Cards: []catalog.Card{}}
		}
	}
}
