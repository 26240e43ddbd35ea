package feed

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

// stubSource serves fixed pages per query and records every call.
// Commands run on the test goroutine, so no locking is needed.
type stubSource struct {
	pages map[string][][]catalog.Game
	errs  map[int]error // consumed once per page
	calls []string
	ctxs  []context.Context

	// honourCtx makes the source report cancellation when its context is done.
	honourCtx bool
}

func newStubSource() *stubSource {
	return &stubSource{
		pages: make(map[string][][]catalog.Game),
		errs:  make(map[int]error),
	}
}

func (s *stubSource) FetchGames(ctx context.Context, page int, query string) ([]catalog.Game, error) {
	s.calls = append(s.calls, fmt.Sprintf("%q/%d", query, page))
	s.ctxs = append(s.ctxs, ctx)

	if s.honourCtx && ctx.Err() != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, catalog.ErrCancelled)
	}
	if err, ok := s.errs[page]; ok {
		delete(s.errs, page)
		return nil, err
	}
	pages := s.pages[query]
	if page > len(pages) {
		return []catalog.Game{}, nil
	}
	return pages[page-1], nil
}

// gamesRange returns n games with ids from, from+1, ...
func gamesRange(from, n int) []catalog.Game {
	games := make([]catalog.Game, n)
	for i := range games {
		id := int64(from + i)
		games[i] = catalog.Game{ID: id, Name: fmt.Sprintf("Game %d", id)}
	}
	return games
}

func gameIDs(games []catalog.Game) []int64 {
	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

func seqIDs(from, n int) []int64 {
	return gameIDs(gamesRange(from, n))
}

// immediateTick fires debounce timers as soon as their command runs.
func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Now()) }
}

func newTestController(src catalog.Source, opts Options) *Controller {
	nop := zerolog.Nop()
	opts.Logger = &nop
	if opts.Tick == nil {
		opts.Tick = immediateTick
	}
	return New(src, opts)
}

// step runs cmd and feeds its message back, returning the follow-up command.
func step(c *Controller, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return c.Update(cmd())
}
