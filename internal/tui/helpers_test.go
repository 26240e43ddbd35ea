package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/feed"
)

var errUpstream = errors.New("upstream unavailable")

// stubSource serves fixed pages per query. Commands run on the test
// goroutine, so no locking is needed.
type stubSource struct {
	pages map[string][][]catalog.Game
	errs  map[int]error // consumed once per page
	calls []string
}

func newStubSource() *stubSource {
	return &stubSource{
		pages: map[string][][]catalog.Game{
			"": {gamesRange(1, 20), gamesRange(21, 20)},
		},
		errs: make(map[int]error),
	}
}

func (s *stubSource) FetchGames(ctx context.Context, page int, query string) ([]catalog.Game, error) {
	s.calls = append(s.calls, fmt.Sprintf("%q/%d", query, page))
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

type stubDetails struct {
	calls []int64
	err   error
}

func (s *stubDetails) GameDetails(ctx context.Context, id int64) (*catalog.Game, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.Game{
		ID:             id,
		Name:           fmt.Sprintf("Game %d", id),
		DescriptionRaw: "A long description from the catalog.",
		Website:        "https://example.com/game",
		Stores: []catalog.StoreEntry{
			{Store: catalog.Store{Name: "GOG", Slug: "gog", Domain: "gog.com"}},
		},
	}, nil
}

func gamesRange(from, n int) []catalog.Game {
	games := make([]catalog.Game, n)
	for i := range games {
		id := int64(from + i)
		games[i] = catalog.Game{ID: id, Name: fmt.Sprintf("Game %d", id), Released: "2023-05-01", Rating: 4.2}
	}
	return games
}

func featuredCards(n int) feed.FeaturedSource {
	return feed.FeaturedFunc(func(ctx context.Context) ([]catalog.Card, error) {
		cards := make([]catalog.Card, n)
		for i := range cards {
			cards[i] = catalog.Card{ID: int64(i + 1), Label: "TRENDING", Title: fmt.Sprintf("Featured %d", i+1), ButtonText: "PLAY NOW"}
		}
		return cards, nil
	})
}

func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Now()) }
}

func noTick(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }

func testOptions(src catalog.Source) Options {
	nop := zerolog.Nop()
	return Options{
		Source:   src,
		Featured: featuredCards(3),
		Feed:     feed.Options{Tick: immediateTick},
		HeroTick: noTick,
		Logger:   &nop,
	}
}

// initModel builds a model and runs its Init commands to completion.
func initModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	m = drain(t, m, m.Init())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// drain runs cmd and every command it produces, feeding messages back into
// the model. Spinner frames and quit messages are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, c := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

// press sends a key and drains the resulting commands.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return drain(t, updated.(Model), cmd)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, runes(string(r)))
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
