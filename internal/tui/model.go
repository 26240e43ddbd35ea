// Package tui implements the kaios terminal front-end: a hero carousel, the
// incrementally loaded game grid, search, a detail modal and the assistant
// panel.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/assistant"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/feed"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

const (
	// DefaultHeroInterval is how long each hero card stays on screen.
	DefaultHeroInterval = 6 * time.Second

	defaultFeaturedTimeout = 10 * time.Second
	defaultDetailTimeout   = 10 * time.Second

	// Rows reserved outside the grid: title, hero box, search, status, footer.
	chromeHeight = 12
)

// DetailSource loads the full record for the detail modal.
type DetailSource interface {
	GameDetails(ctx context.Context, id int64) (*catalog.Game, error)
}

// Options configures the model.
type Options struct {
	Source   catalog.Source
	Featured feed.FeaturedSource // optional
	Details  DetailSource        // optional

	// Assistant answers chat prompts. Nil behaves like an assistant with no
	// API key.
	Assistant *assistant.Assistant

	Feed feed.Options

	// MockFallback shows mock hero cards when the featured fetch fails.
	MockFallback    bool
	FeaturedTimeout time.Duration

	HeroInterval time.Duration

	// HeroTick schedules hero rotation; tea.Tick when nil.
	HeroTick feed.TickFunc

	Version string
	Logger  *zerolog.Logger
}

type mode int

const (
	modeGrid mode = iota
	modeSearch
	modeDetail
	modeAssistant
)

type heroTickMsg struct{}

type detailLoadedMsg struct {
	requestID uint64
	game      *catalog.Game
	err       error
}

type assistantReplyMsg struct {
	reply string
}

// Model is the root Bubble Tea model.
type Model struct {
	feed      *feed.Controller
	featured  feed.FeaturedSource
	details   DetailSource
	assistant *assistant.Assistant
	opts      Options
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mode mode

	// Hero carousel
	heroCards    []catalog.Card
	heroIndex    int
	heroFallback bool

	// Grid
	cursor     int
	offset     int
	generation uint64

	width    int
	height   int
	pageSize int

	searchInput textinput.Model
	spinner     spinner.Model

	// Detail modal
	detail          *catalog.Game
	detailLoading   bool
	detailErr       error
	detailRequestID uint64

	// Assistant panel
	promptInput   textinput.Model
	transcript    viewport.Model
	pendingPrompt string

	quitting bool
}

// New creates the model. The grid starts fetching on Init.
func New(opts Options) Model {
	if opts.HeroInterval <= 0 {
		opts.HeroInterval = DefaultHeroInterval
	}
	if opts.HeroTick == nil {
		opts.HeroTick = tea.Tick
	}
	if opts.FeaturedTimeout <= 0 {
		opts.FeaturedTimeout = defaultFeaturedTimeout
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.New(nil)
	}

	logger := logging.NewLogger("tui")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.Feed.Logger == nil {
		opts.Feed.Logger = opts.Logger
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search games"
	search.CharLimit = 120
	search.Width = 40
	search.Cursor.SetMode(cursor.CursorStatic)

	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.Placeholder = "Ask K-AI..."
	prompt.CharLimit = 500
	prompt.Width = 60
	prompt.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		feed:        feed.New(opts.Source, opts.Feed),
		featured:    opts.Featured,
		details:     opts.Details,
		assistant:   opts.Assistant,
		opts:        opts,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		mode:        modeGrid,
		pageSize:    10,
		searchInput: search,
		promptInput: prompt,
		transcript:  viewport.New(60, 12),
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.feed.Init(), m.spinner.Tick, m.heroTick()}
	if m.featured != nil {
		cmds = append(cmds, feed.LoadFeatured(m.ctx, m.featured, m.opts.MockFallback, m.opts.FeaturedTimeout))
	}
	return tea.Batch(cmds...)
}

func (m Model) heroTick() tea.Cmd {
	return m.opts.HeroTick(m.opts.HeroInterval, func(time.Time) tea.Msg { return heroTickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.pageSize = max(m.height-chromeHeight, 3)
		m.transcript.Width = max(m.width-8, 20)
		m.transcript.Height = max(m.height-10, 5)
		m.refreshTranscript()
		m.ensureCursorVisible()
		return m, nil

	case feed.FeaturedLoadedMsg:
		m.heroCards = msg.Cards
		m.heroFallback = msg.Fallback
		m.heroIndex = 0
		return m, nil

	case heroTickMsg:
		m.nextHero()
		return m, m.heroTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detailLoadedMsg:
		if msg.requestID != m.detailRequestID || m.mode != modeDetail {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailErr = msg.err
			m.logger.Warn().Err(msg.err).Msg("Failed to load game details")
			return m, nil
		}
		m.detail = msg.game
		return m, nil

	case assistantReplyMsg:
		m.pendingPrompt = ""
		m.refreshTranscript()
		return m, nil
	}

	// Everything else belongs to the fetch controller (debounce and page
	// results).
	cmd := m.feed.Update(msg)
	m.syncGrid()
	return m, cmd
}

// syncGrid resets the cursor when a new query generation starts and keeps
// it within the current items.
func (m *Model) syncGrid() {
	snap := m.feed.Snapshot()
	if snap.Generation != m.generation {
		m.generation = snap.Generation
		m.cursor = 0
		m.offset = 0
	}
	if n := len(snap.Items); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.ensureCursorVisible()
}

func (m *Model) nextHero() {
	if len(m.heroCards) == 0 {
		return
	}
	m.heroIndex = (m.heroIndex + 1) % len(m.heroCards)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKeys(msg)
	case modeDetail:
		return m.handleDetailKeys(msg)
	case modeAssistant:
		return m.handleAssistantKeys(msg)
	default:
		return m.handleGridKeys(msg)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.feed.Close()
	m.cancel()
	return m, tea.Quit
}

func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.feed.Items()

	switch msg.String() {
	case "q":
		return m.quit()

	case "up", "k":
		return m, m.moveCursor(-1)
	case "down", "j":
		return m, m.moveCursor(1)
	case "pgup":
		return m, m.moveCursor(-m.pageSize)
	case "pgdown":
		return m, m.moveCursor(m.pageSize)
	case "home", "g":
		return m, m.moveCursor(-len(items))
	case "end", "G":
		return m, m.moveCursor(len(items))

	case "tab":
		m.nextHero()
		return m, nil

	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.feed.Snapshot().PendingQuery)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case "r":
		if m.feed.Status() != feed.StatusError {
			return m, nil
		}
		cmd := m.feed.Retry()
		m.syncGrid()
		return m, cmd

	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		return m.openDetail(items[m.cursor])

	case "a":
		m.mode = modeAssistant
		m.refreshTranscript()
		return m, m.promptInput.Focus()
	}

	return m, nil
}

// moveCursor moves by delta and asks for the next page once the cursor
// lands on the last loaded item.
func (m *Model) moveCursor(delta int) tea.Cmd {
	n := len(m.feed.Items())
	if n == 0 {
		return nil
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureCursorVisible()

	if m.cursor == n-1 {
		return m.feed.LoadMore()
	}
	return nil
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = modeGrid
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)

	if value := m.searchInput.Value(); value != before {
		return m, tea.Batch(inputCmd, m.feed.SetSearchQuery(value))
	}
	return m, inputCmd
}

func (m Model) openDetail(game catalog.Game) (tea.Model, tea.Cmd) {
	m.mode = modeDetail
	m.detail = &game
	m.detailErr = nil
	m.detailRequestID++

	if m.details == nil {
		m.detailLoading = false
		return m, nil
	}
	m.detailLoading = true

	var (
		ctx       = m.ctx
		src       = m.details
		requestID = m.detailRequestID
		id        = game.ID
	)
	return m, func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = detailLoadedMsg{requestID: requestID, err: fmt.Errorf("details panic: %v", r)}
			}
		}()
		ctx, cancel := context.WithTimeout(ctx, defaultDetailTimeout)
		defer cancel()

		full, err := src.GameDetails(ctx, id)
		return detailLoadedMsg{requestID: requestID, game: full, err: err}
	}
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = modeGrid
		m.detail = nil
		m.detailLoading = false
		m.detailErr = nil
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m Model) handleAssistantKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		m.promptInput.Blur()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case "enter":
		prompt := strings.TrimSpace(m.promptInput.Value())
		if prompt == "" || m.pendingPrompt != "" {
			return m, nil
		}
		m.pendingPrompt = prompt
		m.promptInput.SetValue("")
		m.refreshTranscript()

		ctx, a := m.ctx, m.assistant
		return m, func() tea.Msg {
			return assistantReplyMsg{reply: a.Reply(ctx, prompt)}
		}
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) refreshTranscript() {
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
}

// Feed exposes the grid controller, mainly for tests and headless callers.
func (m Model) Feed() *feed.Controller {
	return m.feed
}
