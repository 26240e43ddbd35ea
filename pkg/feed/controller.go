package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

// Defaults applied by New.
const (
	DefaultDebounce     = 600 * time.Millisecond
	DefaultErrorMessage = "Connection lost."
)

// TickFunc schedules fn after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configures a Controller.
type Options struct {
	// Debounce is the quiet period before a search is committed.
	Debounce time.Duration

	// Timeout bounds each fetch. Zero means no timeout. An expired fetch
	// is a failure, not a cancellation.
	Timeout time.Duration

	// ErrorMessage is shown to the user when a fetch fails.
	ErrorMessage string

	Logger *zerolog.Logger

	// Tick replaces tea.Tick, mainly in tests.
	Tick TickFunc
}

var controllerIDs atomic.Uint64

// Controller coordinates paginated, searchable fetching for the game grid.
// It is not safe for concurrent use; call it only from the Bubble Tea
// event loop (or a single goroutine in headless use).
type Controller struct {
	id     uint64
	source catalog.Source
	opts   Options
	logger zerolog.Logger

	items []catalog.Game
	seen  map[int64]struct{}

	page         int
	query        string
	pendingQuery string
	status       Status
	hasMore      bool
	err          error

	generation  uint64
	requestID   uint64
	debounceID  uint64
	retrySignal uint64

	cancel context.CancelFunc
	closed bool
}

// New creates a controller over source. Nothing is fetched until Init.
func New(source catalog.Source, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = DefaultErrorMessage
	}
	if opts.Tick == nil {
		opts.Tick = tea.Tick
	}

	logger := logging.NewLogger("feed")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Controller{
		id:      controllerIDs.Add(1),
		source:  source,
		opts:    opts,
		logger:  logger,
		seen:    make(map[int64]struct{}),
		page:    1,
		status:  StatusIdle,
		hasMore: true,
	}
}

// Init starts the first fetch cycle: page 1 of the empty query.
func (c *Controller) Init() tea.Cmd {
	if c.closed || c.requestID > 0 {
		return nil
	}
	return c.startCycle()
}

// SetSearchQuery buffers raw search text. The value is committed once no
// further call arrives for the debounce period.
func (c *Controller) SetSearchQuery(text string) tea.Cmd {
	if c.closed {
		return nil
	}
	c.pendingQuery = text
	c.debounceID++

	id, debounceID := c.id, c.debounceID
	return c.opts.Tick(c.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{controller: id, debounceID: debounceID, query: text}
	})
}

// LoadMore advances to the next page. It does nothing while a fetch is
// outstanding, after a failure, or once the source is exhausted.
func (c *Controller) LoadMore() tea.Cmd {
	if c.closed || c.requestID == 0 {
		return nil
	}
	if c.status == StatusLoading || c.status == StatusError || !c.hasMore {
		return nil
	}
	c.page++
	return c.startCycle()
}

// Retry restarts the current query at page 1.
func (c *Controller) Retry() tea.Cmd {
	if c.closed {
		return nil
	}
	c.cancelInFlight()
	c.page = 1
	c.err = nil
	c.resetItems()
	c.hasMore = true
	c.retrySignal++

	c.logger.Info().
		Str("query", c.query).
		Uint64("retry", c.retrySignal).
		Msg("Retrying feed")

	return c.startCycle()
}

// Close cancels outstanding work. Results that arrive later are dropped.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancelInFlight()
	c.generation++
}

// Update applies a message. Messages addressed to other controllers and
// unrelated messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SearchMsg:
		return c.SetSearchQuery(msg.Query)
	case LoadMoreMsg:
		return c.LoadMore()
	case RetryMsg:
		return c.Retry()
	case debounceMsg:
		if msg.controller != c.id {
			return nil
		}
		return c.commitQuery(msg)
	case pageMsg:
		if msg.controller != c.id {
			return nil
		}
		c.applyPage(msg)
	}
	return nil
}

// commitQuery applies a debounced query if it is still the latest input.
func (c *Controller) commitQuery(msg debounceMsg) tea.Cmd {
	if c.closed || msg.debounceID != c.debounceID {
		return nil
	}
	if msg.query == c.query {
		return nil
	}

	c.cancelInFlight()
	c.generation++
	c.query = msg.query
	c.page = 1
	c.err = nil
	c.resetItems()
	c.status = StatusIdle
	c.hasMore = true

	c.logger.Debug().
		Str("query", c.query).
		Uint64("generation", c.generation).
		Msg("Search committed")

	return c.startCycle()
}

// startCycle marks the controller loading and returns the fetch command
// for the current page and query.
func (c *Controller) startCycle() tea.Cmd {
	c.cancelInFlight()
	c.status = StatusLoading
	c.err = nil
	c.requestID++

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	var (
		id         = c.id
		generation = c.generation
		requestID  = c.requestID
		page       = c.page
		query      = c.query
		source     = c.source
		timeout    = c.opts.Timeout
	)

	c.logger.Debug().
		Int("page", page).
		Str("query", query).
		Uint64("generation", generation).
		Uint64("request", requestID).
		Msg("Fetch started")

	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = pageMsg{
					controller: id, generation: generation, requestID: requestID,
					page: page, query: query, err: fmt.Errorf("fetch panic: %v", r),
				}
			}
		}()

		fetchCtx := ctx
		if timeout > 0 {
			var done context.CancelFunc
			fetchCtx, done = context.WithTimeout(ctx, timeout)
			defer done()
		}

		games, err := source.FetchGames(fetchCtx, page, query)
		return pageMsg{
			controller: id,
			generation: generation,
			requestID:  requestID,
			page:       page,
			query:      query,
			games:      games,
			err:        err,
		}
	}
}

// applyPage merges a fetch result into the state.
func (c *Controller) applyPage(msg pageMsg) {
	if msg.generation != c.generation || msg.requestID != c.requestID {
		staleResultsTotal.Inc()
		c.logger.Debug().
			Int("page", msg.page).
			Str("query", msg.query).
			Uint64("generation", msg.generation).
			Uint64("current_generation", c.generation).
			Msg("Discarding stale result")
		return
	}

	if msg.err != nil && catalog.IsCancelled(msg.err) {
		fetchCyclesTotal.WithLabelValues(outcomeCancelled).Inc()
		c.logger.Debug().Int("page", msg.page).Msg("Fetch cancelled")
		return
	}

	// The cycle is finished; release its context.
	c.cancelInFlight()

	if msg.err != nil {
		c.status = StatusError
		c.err = msg.err
		fetchCyclesTotal.WithLabelValues(outcomeError).Inc()
		c.logger.Warn().
			Err(msg.err).
			Int("page", msg.page).
			Str("query", msg.query).
			Msg("Fetch failed")
		return
	}

	if len(msg.games) == 0 {
		c.hasMore = false
		c.status = StatusExhausted
		if msg.page == 1 {
			c.resetItems()
		}
		fetchCyclesTotal.WithLabelValues(outcomeExhausted).Inc()
		c.logger.Debug().
			Int("page", msg.page).
			Str("query", msg.query).
			Int("items", len(c.items)).
			Msg("Feed exhausted")
		return
	}

	if msg.page == 1 {
		c.resetItems()
	}
	added := 0
	for _, g := range msg.games {
		if _, dup := c.seen[g.ID]; dup {
			continue
		}
		c.seen[g.ID] = struct{}{}
		c.items = append(c.items, g)
		added++
	}

	c.status = StatusIdle
	c.hasMore = true
	fetchCyclesTotal.WithLabelValues(outcomeSuccess).Inc()
	c.logger.Debug().
		Int("page", msg.page).
		Str("query", msg.query).
		Int("received", len(msg.games)).
		Int("added", added).
		Int("items", len(c.items)).
		Msg("Page applied")
}

func (c *Controller) resetItems() {
	c.items = nil
	c.seen = make(map[int64]struct{})
}

func (c *Controller) cancelInFlight() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	items := make([]catalog.Game, len(c.items))
	copy(items, c.items)

	s := Snapshot{
		Items:        items,
		Status:       c.status,
		HasMore:      c.hasMore,
		Err:          c.err,
		Query:        c.query,
		PendingQuery: c.pendingQuery,
		Page:         c.page,
		Generation:   c.generation,
	}
	if c.status == StatusError {
		s.Message = c.opts.ErrorMessage
	}
	return s
}

// Items returns the merged, deduplicated results. The slice must not be modified.
func (c *Controller) Items() []catalog.Game { return c.items }

// Status returns the current state.
func (c *Controller) Status() Status { return c.status }

// HasMore reports whether another page may exist.
func (c *Controller) HasMore() bool { return c.hasMore }
