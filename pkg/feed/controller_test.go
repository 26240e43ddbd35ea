package feed

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		StatusIdle:      "idle",
		StatusLoading:   "loading",
		StatusError:     "error",
		StatusExhausted: "exhausted",
		Status(42):      "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestController_InitialState(t *testing.T) {
	c := newTestController(newStubSource(), Options{})

	snap := c.Snapshot()
	if snap.Status != StatusIdle || !snap.HasMore || len(snap.Items) != 0 || snap.Page != 1 {
		t.Errorf("initial snapshot = %+v", snap)
	}
	if cmd := c.LoadMore(); cmd != nil {
		t.Error("LoadMore() before Init should do nothing")
	}
}

func TestController_Defaults(t *testing.T) {
	c := New(newStubSource(), Options{})
	if c.opts.Debounce != 600*time.Millisecond {
		t.Errorf("Debounce = %v, want 600ms", c.opts.Debounce)
	}
	if c.opts.ErrorMessage != "Connection lost." {
		t.Errorf("ErrorMessage = %q", c.opts.ErrorMessage)
	}
	if c.opts.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", c.opts.Timeout)
	}
}

func TestController_FirstPageThenExhausted(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	c := newTestController(src, Options{})

	cmd := c.Init()
	if c.Status() != StatusLoading {
		t.Fatalf("Status after Init = %v, want loading", c.Status())
	}
	step(c, cmd)

	snap := c.Snapshot()
	if snap.Status != StatusIdle || !snap.HasMore || len(snap.Items) != 20 {
		t.Fatalf("after page 1: status=%v hasMore=%v items=%d", snap.Status, snap.HasMore, len(snap.Items))
	}

	step(c, c.LoadMore())

	snap = c.Snapshot()
	if snap.Status != StatusExhausted || snap.HasMore || len(snap.Items) != 20 {
		t.Errorf("after empty page 2: status=%v hasMore=%v items=%d", snap.Status, snap.HasMore, len(snap.Items))
	}
	if snap.NoResults() {
		t.Error("NoResults() = true on page 2 exhaustion")
	}
	if cmd := c.LoadMore(); cmd != nil {
		t.Error("LoadMore() after exhaustion should do nothing")
	}
	if diff := cmp.Diff([]string{`""/1`, `""/2`}, src.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestController_DisjointPagesAccumulateInOrder(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20), gamesRange(40, 7)}
	c := newTestController(src, Options{})

	step(c, c.Init())
	step(c, c.LoadMore())
	step(c, c.LoadMore())

	if diff := cmp.Diff(seqIDs(0, 47), gameIDs(c.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if c.Status() != StatusIdle {
		t.Errorf("Status = %v, want idle", c.Status())
	}
}

func TestController_RandomDisjointPages(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		src := newStubSource()
		next, want := 0, []int64{}
		pageCount := 1 + rng.Intn(6)
		for p := 0; p < pageCount; p++ {
			n := 1 + rng.Intn(20)
			src.pages[""] = append(src.pages[""], gamesRange(next, n))
			want = append(want, seqIDs(next, n)...)
			next += n
		}

		c := newTestController(src, Options{})
		c.Drain(c.Init())
		for c.HasMore() {
			c.Drain(c.LoadMore())
		}

		if diff := cmp.Diff(want, gameIDs(c.Items())); diff != "" {
			t.Fatalf("round %d: items mismatch (-want +got):\n%s", round, diff)
		}
		if c.Status() != StatusExhausted {
			t.Fatalf("round %d: Status = %v, want exhausted", round, c.Status())
		}
	}
}

func TestController_DuplicatesAcrossPages(t *testing.T) {
	src := newStubSource()
	page2 := append(gamesRange(15, 5), gamesRange(20, 3)...)
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), page2}
	c := newTestController(src, Options{})

	step(c, c.Init())
	step(c, c.LoadMore())

	if diff := cmp.Diff(seqIDs(0, 23), gameIDs(c.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestController_DuplicatesWithinFirstPage(t *testing.T) {
	src := newStubSource()
	first := []catalog.Game{{ID: 1, Name: "first"}, {ID: 2}, {ID: 1, Name: "second"}}
	src.pages[""] = [][]catalog.Game{first}
	c := newTestController(src, Options{})

	step(c, c.Init())

	items := c.Items()
	if diff := cmp.Diff([]int64{1, 2}, gameIDs(items)); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if items[0].Name != "first" {
		t.Errorf("items[0].Name = %q, want first occurrence", items[0].Name)
	}
}

func TestController_LoadMoreWhileLoading(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20)}
	c := newTestController(src, Options{})

	step(c, c.Init())

	cmd := c.LoadMore()
	if cmd == nil {
		t.Fatal("first LoadMore() returned nil")
	}
	if again := c.LoadMore(); again != nil {
		t.Error("second LoadMore() while loading should do nothing")
	}
	if c.Snapshot().Page != 2 {
		t.Errorf("Page = %d, want 2", c.Snapshot().Page)
	}

	step(c, cmd)
	if len(src.calls) != 2 {
		t.Errorf("calls = %v, want one fetch per page", src.calls)
	}
	if len(c.Items()) != 40 {
		t.Errorf("len(items) = %d, want 40", len(c.Items()))
	}
}

func TestController_QueryChangeDiscardsStaleResponse(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20)}
	src.pages["zelda"] = [][]catalog.Game{gamesRange(100, 3)}
	c := newTestController(src, Options{})

	step(c, c.Init())
	slowPage2 := c.LoadMore()

	// The user types while page 2 of "" is still in flight.
	commit := c.SetSearchQuery("zelda")
	zeldaFetch := step(c, commit)
	if zeldaFetch == nil {
		t.Fatal("committing a new query should start a fetch")
	}
	snap := c.Snapshot()
	if snap.Page != 1 || len(snap.Items) != 0 || snap.Query != "zelda" || snap.Status != StatusLoading {
		t.Fatalf("after commit: %+v", snap)
	}

	// The stale response for "" page 2 arrives late and is ignored.
	step(c, slowPage2)
	snap = c.Snapshot()
	if len(snap.Items) != 0 || snap.Status != StatusLoading {
		t.Fatalf("stale response applied: status=%v items=%v", snap.Status, gameIDs(snap.Items))
	}

	step(c, zeldaFetch)
	if diff := cmp.Diff(seqIDs(100, 3), gameIDs(c.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if c.Snapshot().Generation != 1 {
		t.Errorf("Generation = %d, want 1", c.Snapshot().Generation)
	}
}

func TestController_QueryChangeCancelsInFlight(t *testing.T) {
	src := newStubSource()
	src.honourCtx = true
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20)}
	c := newTestController(src, Options{})

	step(c, c.Init())
	slowPage2 := c.LoadMore()
	next := step(c, c.SetSearchQuery("mario"))

	// The abandoned request sees a cancelled context.
	step(c, slowPage2)
	if src.ctxs[1].Err() == nil {
		t.Error("page 2 context not cancelled by the query change")
	}
	if c.Status() != StatusLoading {
		t.Errorf("Status = %v, cancellation must not change status", c.Status())
	}

	step(c, next)
	if !c.Snapshot().NoResults() {
		t.Errorf("snapshot = %+v, want no results for mario", c.Snapshot())
	}
}

func TestController_DebounceCommitsOnce(t *testing.T) {
	src := newStubSource()
	src.pages["zelda"] = [][]catalog.Game{gamesRange(0, 2)}
	c := newTestController(src, Options{})

	var ticks []tea.Cmd
	for _, q := range []string{"z", "ze", "zel", "zeld", "zelda"} {
		ticks = append(ticks, c.SetSearchQuery(q))
	}
	if c.Snapshot().PendingQuery != "zelda" {
		t.Errorf("PendingQuery = %q", c.Snapshot().PendingQuery)
	}

	var fetches []tea.Cmd
	for _, tick := range ticks {
		if cmd := step(c, tick); cmd != nil {
			fetches = append(fetches, cmd)
		}
	}

	if len(fetches) != 1 {
		t.Fatalf("fetch cycles = %d, want 1", len(fetches))
	}
	step(c, fetches[0])

	if diff := cmp.Diff([]string{`"zelda"/1`}, src.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if c.Snapshot().Query != "zelda" {
		t.Errorf("Query = %q, want zelda", c.Snapshot().Query)
	}
}

func TestController_DebounceRealTimer(t *testing.T) {
	src := newStubSource()
	src.pages["halo"] = [][]catalog.Game{gamesRange(0, 1)}
	c := newTestController(src, Options{Debounce: 30 * time.Millisecond, Tick: tea.Tick})

	start := time.Now()
	first := c.SetSearchQuery("ha")
	second := c.SetSearchQuery("halo")

	if cmd := step(c, first); cmd != nil {
		t.Error("superseded debounce timer committed")
	}
	c.Drain(second)

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("debounce fired after %v, want >= 30ms", elapsed)
	}
	if diff := cmp.Diff([]string{`"halo"/1`}, src.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SameQueryIsNoop(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	c := newTestController(src, Options{})

	step(c, c.Init())
	// Type and erase within the debounce window.
	c.SetSearchQuery("x")
	if cmd := step(c, c.SetSearchQuery("")); cmd != nil {
		t.Error("committing the current query should not refetch")
	}
	if len(c.Items()) != 20 || c.Snapshot().Generation != 0 {
		t.Errorf("state changed: items=%d generation=%d", len(c.Items()), c.Snapshot().Generation)
	}
}

func TestController_ErrorThenRetry(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	src.errs[1] = errors.New("dial tcp: connection refused")
	c := newTestController(src, Options{})

	step(c, c.Init())

	snap := c.Snapshot()
	if snap.Status != StatusError || len(snap.Items) != 0 {
		t.Fatalf("after failure: status=%v items=%d", snap.Status, len(snap.Items))
	}
	if snap.Message != "Connection lost." || snap.Err == nil {
		t.Errorf("Message = %q, Err = %v", snap.Message, snap.Err)
	}
	if cmd := c.LoadMore(); cmd != nil {
		t.Error("LoadMore() in error state should do nothing")
	}

	step(c, c.Retry())

	snap = c.Snapshot()
	if snap.Status != StatusIdle || len(snap.Items) != 20 || snap.Err != nil || snap.Message != "" {
		t.Errorf("after retry: %+v", snap)
	}
}

func TestController_ErrorOnLaterPageKeepsItems(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20)}
	src.errs[2] = errors.New("503")
	c := newTestController(src, Options{ErrorMessage: "Falha na conexão."})

	step(c, c.Init())
	step(c, c.LoadMore())

	snap := c.Snapshot()
	if snap.Status != StatusError || len(snap.Items) != 20 {
		t.Fatalf("status=%v items=%d", snap.Status, len(snap.Items))
	}
	if snap.Message != "Falha na conexão." {
		t.Errorf("Message = %q", snap.Message)
	}

	// Retry restarts at page 1 of the same query.
	step(c, c.Retry())
	if c.Snapshot().Page != 1 || c.Snapshot().Query != "" {
		t.Errorf("after retry: page=%d query=%q", c.Snapshot().Page, c.Snapshot().Query)
	}
	if diff := cmp.Diff(seqIDs(0, 20), gameIDs(c.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestController_RetryAbandonsInFlight(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	c := newTestController(src, Options{})

	first := c.Init()
	retry := c.Retry()

	step(c, first)
	if c.Status() != StatusLoading || len(c.Items()) != 0 {
		t.Errorf("abandoned fetch applied: status=%v items=%d", c.Status(), len(c.Items()))
	}
	if src.ctxs[0].Err() == nil {
		t.Error("abandoned fetch context not cancelled")
	}

	step(c, retry)
	if c.Status() != StatusIdle || len(c.Items()) != 20 {
		t.Errorf("status=%v items=%d", c.Status(), len(c.Items()))
	}
}

func TestController_CancellationIsNotAnError(t *testing.T) {
	src := catalog.SourceFunc(func(ctx context.Context, page int, query string) ([]catalog.Game, error) {
		return nil, context.Canceled
	})
	c := newTestController(src, Options{})

	step(c, c.Init())

	if c.Status() != StatusLoading {
		t.Errorf("Status = %v, cancellation must not change status", c.Status())
	}
	if c.Snapshot().Err != nil {
		t.Errorf("Err = %v, want nil", c.Snapshot().Err)
	}
}

func TestController_EmptySearch(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	c := newTestController(src, Options{})

	step(c, c.Init())
	step(c, step(c, c.SetSearchQuery("no such game")))

	snap := c.Snapshot()
	if !snap.NoResults() || snap.HasMore {
		t.Errorf("snapshot = %+v, want no results", snap)
	}
}

func TestController_TimeoutIsFailure(t *testing.T) {
	src := catalog.SourceFunc(func(ctx context.Context, page int, query string) ([]catalog.Game, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := newTestController(src, Options{Timeout: 10 * time.Millisecond})

	step(c, c.Init())

	snap := c.Snapshot()
	if snap.Status != StatusError {
		t.Fatalf("Status = %v, want error", snap.Status)
	}
	if !errors.Is(snap.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want DeadlineExceeded", snap.Err)
	}
}

func TestController_CloseDropsLateResults(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20)}
	c := newTestController(src, Options{})

	pending := c.Init()
	c.Close()

	step(c, pending)
	if len(c.Items()) != 0 {
		t.Errorf("result applied after Close: %d items", len(c.Items()))
	}
	if src.ctxs[0].Err() == nil {
		t.Error("Close did not cancel the outstanding fetch")
	}
	if c.SetSearchQuery("x") != nil || c.LoadMore() != nil || c.Retry() != nil || c.Init() != nil {
		t.Error("closed controller accepted input")
	}
}

func TestController_IgnoresOtherControllersMessages(t *testing.T) {
	srcA := newStubSource()
	srcA.pages[""] = [][]catalog.Game{gamesRange(0, 5)}
	srcB := newStubSource()
	srcB.pages[""] = [][]catalog.Game{gamesRange(50, 5)}

	a := newTestController(srcA, Options{})
	b := newTestController(srcB, Options{})

	cmdA := a.Init()
	b.Init()

	msg := cmdA()
	if cmd := b.Update(msg); cmd != nil {
		t.Error("b reacted to a's message")
	}
	if len(b.Items()) != 0 {
		t.Errorf("b applied a's result: %v", gameIDs(b.Items()))
	}
	a.Update(msg)
	if len(a.Items()) != 5 {
		t.Errorf("len(a.Items()) = %d, want 5", len(a.Items()))
	}
}

func TestController_PanicBecomesError(t *testing.T) {
	src := catalog.SourceFunc(func(ctx context.Context, page int, query string) ([]catalog.Game, error) {
		panic("boom")
	})
	c := newTestController(src, Options{})

	step(c, c.Init())
	if c.Status() != StatusError {
		t.Errorf("Status = %v, want error", c.Status())
	}
}

func TestController_DrivenByMessages(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 20), gamesRange(20, 20)}
	src.pages["q"] = [][]catalog.Game{gamesRange(200, 1)}
	c := newTestController(src, Options{})

	c.Drain(c.Init())
	c.Drain(c.Update(LoadMoreMsg{}))
	if len(c.Items()) != 40 {
		t.Fatalf("len(items) = %d, want 40", len(c.Items()))
	}

	c.Drain(c.Update(SearchMsg{Query: "q"}))
	if diff := cmp.Diff([]int64{200}, gameIDs(c.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	c.Drain(c.Update(RetryMsg{}))
	if c.Snapshot().Query != "q" || len(c.Items()) != 1 {
		t.Errorf("after RetryMsg: %+v", c.Snapshot())
	}

	if cmd := c.Update("unrelated"); cmd != nil {
		t.Error("unrelated message produced a command")
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	src := newStubSource()
	src.pages[""] = [][]catalog.Game{gamesRange(0, 3)}
	c := newTestController(src, Options{})
	c.Drain(c.Init())

	snap := c.Snapshot()
	snap.Items[0].Name = "mutated"
	if c.Items()[0].Name == "mutated" {
		t.Error("Snapshot shares its item slice with the controller")
	}
}
