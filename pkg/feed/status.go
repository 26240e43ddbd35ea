package feed

import (
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

// Status is the controller state.
type Status int

const (
	// StatusIdle means no fetch is outstanding and more pages may exist.
	StatusIdle Status = iota
	// StatusLoading means exactly one fetch for the current generation is live.
	StatusLoading
	// StatusError means the last fetch failed. Only Retry leaves it.
	StatusError
	// StatusExhausted means the source has no further pages for the query.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Snapshot is the controller state handed to the presentation sink.
type Snapshot struct {
	Items   []catalog.Game
	Status  Status
	HasMore bool

	// Err is the underlying failure when Status is StatusError; Message is
	// the user-facing text for it.
	Err     error
	Message string

	// Query is the committed search; PendingQuery is the latest raw input
	// still waiting on the debounce timer.
	Query        string
	PendingQuery string

	Page       int
	Generation uint64
}

// NoResults reports whether the committed query matched nothing.
func (s Snapshot) NoResults() bool {
	return s.Status == StatusExhausted && s.Page == 1 && len(s.Items) == 0
}
