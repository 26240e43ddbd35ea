package feed

import "github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"

// SearchMsg asks the controller to buffer a raw search string.
type SearchMsg struct {
	Query string
}

// LoadMoreMsg asks the controller for the next page.
type LoadMoreMsg struct{}

// RetryMsg asks the controller to restart at page 1 after a failure.
type RetryMsg struct{}

// debounceMsg fires when the debounce timer for a buffered query expires.
type debounceMsg struct {
	controller uint64
	debounceID uint64
	query      string
}

// pageMsg carries the result of one fetch cycle.
type pageMsg struct {
	controller uint64
	generation uint64
	requestID  uint64
	page       int
	query      string
	games      []catalog.Game
	err        error
}
