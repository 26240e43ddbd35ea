// Package testutil provides testing utilities for the KIRA-AI-Store packages.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

// MockResponse defines a canned response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockRAWG is a configurable mock RAWG server. By default it serves
// /games from an in-memory catalog with RAWG's pagination and search
// semantics and /games/{id} from the same catalog.
type MockRAWG struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	games    []catalog.Game

	requestCount      int
	conditionalCount  int
	lastRequestHeader http.Header
	lastQuery         map[string]string
}

// NewMockRAWG starts a mock server holding total games named "Game <id>".
func NewMockRAWG(total int) *MockRAWG {
	games := make([]catalog.Game, total)
	for i := range games {
		games[i] = catalog.Game{
			ID:         int64(i + 1),
			Name:       "Game " + strconv.Itoa(i+1),
			Rating:     4,
			Metacritic: 80,
			Released:   "2023-06-01",
			Genres:     []catalog.Genre{{Name: "Action"}},
		}
	}

	m := &MockRAWG{
		handlers: make(map[string]http.HandlerFunc),
		games:    games,
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requestCount++
		m.lastRequestHeader = r.Header.Clone()
		m.lastQuery = map[string]string{}
		for k := range r.URL.Query() {
			m.lastQuery[k] = r.URL.Query().Get(k)
		}
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			m.conditionalCount++
		}
		handler, exists := m.handlers[r.URL.Path]
		m.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}
		m.defaultHandler(w, r)
	}))

	return m
}

// URL returns the mock server URL, usable as a client BaseURL.
func (m *MockRAWG) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRAWG) Close() {
	m.server.Close()
}

// SetGames replaces the catalog served by the default handler.
func (m *MockRAWG) SetGames(games []catalog.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = games
}

// SetHandler sets a custom handler for a specific path.
func (m *MockRAWG) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockRAWG) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the number of requests made to the server.
func (m *MockRAWG) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// ConditionalCount returns the number of conditional requests.
func (m *MockRAWG) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockRAWG) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader
}

// LastQuery returns the query parameter of the most recent request.
func (m *MockRAWG) LastQuery(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[name]
}

func (m *MockRAWG) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-RateLimit-Remaining", "100")
	w.Header().Set("X-RateLimit-Reset", "60")

	if r.URL.Query().Get("key") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "The key parameter is not provided"})
		return
	}

	switch {
	case r.URL.Path == "/games":
		m.listGames(w, r)
	case strings.HasPrefix(r.URL.Path, "/games/"):
		m.gameDetails(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (m *MockRAWG) listGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || size < 1 {
		size = 20
	}

	m.mu.RLock()
	var matched []catalog.Game
	search := strings.ToLower(q.Get("search"))
	for _, g := range m.games {
		if search == "" || strings.Contains(strings.ToLower(g.Name), search) {
			matched = append(matched, g)
		}
	}
	m.mu.RUnlock()

	start := (page - 1) * size
	if start >= len(matched) && page > 1 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Invalid page."})
		return
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	results := []catalog.Game{}
	if start < end {
		results = matched[start:end]
	}

	w.Header().Set("ETag", `"games-`+strconv.Itoa(page)+`"`)
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(matched),
		"results": results,
	})
}

func (m *MockRAWG) gameDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/games/"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.games {
		if g.ID == id {
			g.DescriptionRaw = "Description of " + g.Name
			g.Website = "https://example.test/" + strconv.FormatInt(id, 10)
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewHealthyResponse creates a 200 OK response with quota and cache headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "100",
			"X-RateLimit-Reset":     "60",
			"ETag":                  `"test-etag-123"`,
			"Expires":               time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "5",
			"X-RateLimit-Reset":     "30",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewConditionalHandler answers 304 when If-None-Match equals etag.
func NewConditionalHandler(etag, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
