// Package playstore scrapes Google Play listing, search and details pages.
// It is the data source behind the companion proxy.
package playstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

// DefaultBaseURL is the public Play Store root.
const DefaultBaseURL = "https://play.google.com"

// ErrNotFound is returned when an app does not exist.
var ErrNotFound = errors.New("app not found")

// Collection selects a listing page.
type Collection string

const (
	// CollectionTopFreeGames lists free games.
	CollectionTopFreeGames Collection = "TOP_FREE_GAMES"
	// CollectionTopPaidGames lists paid games.
	CollectionTopPaidGames Collection = "TOP_PAID_GAMES"
)

var collectionPaths = map[Collection]string{
	CollectionTopFreeGames: "/store/apps/category/GAME",
	CollectionTopPaidGames: "/store/apps/category/GAME/collection/topselling_paid",
}

// App is a Play Store app summary. JSON keys follow the google-play-scraper
// shape the front-end consumes.
type App struct {
	AppID     string  `json:"appId"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Icon      string  `json:"icon,omitempty"`
	Developer string  `json:"developer,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Score     float64 `json:"score,omitempty"`
	ScoreText string  `json:"scoreText,omitempty"`
	Free      bool    `json:"free"`
	PriceText string  `json:"priceText,omitempty"`
}

// Config holds scraper configuration.
type Config struct {
	BaseURL   string
	Language  string
	Country   string
	UserAgent string
	Timeout   time.Duration
}

// DefaultConfig returns an English/US configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Language:  "en",
		Country:   "us",
		UserAgent: "Mozilla/5.0 (compatible; kaios-proxy/1.0)",
		Timeout:   20 * time.Second,
	}
}

// Scraper fetches and parses Play Store pages.
type Scraper struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a scraper.
func New(cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	return &Scraper{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logging.NewLogger("playstore"),
	}
}

// ListOptions selects a window of a collection.
type ListOptions struct {
	Collection Collection
	Start      int
	Num        int
}

// List returns apps [Start, Start+Num) of a collection.
func (s *Scraper) List(ctx context.Context, opts ListOptions) ([]App, error) {
	if opts.Collection == "" {
		opts.Collection = CollectionTopFreeGames
	}
	path, ok := collectionPaths[opts.Collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", opts.Collection)
	}
	if opts.Start < 0 {
		opts.Start = 0
	}
	if opts.Num <= 0 {
		opts.Num = 20
	}

	doc, err := s.fetch(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", opts.Collection, err)
	}

	apps := parseTiles(doc, s.config.BaseURL)
	s.logger.Debug().
		Str("collection", string(opts.Collection)).
		Int("parsed", len(apps)).
		Int("start", opts.Start).
		Int("num", opts.Num).
		Msg("Listed collection")

	return window(apps, opts.Start, opts.Num), nil
}

// Search returns up to num apps matching term.
func (s *Scraper) Search(ctx context.Context, term string, num int) ([]App, error) {
	if term == "" {
		return []App{}, nil
	}
	if num <= 0 {
		num = 20
	}

	doc, err := s.fetch(ctx, "/store/search", url.Values{"q": []string{term}, "c": []string{"apps"}})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return window(parseTiles(doc, s.config.BaseURL), 0, num), nil
}

// App returns the details of a single app.
func (s *Scraper) App(ctx context.Context, appID string) (*App, error) {
	if appID == "" {
		return nil, fmt.Errorf("app id is required")
	}

	doc, err := s.fetch(ctx, "/store/apps/details", url.Values{"id": []string{appID}})
	if err != nil {
		return nil, fmt.Errorf("app %s: %w", appID, err)
	}

	app := parseDetails(doc)
	app.AppID = appID
	if app.URL == "" {
		app.URL = detailsURL(s.config.BaseURL, appID)
	}
	if app.Title == "" {
		return nil, fmt.Errorf("app %s: details page has no title", appID)
	}
	return app, nil
}

func (s *Scraper) fetch(ctx context.Context, path string, params url.Values) (*html.Node, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("hl", s.config.Language)
	params.Set("gl", s.config.Country)
	target := s.config.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}
	req.Header.Set("Accept-Language", s.config.Language)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	s.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Fetched page")

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func window(apps []App, start, num int) []App {
	if start >= len(apps) {
		return []App{}
	}
	end := start + num
	if end > len(apps) {
		end = len(apps)
	}
	return apps[start:end]
}

func detailsURL(base, appID string) string {
	return base + "/store/apps/details?id=" + url.QueryEscape(appID)
}
