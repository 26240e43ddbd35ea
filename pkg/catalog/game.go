// Package catalog defines the game catalog domain: RAWG game records, hero
// cards, the deterministic mock generator and the data source contracts
// shared by the fetch controller and its collaborators.
package catalog

import (
	"context"
	"errors"
	"strings"
)

// PageSize is the number of games requested per catalog page.
const PageSize = 20

// ErrCancelled is returned by data sources when a fetch was abandoned
// because its caller no longer wants the result (superseded or torn down).
// It is never a user-facing failure.
var ErrCancelled = errors.New("fetch cancelled")

// IsCancelled reports whether err represents an abandoned fetch rather than
// a genuine failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Genre is a RAWG genre reference.
type Genre struct {
	Name string `json:"name"`
}

// Platform is a RAWG parent platform.
type Platform struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PlatformEntry wraps a platform the way RAWG nests it.
type PlatformEntry struct {
	Platform Platform `json:"platform"`
}

// Store is a storefront selling a game.
type Store struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Domain string `json:"domain"`
}

// StoreEntry wraps a store the way RAWG nests it.
type StoreEntry struct {
	Store Store `json:"store"`
}

// Game is a single catalog record. ID is stable across pages and is the
// deduplication key.
type Game struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	BackgroundImage string          `json:"background_image"`
	Rating          float64         `json:"rating"`
	Metacritic      int             `json:"metacritic"`
	Released        string          `json:"released"`
	Genres          []Genre         `json:"genres"`
	ParentPlatforms []PlatformEntry `json:"parent_platforms"`
	Stores          []StoreEntry    `json:"stores"`

	// Detail fields, only present on /games/{id} responses.
	DescriptionRaw string `json:"description_raw,omitempty"`
	Website        string `json:"website,omitempty"`
}

// Year returns the release year or "TBA" when the release date is unknown.
func (g Game) Year() string {
	if g.Released == "" {
		return "TBA"
	}
	year, _, _ := strings.Cut(g.Released, "-")
	return year
}

// PrimaryGenre returns the first genre name, defaulting to "RPG".
func (g Game) PrimaryGenre() string {
	if len(g.Genres) == 0 || g.Genres[0].Name == "" {
		return "RPG"
	}
	return g.Genres[0].Name
}

// PlatformSlugs returns up to n platform slugs.
func (g Game) PlatformSlugs(n int) []string {
	slugs := make([]string, 0, n)
	for _, p := range g.ParentPlatforms {
		if len(slugs) == n {
			break
		}
		slugs = append(slugs, p.Platform.Slug)
	}
	return slugs
}

// StoreLinks returns an https link per store domain, in store order.
func (g Game) StoreLinks() []string {
	links := make([]string, 0, len(g.Stores))
	for _, s := range g.Stores {
		if s.Store.Domain == "" {
			continue
		}
		links = append(links, "https://"+s.Store.Domain)
	}
	return links
}

// Source is a paginated, searchable catalog. Implementations must honour
// ctx cancellation and report it with an error satisfying IsCancelled.
type Source interface {
	FetchGames(ctx context.Context, page int, query string) ([]Game, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, page int, query string) ([]Game, error)

// FetchGames implements Source.
func (f SourceFunc) FetchGames(ctx context.Context, page int, query string) ([]Game, error) {
	return f(ctx, page, query)
}
