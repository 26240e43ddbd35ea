package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

// Featured (hero) query parameters.
const (
	FeaturedDates    = "2023-01-01,2024-12-31"
	FeaturedOrdering = "-added"
	FeaturedCount    = 5
)

// gamesPage is the RAWG list envelope.
type gamesPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []catalog.Game `json:"results"`
}

// ListGames fetches one catalog page. A non-empty query adds a search term.
// Pages past the end of the catalog return an empty slice.
func (c *Client) ListGames(ctx context.Context, page int, query string) ([]catalog.Game, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1 (got %d)", page)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(c.config.PageSize))
	params.Set("ordering", c.config.Ordering)
	params.Set("dates", c.config.Dates)
	if query != "" {
		params.Set("search", query)
	}

	var out gamesPage
	err := c.getJSON(ctx, "/games", params, &out)
	if err != nil {
		// RAWG answers 404 "Invalid page." past the last page.
		var apiErr *APIError
		if page > 1 && errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return []catalog.Game{}, nil
		}
		return nil, err
	}
	if out.Results == nil {
		out.Results = []catalog.Game{}
	}

	c.logger.Debug().
		Int("page", page).
		Str("query", query).
		Int("results", len(out.Results)).
		Int("count", out.Count).
		Msg("Listed games")

	return out.Results, nil
}

// FetchGames implements catalog.Source.
func (c *Client) FetchGames(ctx context.Context, page int, query string) ([]catalog.Game, error) {
	return c.ListGames(ctx, page, query)
}

// FeaturedGames fetches the hero carousel cards. Errors are returned as is;
// callers decide whether to fall back.
func (c *Client) FeaturedGames(ctx context.Context) ([]catalog.Card, error) {
	params := url.Values{}
	params.Set("dates", FeaturedDates)
	params.Set("ordering", FeaturedOrdering)
	params.Set("page_size", strconv.Itoa(FeaturedCount))

	var out gamesPage
	if err := c.getJSON(ctx, "/games", params, &out); err != nil {
		return nil, fmt.Errorf("featured games: %w", err)
	}
	return catalog.CardsFromGames(out.Results), nil
}

// GameDetails fetches a single game with its description and website.
func (c *Client) GameDetails(ctx context.Context, id int64) (*catalog.Game, error) {
	var game catalog.Game
	if err := c.getJSON(ctx, "/games/"+strconv.FormatInt(id, 10), url.Values{}, &game); err != nil {
		return nil, fmt.Errorf("game %d: %w", id, err)
	}
	return &game, nil
}

type revalidateKey struct{}

// WithRevalidate marks ctx so requests made with it skip fresh cache
// entries and revalidate against the API.
func WithRevalidate(ctx context.Context) context.Context {
	return context.WithValue(ctx, revalidateKey{}, true)
}

func revalidate(ctx context.Context) bool {
	v, _ := ctx.Value(revalidateKey{}).(bool)
	return v
}

// getJSON performs a GET against the API and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.config.APIKey)
	target := c.config.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if revalidate(ctx) {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := resp.Status
		if detail := parseDetail(body); detail != "" {
			msg = detail
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    msg,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return contextError(ctx)
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// parseDetail extracts RAWG's {"detail": "..."} error message.
func parseDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}
