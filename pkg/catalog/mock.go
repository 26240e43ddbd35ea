package catalog

import (
	"context"
	"fmt"
)

// MockPageSize is the number of games MockGames produces per page.
const MockPageSize = 12

// MockGames returns a deterministic page of placeholder games. Pages below
// 1 are treated as page 1.
func MockGames(page int) []Game {
	if page < 1 {
		page = 1
	}
	games := make([]Game, 0, MockPageSize)
	for i := 0; i < MockPageSize; i++ {
		id := int64((page-1)*MockPageSize + i)
		games = append(games, Game{
			ID:              id,
			Name:            fmt.Sprintf("CYBER PROTOCOL %d", id+1),
			BackgroundImage: fmt.Sprintf("https://picsum.photos/seed/game%d/800/450", id),
			Rating:          4.5,
			Metacritic:      85 + int(id%10),
			Released:        "2077-11-10",
			Genres:          []Genre{{Name: "Action"}, {Name: "RPG"}},
			ParentPlatforms: []PlatformEntry{{Platform: Platform{Name: "PC", Slug: "pc"}}},
			Stores: []StoreEntry{
				{Store: Store{ID: 1, Name: "Steam", Slug: "steam", Domain: "store.steampowered.com"}},
				{Store: Store{ID: 2, Name: "Epic Games", Slug: "epic-games", Domain: "epicgames.com"}},
			},
		})
	}
	return games
}

// MockCards returns the first n mock games as hero cards.
func MockCards(n int) []Card {
	games := MockGames(1)
	if n < len(games) {
		games = games[:n]
	}
	return CardsFromGames(games)
}

// MockSource serves MockGames for pages 1..pages and nothing after. It
// backs offline browsing; search text is ignored.
func MockSource(pages int) Source {
	return SourceFunc(func(ctx context.Context, page int, query string) ([]Game, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		if page < 1 || page > pages {
			return []Game{}, nil
		}
		return MockGames(page), nil
	})
}
