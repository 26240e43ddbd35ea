package catalog

import (
	"net/url"
	"strings"
)

// DefaultStores stand in when a game lists no storefronts.
var DefaultStores = []StoreEntry{
	{Store: Store{ID: 1, Name: "Steam", Slug: "steam", Domain: "steampowered.com"}},
	{Store: Store{ID: 2, Name: "Epic Games", Slug: "epic-games", Domain: "epicgames.com"}},
}

// AvailableStores returns the game's stores, or DefaultStores when it has none.
func (g Game) AvailableStores() []StoreEntry {
	if len(g.Stores) == 0 {
		return DefaultStores
	}
	return g.Stores
}

// StoreSearchURL builds a search link for gameName on the given storefront.
// Unknown stores fall back to a web search.
func StoreSearchURL(store Store, gameName string) string {
	q := url.QueryEscape(gameName)
	slug := store.Slug

	switch {
	case strings.Contains(slug, "steam"):
		return "https://store.steampowered.com/search/?term=" + q
	case strings.Contains(slug, "epic"):
		return "https://store.epicgames.com/en-US/browse?q=" + q
	case strings.Contains(slug, "playstation"):
		return "https://store.playstation.com/en-us/search/" + url.PathEscape(gameName)
	case strings.Contains(slug, "xbox"):
		return "https://www.xbox.com/en-us/search?q=" + q
	case strings.Contains(slug, "gog"):
		return "https://www.gog.com/en/games?query=" + q
	case strings.Contains(slug, "nintendo"):
		return "https://www.nintendo.com/search/#q=" + q
	default:
		return "https://www.google.com/search?q=" + url.QueryEscape(gameName+" "+store.Name+" store")
	}
}
