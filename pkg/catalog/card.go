package catalog

import "fmt"

// CardType classifies a hero card.
type CardType string

const (
	CardGame    CardType = "game"
	CardClaim   CardType = "claim"
	CardNFT     CardType = "nft"
	CardStaking CardType = "staking"
	CardQuest   CardType = "quest"
	CardAI      CardType = "ai"
)

// PlaceholderHeroImage is used when a featured game has no artwork.
const PlaceholderHeroImage = "https://via.placeholder.com/1200x800"

// Card is a hero carousel entry.
type Card struct {
	ID          int64    `json:"id"`
	Type        CardType `json:"type"`
	Label       string   `json:"label"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	ButtonText  string   `json:"button_text"`
	ImageURL    string   `json:"image_url"`
	VideoURL    string   `json:"video_url,omitempty"`
}

// CardFromGame builds the trending hero card for a featured game.
func CardFromGame(g Game) Card {
	subtitle := "2024"
	if g.Released != "" {
		subtitle = g.Year()
	}
	image := g.BackgroundImage
	if image == "" {
		image = PlaceholderHeroImage
	}
	return Card{
		ID:       g.ID,
		Type:     CardGame,
		Label:    "TRENDING",
		Title:    g.Name,
		Subtitle: subtitle,
		Description: fmt.Sprintf("Experience %s, a top-rated title now available on the K-AI network. "+
			"immerse yourself in high-fidelity gameplay streamed directly to your interface.", g.Name),
		ButtonText: "PLAY NOW",
		ImageURL:   image,
	}
}

// CardsFromGames maps games to hero cards, preserving order.
func CardsFromGames(games []Game) []Card {
	cards := make([]Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, CardFromGame(g))
	}
	return cards
}
