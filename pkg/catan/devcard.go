package catan

import "math/rand"

// DevCardType enumerates the development card kinds.
type DevCardType string

const (
	Knight        DevCardType = "knight"
	VictoryPoint  DevCardType = "victory_point"
	RoadBuilding  DevCardType = "road_building"
	YearOfPlenty  DevCardType = "year_of_plenty"
	Monopoly      DevCardType = "monopoly"
)

// DevCard is one card in a player's hand or the draw deck.
type DevCard struct {
	Type    DevCardType
	CanPlay bool
}

// NewDevCardDeck builds the fixed 25-card deck (14 knight, 5 VP, 2
// road-building, 2 year-of-plenty, 2 monopoly) and shuffles it.
func NewDevCardDeck(rng *rand.Rand) []DevCard {
	deck := make([]DevCard, 0, 25)
	add := func(t DevCardType, n int) {
		for i := 0; i < n; i++ {
			deck = append(deck, DevCard{Type: t})
		}
	}
	add(Knight, 14)
	add(VictoryPoint, 5)
	add(RoadBuilding, 2)
	add(YearOfPlenty, 2)
	add(Monopoly, 2)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
