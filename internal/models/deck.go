package models

import (
	"fmt"
	"math/rand"
)

type Card struct {
	ID   int    `json:"id"`
	RVal string `json:"rVal"`
}

var deckSuits = []string{"H", "D", "C", "S"}

// GenerateDeck builds deckCount concatenated standard 52-card sets with
// sequential ids across the whole sequence, then Fisher-Yates shuffles.
func GenerateDeck(deckCount int) []Card {
	cards := make([]Card, 0, deckCount*52)

	id := 0
	for i := 0; i < deckCount; i++ {
		for _, suit := range deckSuits {
			for rank := 1; rank <= 13; rank++ {
				cards = append(cards, Card{
					ID:   id,
					RVal: fmt.Sprintf("%s%02d", suit, rank),
				})
				id++
			}
		}
	}

	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return cards
}
