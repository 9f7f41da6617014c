// Package deck builds and deals the 32-card coinche deck.
package deck

import (
	"math/rand"

	"github.com/coinche-live/tablesync/internal/table"
)

var suits = []string{"coeur", "pique", "carreau", "trefle"}
var ranks = []string{"7", "8", "9", "10", "J", "Q", "K", "A"}

const imgDir = "/coinche/assets/img/"

// HandSize is the number of cards dealt to each seat.
const HandSize = 8

// Card pairs the token clients exchange ("7-trefle") with its image locator.
type Card struct {
	Name string
	Src  string
}

func Cards() []Card {
	cards := make([]Card, 0, len(suits)*len(ranks))
	for _, s := range suits {
		for _, r := range ranks {
			cards = append(cards, Card{Name: r + "-" + s, Src: imgDir + r + s + ".png"})
		}
	}
	return cards
}

func Shuffle(cards []Card) []Card {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// Deal splits a full deck into the four hands, in seat order.
func Deal(cards []Card) map[table.Seat][]Card {
	hands := make(map[table.Seat][]Card, len(table.Seats))
	for i, seat := range table.Seats {
		hands[seat] = cards[i*HandSize : (i+1)*HandSize]
	}
	return hands
}
