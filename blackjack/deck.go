package blackjack

import (
	"math/rand"

	"github.com/pkg/errors"
)

// ErrDeckExhausted is returned by Deal when no cards remain. A normal hand
// never comes close to drawing all 52 cards, so seeing it means the caller
// reused a finished game.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of cards dealt from the top. It belongs to a
// single Game and is never reshuffled mid-hand.
type Deck struct {
	cards []Card
}

// NewDeck builds the standard 52-card deck, permuted by rng.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for s := Hearts; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}

	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{cards: cards}
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}
