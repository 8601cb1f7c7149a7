// Package blackjack implements a single-deck game of Blackjack between one
// player and a dealer: a shuffled 52-card deck, ace-adjusted hand values, and
// the standard dealer-stands-on-17 rule.
package blackjack

// Suit is one of the four card suits. It never affects a hand's value.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitStr = [...]string{
	"♥",
	"♦",
	"♣",
	"♠",
}

func (s Suit) String() string {
	return suitStr[s]
}

// Rank is a card rank from Two through Ace.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankStr = [...]string{
	"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A",
}

func (r Rank) String() string {
	return rankStr[r]
}

// Value returns the rank's numeric contribution to a hand: face cards count
// 10 and an ace counts 11. Softening an ace down to 1 is Hand's concern.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Jack:
		return 10
	default:
		return int(r) + 2
	}
}

// Card is one of the 52 distinct rank/suit pairs.
type Card struct {
	Rank Rank
	Suit Suit
}

// String implements fmt.Stringer, e.g. "A♥".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}
