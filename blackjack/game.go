package blackjack

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidAction is returned when an action outside {Hit, Stay} is passed
// to PlayerAction. It signals a caller bug, not a recoverable condition.
var ErrInvalidAction = errors.New("invalid action")

// Action is a player decision.
type Action int

const (
	Hit Action = iota
	Stay
)

var actionStr = [...]string{
	"hit",
	"stay",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionStr) {
		return "unknown"
	}
	return actionStr[a]
}

// Status classifies the player's hand after an action.
type Status int

const (
	StatusContinue Status = iota
	StatusPlayerBust
	StatusPlayerBlackjack
)

// Result is the final outcome of a game from the player's perspective.
type Result int

const (
	Win Result = iota
	Loss
	Draw
)

var resultStr = [...]string{
	"win",
	"loss",
	"draw",
}

func (r Result) String() string {
	return resultStr[r]
}

// Hand is an ordered sequence of cards belonging to one party.
type Hand []Card

// Value computes the hand's total with deferred ace softening: aces count 11
// until the total exceeds 21, then are recounted as 1 one at a time. The
// result depends only on the multiset of cards, not their order.
func (h Hand) Value() int {
	value, aces := h.rawValue()
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// HasUsableAce reports whether an ace in the hand is currently counted as 11.
func (h Hand) HasUsableAce() bool {
	value, aces := h.rawValue()
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return aces > 0
}

func (h Hand) rawValue() (value, aces int) {
	for _, c := range h {
		value += c.Rank.Value()
		if c.Rank == Ace {
			aces++
		}
	}
	return value, aces
}

// String implements fmt.Stringer, e.g. "A♥ K♠".
func (h Hand) String() string {
	cards := make([]string, len(h))
	for i, c := range h {
		cards[i] = c.String()
	}
	return strings.Join(cards, " ")
}

// Game is a single hand of Blackjack with a private deck. It is a pure
// stochastic simulator; all learning logic lives above it.
type Game struct {
	deck *Deck

	Player Hand
	Dealer Hand
}

// NewGame creates a game with a freshly shuffled deck and empty hands.
// All randomness is drawn from rng, so fixing its seed fixes the game.
func NewGame(rng *rand.Rand) *Game {
	return &Game{deck: NewDeck(rng)}
}

// Start deals two cards to the player and two to the dealer. Guarding
// against starting an already-dealt game is the caller's responsibility.
func (g *Game) Start() error {
	for i := 0; i < 2; i++ {
		if err := g.deal(&g.Player); err != nil {
			return err
		}
		if err := g.deal(&g.Dealer); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) deal(h *Hand) error {
	card, err := g.deck.Deal()
	if err != nil {
		return err
	}
	*h = append(*h, card)
	return nil
}

// UpCard returns the dealer's visible card.
func (g *Game) UpCard() Card {
	return g.Dealer[0]
}

// Status classifies the player's hand: bust above 21, blackjack at exactly
// 21, otherwise the game continues. Both bust and blackjack are terminal.
func (g *Game) Status() Status {
	switch value := g.Player.Value(); {
	case value > 21:
		return StatusPlayerBust
	case value == 21:
		return StatusPlayerBlackjack
	default:
		return StatusContinue
	}
}

// PlayerAction applies one player decision and returns the resulting status.
// Stay performs no mutation and returns StatusContinue; the caller treats it
// as a terminal decision and proceeds to Result.
func (g *Game) PlayerAction(a Action) (Status, error) {
	switch a {
	case Hit:
		if err := g.deal(&g.Player); err != nil {
			return StatusContinue, err
		}
	case Stay:
	default:
		return StatusContinue, errors.Wrapf(ErrInvalidAction, "action %d", int(a))
	}
	return g.Status(), nil
}

// DealerAction draws for the dealer until their hand reaches 17 or busts.
func (g *Game) DealerAction() error {
	for g.Dealer.Value() < 17 {
		if err := g.deal(&g.Dealer); err != nil {
			return err
		}
	}
	return nil
}

// Result finishes the dealer's hand and scores the game. It advances the
// dealer every time it runs, so call it exactly once per game.
func (g *Game) Result() (Result, error) {
	if err := g.DealerAction(); err != nil {
		return Loss, err
	}

	playerValue := g.Player.Value()
	dealerValue := g.Dealer.Value()
	switch {
	case playerValue > 21:
		return Loss, nil
	case dealerValue > 21 || playerValue > dealerValue:
		return Win, nil
	case playerValue == dealerValue:
		return Draw, nil
	default:
		return Loss, nil
	}
}
