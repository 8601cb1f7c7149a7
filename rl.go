// Package rl implements two tabular reinforcement-learning agents that learn
// a hit/stay policy for Blackjack from repeated self-play: Monte Carlo
// control with exploring starts, and one-step Q-learning. Both converge to an
// optimal policy only asymptotically, given unbounded exploration.
package rl

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"blackjack-rl/blackjack"
)

// Agent is a learner that can be trained by self-play and then evaluated.
type Agent interface {
	// Train runs the given number of complete games, updating the agent's
	// value tables as a side effect.
	Train(episodes int) error

	// Play runs one game with the learned policy and returns its outcome,
	// without updating the tables.
	Play() (blackjack.Result, error)
}

// State is the agent-facing abstraction of one decision point: the player's
// hand value, the numeric value of the dealer's visible card (J/Q/K count 10,
// an ace counts 11), and whether the player holds an ace still counted as 11.
// It is the only view of the game the learning code reads.
type State struct {
	PlayerSum  int
	DealerCard int
	UsableAce  int
}

// playerState reads the player-side state components from the game.
// dealerCard is converted from the up-card once per game and held fixed for
// the whole hand, since only the player's hand evolves.
func playerState(g *blackjack.Game, dealerCard int) State {
	ace := 0
	if g.Player.HasUsableAce() {
		ace = 1
	}
	return State{
		PlayerSum:  g.Player.Value(),
		DealerCard: dealerCard,
		UsableAce:  ace,
	}
}

func checkEpisodes(episodes int) error {
	if episodes <= 0 {
		return errors.Errorf("episodes must be positive, got %d", episodes)
	}
	return nil
}

// logProgress emits training progress at roughly one-percent intervals.
func logProgress(ep, episodes int) {
	interval := episodes / 100
	if interval == 0 {
		interval = 1
	}

	if ep%interval == 0 {
		glog.V(1).Infof("training progress: %.2f%%", 100*float64(ep)/float64(episodes))
	}
}
