package rl

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"blackjack-rl/blackjack"
)

// stateAction keys the sparse value table.
type stateAction struct {
	state  State
	action blackjack.Action
}

// MonteCarlo learns a Blackjack policy by Monte Carlo control with exploring
// starts: every episode begins with a uniformly random action, which gives
// every reachable state-action pair nonzero visitation probability without an
// explicit exploration policy for the rest of the episode.
//
// The return signal scores a draw the same −1 as a loss, unlike the
// Q-learning agent, which scores a draw 0. The asymmetry is observable in the
// learned tables and is kept intentionally.
type MonteCarlo struct {
	rng *rand.Rand

	q       map[stateAction]float64
	returns map[stateAction][]float64
	policy  map[State]blackjack.Action
}

// NewMonteCarlo creates an untrained agent. All randomness (deck shuffles and
// exploring starts) is drawn from rng. The agent has no tunable parameters.
func NewMonteCarlo(rng *rand.Rand) *MonteCarlo {
	return &MonteCarlo{
		rng:     rng,
		q:       make(map[stateAction]float64),
		returns: make(map[stateAction][]float64),
		policy:  make(map[State]blackjack.Action),
	}
}

// Train implements Agent. Each episode contributes its terminal return, +1
// for a win and −1 otherwise, to the history of every state-action pair it
// visited; the value estimate is the exact mean of that history, and the
// greedy policy is re-derived for each touched state.
func (mc *MonteCarlo) Train(episodes int) error {
	if err := checkEpisodes(episodes); err != nil {
		return err
	}

	for ep := 0; ep < episodes; ep++ {
		logProgress(ep, episodes)

		game := blackjack.NewGame(mc.rng)
		if err := game.Start(); err != nil {
			return err
		}

		episode, result, err := mc.generateEpisode(game)
		if err != nil {
			return err
		}

		g := -1.0
		if result == blackjack.Win {
			g = 1.0
		}

		for _, sa := range episode {
			mc.returns[sa] = append(mc.returns[sa], g)
			mc.q[sa] = stat.Mean(mc.returns[sa], nil)
			mc.updatePolicy(sa.state)
		}
	}

	return nil
}

// generateEpisode plays one dealt game to completion and records the visited
// state-action pairs. The first action is the exploring start; afterwards the
// current policy decides, with states it has not learned yet defaulting to
// hit.
func (mc *MonteCarlo) generateEpisode(game *blackjack.Game) ([]stateAction, blackjack.Result, error) {
	dealerCard := game.UpCard().Rank.Value()

	state := playerState(game, dealerCard)
	action := blackjack.Stay
	if mc.rng.Intn(2) == 0 {
		action = blackjack.Hit
	}
	episode := []stateAction{{state: state, action: action}}

	for game.Status() == blackjack.StatusContinue {
		if action != blackjack.Hit {
			break
		}
		if _, err := game.PlayerAction(blackjack.Hit); err != nil {
			return nil, blackjack.Loss, err
		}

		state = playerState(game, dealerCard)
		action = blackjack.Hit
		if a, ok := mc.policy[state]; ok {
			action = a
		}
		episode = append(episode, stateAction{state: state, action: action})
	}

	result, err := game.Result()
	if err != nil {
		return nil, blackjack.Loss, err
	}
	return episode, result, nil
}

// updatePolicy points the state at its best known action. An action that has
// never been tried does not compete; an exact tie goes to stay, the same
// default Play uses for unseen states.
func (mc *MonteCarlo) updatePolicy(s State) {
	hitQ, hitOK := mc.q[stateAction{state: s, action: blackjack.Hit}]
	stayQ, stayOK := mc.q[stateAction{state: s, action: blackjack.Stay}]

	switch {
	case hitOK && !stayOK:
		mc.policy[s] = blackjack.Hit
	case stayOK && !hitOK:
		mc.policy[s] = blackjack.Stay
	case hitQ > stayQ:
		mc.policy[s] = blackjack.Hit
	default:
		mc.policy[s] = blackjack.Stay
	}
}

// Play implements Agent. Action selection is a greedy lookup against the
// learned table; unseen state-action pairs read 0, so states training never
// reached default to stay.
func (mc *MonteCarlo) Play() (blackjack.Result, error) {
	game := blackjack.NewGame(mc.rng)
	if err := game.Start(); err != nil {
		return blackjack.Loss, err
	}
	dealerCard := game.UpCard().Rank.Value()

	for game.Status() == blackjack.StatusContinue {
		state := playerState(game, dealerCard)
		hitQ := mc.q[stateAction{state: state, action: blackjack.Hit}]
		stayQ := mc.q[stateAction{state: state, action: blackjack.Stay}]
		if hitQ <= stayQ {
			break
		}
		if _, err := game.PlayerAction(blackjack.Hit); err != nil {
			return blackjack.Loss, err
		}
	}

	return game.Result()
}

// QValue returns the current mean return estimate for the pair, or 0 if the
// pair has never been visited.
func (mc *MonteCarlo) QValue(s State, a blackjack.Action) float64 {
	return mc.q[stateAction{state: s, action: a}]
}

// Policy returns a copy of the greedy policy learned so far.
func (mc *MonteCarlo) Policy() map[State]blackjack.Action {
	policy := make(map[State]blackjack.Action, len(mc.policy))
	for s, a := range mc.policy {
		policy[s] = a
	}
	return policy
}
