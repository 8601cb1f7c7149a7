package rl

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"blackjack-rl/blackjack"
)

// Dense table bounds: player sum, dealer up-card value, usable-ace flag,
// action. The sum axis covers every reachable ace-softened total with room to
// spare.
const (
	numPlayerSums  = 33
	numDealerCards = 12
	numAceFlags    = 2
	numActions     = 2
)

// qTable is a dense state-action value table stored as a flat float32 buffer
// with stride indexing. Entries start at 0 and are updated in place, never
// resized.
type qTable struct {
	values []float32
}

func newQTable() *qTable {
	return &qTable{
		values: make([]float32, numPlayerSums*numDealerCards*numAceFlags*numActions),
	}
}

// index maps a state-action pair to its buffer offset. An out-of-range state
// is a caller bug and panics rather than corrupting a neighboring entry.
func (t *qTable) index(s State, a blackjack.Action) int {
	if s.PlayerSum < 0 || s.PlayerSum >= numPlayerSums ||
		s.DealerCard < 0 || s.DealerCard >= numDealerCards ||
		s.UsableAce < 0 || s.UsableAce >= numAceFlags ||
		a < 0 || int(a) >= numActions {
		panic(errors.Errorf("state %+v action %v out of table bounds", s, a))
	}

	return ((s.PlayerSum*numDealerCards+s.DealerCard)*numAceFlags+s.UsableAce)*numActions + int(a)
}

func (t *qTable) value(s State, a blackjack.Action) float32 {
	return t.values[t.index(s, a)]
}

// maxValue returns max_a Q(s, a), the bootstrap term of the TD update.
func (t *qTable) maxValue(s State) float32 {
	return math32.Max(t.value(s, blackjack.Hit), t.value(s, blackjack.Stay))
}

// QLearning learns a Blackjack policy by one-step temporal-difference
// updates over a dense state-action table, choosing actions epsilon-greedily.
type QLearning struct {
	Alpha   float32 // step size for TD updates
	Gamma   float32 // discount on future value
	Epsilon float32 // exploration probability

	rng   *rand.Rand
	table *qTable
}

// NewQLearning creates an untrained agent with the given step size, discount
// factor, and exploration rate. All randomness (deck shuffles and exploration
// draws) comes from rng.
func NewQLearning(alpha, gamma, epsilon float32, rng *rand.Rand) *QLearning {
	return &QLearning{
		Alpha:   alpha,
		Gamma:   gamma,
		Epsilon: epsilon,
		rng:     rng,
		table:   newQTable(),
	}
}

// chooseAction is epsilon-greedy: with probability Epsilon it explores
// uniformly, otherwise it exploits the table. The strict comparison sends
// exact ties, including fully unseen states, to stay.
func (q *QLearning) chooseAction(s State) blackjack.Action {
	if q.rng.Float32() < q.Epsilon {
		if q.rng.Intn(2) == 0 {
			return blackjack.Hit
		}
		return blackjack.Stay
	}

	if q.table.value(s, blackjack.Hit) > q.table.value(s, blackjack.Stay) {
		return blackjack.Hit
	}
	return blackjack.Stay
}

// update applies the one-step temporal-difference rule:
//
//	Q(s,a) ← Q(s,a) + α·(r + γ·max_a' Q(s',a') − Q(s,a))
func (q *QLearning) update(s State, a blackjack.Action, reward float32, next State) {
	i := q.table.index(s, a)
	old := q.table.values[i]
	q.table.values[i] = old + q.Alpha*(reward+q.Gamma*q.table.maxValue(next)-old)
}

// Train implements Agent.
func (q *QLearning) Train(episodes int) error {
	if err := checkEpisodes(episodes); err != nil {
		return err
	}

	for ep := 0; ep < episodes; ep++ {
		logProgress(ep, episodes)

		game := blackjack.NewGame(q.rng)
		if err := game.Start(); err != nil {
			return err
		}
		if err := q.trainGame(game); err != nil {
			return err
		}
	}

	return nil
}

// trainGame plays one dealt hand. Intermediate transitions carry reward 0 and
// skip the table update; a bust (−1) or blackjack (+1) is applied
// immediately. After the hand ends, one final update always carries the game
// outcome (+1 win, −1 loss, 0 draw) into the last observed transition. The
// dealer's up-card value is fixed once and indexes the table throughout.
func (q *QLearning) trainGame(game *blackjack.Game) error {
	dealerCard := game.UpCard().Rank.Value()

	var state, next State
	var action blackjack.Action
	status := blackjack.StatusContinue
	for status == blackjack.StatusContinue {
		state = playerState(game, dealerCard)
		action = q.chooseAction(state)

		var err error
		status, err = game.PlayerAction(action)
		if err != nil {
			return err
		}
		next = playerState(game, dealerCard)

		var reward float32
		switch status {
		case blackjack.StatusPlayerBlackjack:
			reward = 1
		case blackjack.StatusPlayerBust:
			reward = -1
		}
		if reward != 0 {
			q.update(state, action, reward, next)
		}

		if action == blackjack.Stay {
			break
		}
	}

	result, err := game.Result()
	if err != nil {
		return err
	}

	var reward float32
	switch result {
	case blackjack.Win:
		reward = 1
	case blackjack.Loss:
		reward = -1
	}
	q.update(state, action, reward, next)
	return nil
}

// Play implements Agent. Action selection matches training, including the
// epsilon exploration, but no updates are applied.
func (q *QLearning) Play() (blackjack.Result, error) {
	game := blackjack.NewGame(q.rng)
	if err := game.Start(); err != nil {
		return blackjack.Loss, err
	}
	dealerCard := game.UpCard().Rank.Value()

	status := blackjack.StatusContinue
	for status == blackjack.StatusContinue {
		state := playerState(game, dealerCard)
		action := q.chooseAction(state)

		var err error
		status, err = game.PlayerAction(action)
		if err != nil {
			return blackjack.Loss, err
		}
		if action == blackjack.Stay {
			break
		}
	}

	return game.Result()
}

// Value returns the stored estimate for the pair.
func (q *QLearning) Value(s State, a blackjack.Action) float32 {
	return q.table.value(s, a)
}
