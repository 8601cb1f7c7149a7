package rl

import (
	"math/rand"
	"testing"

	"github.com/seehuhn/mt19937"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack-rl/blackjack"
)

func newTestRand(seed int64) *rand.Rand {
	src := mt19937.New()
	src.Seed(seed)
	return rand.New(src)
}

func TestMonteCarloRejectsNonPositiveEpisodes(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(1))
	assert.Error(t, mc.Train(0))
	assert.Error(t, mc.Train(-5))
}

func TestMonteCarloLearnsToStayOnTwenty(t *testing.T) {
	if testing.Short() {
		t.Skip("long training run")
	}

	mc := NewMonteCarlo(newTestRand(2))
	require.NoError(t, mc.Train(50000))

	// Hitting a hard 20 busts far more often than standing loses, so the
	// estimates must order stay above hit after this many episodes.
	s := State{PlayerSum: 20, DealerCard: 7, UsableAce: 0}
	assert.GreaterOrEqual(t, mc.QValue(s, blackjack.Stay), mc.QValue(s, blackjack.Hit))
	assert.Equal(t, blackjack.Stay, mc.Policy()[s])
}

func TestMonteCarloExploringStartCoversBothActions(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(3))

	var sawHit, sawStay bool
	for i := 0; i < 200; i++ {
		game := blackjack.NewGame(mc.rng)
		require.NoError(t, game.Start())

		episode, _, err := mc.generateEpisode(game)
		require.NoError(t, err)
		require.NotEmpty(t, episode)

		if episode[0].action == blackjack.Hit {
			sawHit = true
		} else {
			sawStay = true
		}
	}
	assert.True(t, sawHit, "exploring start never hit")
	assert.True(t, sawStay, "exploring start never stayed")
}

func TestMonteCarloEpisodeEndsAfterStay(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(4))

	for i := 0; i < 100; i++ {
		game := blackjack.NewGame(mc.rng)
		require.NoError(t, game.Start())

		episode, result, err := mc.generateEpisode(game)
		require.NoError(t, err)
		assert.Contains(t, []blackjack.Result{blackjack.Win, blackjack.Loss, blackjack.Draw}, result)

		// Only the final pair may carry a stay; everything before it hit.
		for _, sa := range episode[:len(episode)-1] {
			assert.Equal(t, blackjack.Hit, sa.action)
		}
	}
}

func TestMonteCarloTrainTracksReturnHistory(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(5))
	require.NoError(t, mc.Train(500))

	require.NotEmpty(t, mc.returns)
	for sa, history := range mc.returns {
		require.NotEmpty(t, history)
		for _, g := range history {
			assert.Contains(t, []float64{1, -1}, g, "return for %+v", sa)
		}

		// The estimate is the exact mean of the recorded returns.
		sum := 0.0
		for _, g := range history {
			sum += g
		}
		assert.InDelta(t, sum/float64(len(history)), mc.q[sa], 1e-12)
	}
}

func TestMonteCarloPolicyPrefersHigherMean(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(6))
	s := State{PlayerSum: 15, DealerCard: 10, UsableAce: 0}

	mc.returns[stateAction{state: s, action: blackjack.Hit}] = []float64{1, 1, -1}
	mc.returns[stateAction{state: s, action: blackjack.Stay}] = []float64{-1, -1}
	mc.q[stateAction{state: s, action: blackjack.Hit}] = 1.0 / 3.0
	mc.q[stateAction{state: s, action: blackjack.Stay}] = -1.0
	mc.updatePolicy(s)
	assert.Equal(t, blackjack.Hit, mc.policy[s])

	// With only one action observed, it wins regardless of sign.
	s2 := State{PlayerSum: 12, DealerCard: 5, UsableAce: 1}
	mc.q[stateAction{state: s2, action: blackjack.Hit}] = -0.8
	mc.updatePolicy(s2)
	assert.Equal(t, blackjack.Hit, mc.policy[s2])
}

func TestMonteCarloPlayReturnsTerminalResult(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(7))
	require.NoError(t, mc.Train(1000))

	for i := 0; i < 200; i++ {
		result, err := mc.Play()
		require.NoError(t, err)
		assert.Contains(t, []string{"win", "loss", "draw"}, result.String())
	}
}

func TestMonteCarloPlayDoesNotLearn(t *testing.T) {
	mc := NewMonteCarlo(newTestRand(8))
	require.NoError(t, mc.Train(1000))

	before := len(mc.returns)
	for i := 0; i < 50; i++ {
		_, err := mc.Play()
		require.NoError(t, err)
	}
	assert.Equal(t, before, len(mc.returns))
}
