package engine

import (
	"context"
	"testing"

	"blackjack/agent"
	"blackjack/game"
	"blackjack/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestResults(t *testing.T) {
	var r Results
	for _, payoff := range []float64{game.Win, game.Win, game.Loss, game.Tie} {
		r.record(payoff)
	}

	require.Equal(t, Results{Wins: 2, Losses: 1, Ties: 1, Rounds: 4}, r)
	require.Equal(t, 0.5, r.WinRate())
	require.Equal(t, 0.25, r.LossRate())
	require.Equal(t, 0.25, r.TieRate())
	require.Equal(t, 0.625, r.Score())
	require.Zero(t, Results{}.WinRate(), "No rounds means no rate")

	r.Merge(Results{Wins: 1, Rounds: 1})
	require.Equal(t, 3, r.Wins)
	require.Equal(t, 5, r.Rounds)
}

type recordingLearner struct {
	agent.Threshold
	payoffs []float64
}

func (l *recordingLearner) EndRound(payoff float64) {
	l.payoffs = append(l.payoffs, payoff)
}

func TestTablePlayRound(t *testing.T) {
	t.Run("accounting for every round", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		table := NewTable(0, agent.Threshold{Value: 17}, rng)

		results, records, err := table.Run(context.Background(), 300)
		require.NoError(t, err)
		require.Equal(t, 300, results.Rounds)
		require.Equal(t, results.Rounds, results.Wins+results.Losses+results.Ties)
		require.Len(t, records, 300)

		reshuffles := 0
		for i, rec := range records {
			require.Equal(t, i+1, rec.Round)
			require.GreaterOrEqual(t, rec.PlayerCards, 2)
			require.GreaterOrEqual(t, rec.PlayerValue, 17, "Threshold player stops at seventeen or busts")
			if rec.PlayerValue > game.Blackjack {
				require.Equal(t, game.Loss, rec.Payoff, "A bust always loses")
			}
			if rec.Reshuffled {
				reshuffles++
			}
		}
		require.Positive(t, reshuffles, "Shoe should be reshuffled once half is used")
		require.GreaterOrEqual(t, table.Deck().Len(), game.DeckCount*52/2-30)
	})

	t.Run("dealer plays out only after the player stands", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		table := NewTable(0, agent.Threshold{Value: 30}, rng)

		payoff, rec := table.PlayRound()
		require.Equal(t, game.Loss, payoff, "Hitting until bust loses")
		require.Greater(t, rec.PlayerValue, game.Blackjack)
		require.Less(t, rec.DealerValue, 12, "Dealer keeps a single up-card")
	})

	t.Run("reporting payoffs to learners", func(t *testing.T) {
		learner := &recordingLearner{Threshold: agent.Threshold{Value: 15}}
		table := NewTable(0, learner, rand.New(rand.NewSource(3)))

		var payoffs []float64
		for i := 0; i < 20; i++ {
			payoff, _ := table.PlayRound()
			payoffs = append(payoffs, payoff)
		}
		require.Equal(t, payoffs, learner.payoffs)
	})

	t.Run("recording search decisions", func(t *testing.T) {
		player := agent.NewMCTS(searcher.WithEpisodes(50), searcher.WithSeed(4), searcher.WithMetrics())
		table := NewTable(0, player, rand.New(rand.NewSource(4)))

		for i := 0; i < 10; i++ {
			_, rec := table.PlayRound()
			if rec.PlayerValue <= game.Blackjack {
				require.Len(t, rec.Decisions, rec.PlayerCards-1, "One decision per hit plus the stand")
			} else {
				require.Len(t, rec.Decisions, rec.PlayerCards-2, "One decision per hit")
			}
		}
	})

	t.Run("stopping when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		table := NewTable(0, agent.Dealer{}, rand.New(rand.NewSource(5)))

		results, _, err := table.Run(ctx, 10)
		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, results.Rounds)
	})
}

func TestRunTables(t *testing.T) {
	factory := func(table int, rng *rand.Rand) agent.Agent {
		return agent.Dealer{}
	}

	t.Run("merging tables", func(t *testing.T) {
		results, records, err := RunTables(context.Background(), 4, 50, 7, factory)
		require.NoError(t, err)
		require.Equal(t, 200, results.Rounds)
		require.Len(t, records, 200)
		require.Equal(t, results.Rounds, results.Wins+results.Losses+results.Ties)
	})

	t.Run("reproducible for a seed", func(t *testing.T) {
		first, _, err := RunTables(context.Background(), 3, 40, 11, factory)
		require.NoError(t, err)
		second, _, err := RunTables(context.Background(), 3, 40, 11, factory)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("rejecting an empty setup", func(t *testing.T) {
		_, _, err := RunTables(context.Background(), 0, 10, 1, factory)
		require.Error(t, err)
	})
}
