package experiments

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"blackjack/agent"
	"blackjack/experiments/metrics"
	"blackjack/server"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewAgent(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	require.IsType(t, agent.Dealer{}, NewAgent(ctx, metrics.AgentConfig{Agent: "dealer"}, 0, rng))
	require.Equal(t, agent.Threshold{Value: 15}, NewAgent(ctx, metrics.AgentConfig{Agent: "threshold", Threshold: 15}, 0, rng))
	require.IsType(t, &agent.Random{}, NewAgent(ctx, metrics.AgentConfig{Agent: "random"}, 0, rng))
	require.IsType(t, &agent.MCTS{}, NewAgent(ctx, metrics.AgentConfig{Agent: "mcts", Episodes: 10}, 0, rng))

	t.Run("training learners before play", func(t *testing.T) {
		a := NewAgent(ctx, metrics.AgentConfig{Agent: "qlearn", Training: 500}, 0, rng)

		q, ok := a.(*agent.QLearn)
		require.True(t, ok)
		require.Positive(t, q.States(), "Training should visit some states")
	})

	t.Run("remote agents", func(t *testing.T) {
		a := NewAgent(ctx, metrics.AgentConfig{Agent: "remote", URL: "http://localhost:1", Duration: time.Millisecond}, 0, rng)
		require.IsType(t, &agent.Remote{}, a)
	})

	t.Run("panics on unknown agents", func(t *testing.T) {
		require.Panics(t, func() { NewAgent(ctx, metrics.AgentConfig{Agent: "counter"}, 0, rng) })
	})
}

func TestRunExperiment(t *testing.T) {
	dir := t.TempDir()
	configs := []metrics.AgentConfig{
		{ID: 1, Agent: "dealer"},
		{ID: 2, Agent: "mcts", Episodes: 20},
		{ID: 3, Agent: "qlearn", Training: 200},
	}

	outcomes, err := runExperiment(context.Background(), "smoke", configs, Options{Dir: dir, Tables: 2, Rounds: 15, Seed: 3})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		require.Equal(t, 30, o.Results.Rounds, "Every config plays each table's rounds")
	}

	parquets, err := filepath.Glob(filepath.Join(dir, "smoke", "*", "rounds.parquet"))
	require.NoError(t, err)
	require.Len(t, parquets, 1)

	rows, err := parquet.ReadFile[metrics.RoundRow](parquets[0])
	require.NoError(t, err)
	require.Len(t, rows, 90)

	csvs, err := filepath.Glob(filepath.Join(dir, "smoke", "*", "*.csv"))
	require.NoError(t, err)
	require.Len(t, csvs, 2, "Agent configs and round records")
}

func TestRunExperimentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runExperiment(ctx, "cancelled", budgetConfigs, Options{Dir: t.TempDir(), Tables: 1, Rounds: 5})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRemoteExperiment(t *testing.T) {
	ts := httptest.NewServer(server.New(time.Millisecond).Handler())
	defer ts.Close()
	dir := t.TempDir()

	outcomes, err := RunRemoteExperiment(context.Background(), Options{Dir: dir, Tables: 2, Rounds: 5, Seed: 4}, ts.URL, time.Millisecond)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Equal(t, "remote", outcomes[0].Config.Agent)
	require.Equal(t, 10, outcomes[0].Results.Rounds)

	parquets, err := filepath.Glob(filepath.Join(dir, "remote", "*", "rounds.parquet"))
	require.NoError(t, err)
	require.Len(t, parquets, 1)
}
