package experiments

import (
	"context"
	"fmt"
	"time"

	"blackjack/agent"
	"blackjack/engine"
	"blackjack/experiments/metrics"
	"blackjack/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	ShortBudget    = 5 * time.Millisecond
	LongBudget     = 100 * time.Millisecond
	TrainingRounds = 200_000
)

// Options sizes an experiment. Every agent config plays Rounds on each of
// Tables tables.
type Options struct {
	Dir    string // Results land in Dir/<experiment>/<timestamp>
	Tables int
	Rounds int
	Seed   uint64
}

// Outcome summarizes one agent config across all of its tables.
type Outcome struct {
	Config  metrics.AgentConfig
	Results engine.Results
}

var budgetConfigs = []metrics.AgentConfig{
	{ID: 1, Agent: "mcts", Duration: ShortBudget},
	{ID: 2, Agent: "mcts", Duration: LongBudget},
}

var baselineConfigs = []metrics.AgentConfig{
	{ID: 1, Agent: "dealer"},
	{ID: 2, Agent: "threshold", Threshold: 17},
	{ID: 3, Agent: "threshold", Threshold: 12},
	{ID: 4, Agent: "random"},
	{ID: 5, Agent: "qlearn", Training: TrainingRounds},
	{ID: 6, Agent: "mcts", Duration: ShortBudget},
}

// RunTimeBudgetExperiment compares the search at a short and a long budget
// per decision against the dealer.
func RunTimeBudgetExperiment(ctx context.Context, opts Options) ([]Outcome, error) {
	return runExperiment(ctx, "time_budget", budgetConfigs, opts)
}

// RunRemoteExperiment plays against the dealer with every decision made by
// the server at url, searching for budget per decision.
func RunRemoteExperiment(ctx context.Context, opts Options, url string, budget time.Duration) ([]Outcome, error) {
	configs := []metrics.AgentConfig{{ID: 1, Agent: "remote", Duration: budget, URL: url}}
	return runExperiment(ctx, "remote", configs, opts)
}

// RunBaselineExperiment compares the search with fixed and learned strategies.
func RunBaselineExperiment(ctx context.Context, opts Options) ([]Outcome, error) {
	return runExperiment(ctx, "baseline", baselineConfigs, opts)
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, opts Options) ([]Outcome, error) {
	log.Info().Str("experiment", name).Int("tables", opts.Tables).Int("rounds", opts.Rounds).Msg("starting experiment")

	outcomes := make([]Outcome, 0, len(configs))
	records := []metrics.RoundRecord{}
	for i, config := range configs {
		log.Info().Msgf("starting agent %d of %d: %+v", i+1, len(configs), config)

		start := time.Now()
		results, rounds, err := engine.RunTables(ctx, opts.Tables, opts.Rounds, opts.Seed, factory(ctx, config))
		if err != nil {
			return nil, fmt.Errorf("%s agent %d: %w", name, config.ID, err)
		}
		for _, round := range rounds {
			records = append(records, metrics.RoundRecord{Agent: config.ID, RoundMetric: round})
		}
		outcomes = append(outcomes, Outcome{Config: config, Results: results})

		log.Info().
			Int("agent", config.ID).
			Str("kind", config.Agent).
			Float64("win", results.WinRate()).
			Float64("tie", results.TieRate()).
			Float64("loss", results.LossRate()).
			Dur("elapsed", time.Since(start)).
			Msgf("completed agent %d of %d", i+1, len(configs))
	}
	log.Info().Msgf("completed %s experiment", name)

	if err := store(name, opts.Dir, configs, records); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func store(name, dir string, configs []metrics.AgentConfig, records []metrics.RoundRecord) error {
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteRoundRecords(records); err != nil {
		return fmt.Errorf("store round records: %w", err)
	}
	path, err := writer.WriteRoundParquet(records)
	if err != nil {
		return fmt.Errorf("store round parquet: %w", err)
	}
	log.Info().Str("run", writer.RunID().String()).Str("parquet", path).Int("rounds", len(records)).Msg("stored round records")
	return nil
}

func factory(ctx context.Context, config metrics.AgentConfig) engine.Factory {
	return func(table int, rng *rand.Rand) agent.Agent {
		return NewAgent(ctx, config, table, rng)
	}
}

// NewAgent builds the player described by config. Learners are trained on a
// private table first.
func NewAgent(ctx context.Context, config metrics.AgentConfig, table int, rng *rand.Rand) agent.Agent {
	switch config.Agent {
	case "dealer":
		return agent.Dealer{}
	case "threshold":
		return agent.Threshold{Value: config.Threshold}
	case "random":
		return agent.NewRandom(rng)
	case "qlearn":
		q := agent.NewQLearn(agent.DefaultAlpha, agent.DefaultTemperature, rng)
		train(ctx, q, table, config.Training, rng)
		return q
	case "mcts":
		return agent.NewMCTS(createMCTS(config, rng)...)
	case "remote":
		return agent.NewRemote(config.URL, config.Duration)
	default:
		panic(fmt.Sprintf("unknown agent %q", config.Agent))
	}
}

func train(ctx context.Context, q *agent.QLearn, table, rounds int, rng *rand.Rand) {
	if rounds <= 0 {
		return
	}
	q.SetTraining(true)
	defer q.SetTraining(false)

	start := time.Now()
	results, _, err := engine.NewTable(table, q, rng).Run(ctx, rounds)
	if err != nil {
		log.Warn().Err(err).Int("table", table).Msg("training interrupted")
		return
	}
	log.Debug().
		Int("table", table).
		Int("states", q.States()).
		Float64("score", results.Score()).
		Dur("elapsed", time.Since(start)).
		Msg("trained q-learner")
}

func createMCTS(config metrics.AgentConfig, rng *rand.Rand) []searcher.Option {
	options := []searcher.Option{searcher.WithRand(rng), searcher.WithMetrics()}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	return options
}
