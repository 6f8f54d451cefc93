package engine

import (
	"context"
	"fmt"

	"blackjack/agent"
	"blackjack/experiments/metrics"
	"blackjack/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Results counts round outcomes from the player's perspective.
type Results struct {
	Wins   int
	Losses int
	Ties   int
	Rounds int
}

func (r *Results) record(payoff float64) {
	r.Rounds++
	switch payoff {
	case game.Win:
		r.Wins++
	case game.Loss:
		r.Losses++
	default:
		r.Ties++
	}
}

func (r *Results) Merge(other Results) {
	r.Wins += other.Wins
	r.Losses += other.Losses
	r.Ties += other.Ties
	r.Rounds += other.Rounds
}

func (r Results) WinRate() float64  { return r.fraction(r.Wins) }
func (r Results) LossRate() float64 { return r.fraction(r.Losses) }
func (r Results) TieRate() float64  { return r.fraction(r.Ties) }

// Score is the average payoff per round.
func (r Results) Score() float64 {
	return game.Win*r.fraction(r.Wins) + game.Tie*r.fraction(r.Ties)
}

func (r Results) fraction(n int) float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(r.Rounds)
}

func (r Results) String() string {
	return fmt.Sprintf("%d rounds: %.3f win, %.3f tie, %.3f loss", r.Rounds, r.WinRate(), r.TieRate(), r.LossRate())
}

// Factory builds the player for one table. Each table calls it once from its
// own goroutine with a generator private to that table.
type Factory func(table int, rng *rand.Rand) agent.Agent

// RunTables plays rounds on each of tables independent tables concurrently.
// Table i is seeded with seed+i, so results are reproducible for a fixed seed.
func RunTables(ctx context.Context, tables, rounds int, seed uint64, factory Factory) (Results, []metrics.RoundMetric, error) {
	if tables <= 0 || rounds < 0 {
		return Results{}, nil, fmt.Errorf("invalid table setup: %d tables, %d rounds", tables, rounds)
	}

	results := make([]Results, tables)
	records := make([][]metrics.RoundMetric, tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < tables; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + uint64(i)))
			table := NewTable(i, factory(i, rng), rng)
			res, recs, err := table.Run(ctx, rounds)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i], records[i] = res, recs
			log.Debug().Int("table", i).Stringer("results", res).Msg("table finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, nil, err
	}

	var total Results
	var all []metrics.RoundMetric
	for i := range results {
		total.Merge(results[i])
		all = append(all, records[i]...)
	}
	return total, all, nil
}
