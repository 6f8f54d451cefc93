package engine

import (
	"context"

	"blackjack/agent"
	"blackjack/experiments/metrics"
	"blackjack/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Table deals rounds from one shoe between a player and the house.
type Table struct {
	ID     int
	player agent.Agent
	dealer agent.Agent
	deck   *game.Deck
	rng    *rand.Rand
	rounds int
}

func NewTable(id int, player agent.Agent, rng *rand.Rand) *Table {
	return &Table{
		ID:     id,
		player: player,
		dealer: agent.Dealer{},
		deck:   game.NewDeck(rng),
		rng:    rng,
	}
}

func (t *Table) Deck() *game.Deck { return t.deck }

// PlayRound deals one round and returns the player's payoff. The dealer's
// hole card is only dealt once the player has finished.
func (t *Table) PlayRound() (float64, metrics.RoundMetric) {
	t.rounds++
	metric := metrics.RoundMetric{Table: t.ID, Round: t.rounds}
	metric.Reshuffled = t.deck.StartRound(t.rng)
	metric.Heat = t.deck.Heat()

	player := game.NewHand(t.deck.Deal(), t.deck.Deal())
	dealer := game.NewHand(t.deck.Deal())

	for !player.IsBust() && t.player.Hit(player, dealer, t.deck) {
		if searcher, ok := t.player.(agent.Searcher); ok {
			metric.Decisions = append(metric.Decisions, searcher.LastSearch())
		}
		player.AddCard(t.deck.Deal())
	}
	// The final stand was a decision too
	if searcher, ok := t.player.(agent.Searcher); ok && !player.IsBust() {
		metric.Decisions = append(metric.Decisions, searcher.LastSearch())
	}

	if !player.IsBust() {
		dealer.AddCard(t.deck.Deal())
		for t.dealer.Hit(dealer, player, t.deck) {
			dealer.AddCard(t.deck.Deal())
		}
	}

	payoff := game.Outcome(player, dealer)
	if learner, ok := t.player.(agent.Learner); ok {
		learner.EndRound(payoff)
	}

	metric.Payoff = payoff
	metric.PlayerValue = player.Value()
	metric.DealerValue = dealer.Value()
	metric.PlayerCards = player.Len()
	log.Trace().
		Int("table", t.ID).
		Int("round", t.rounds).
		Stringer("player", player).
		Stringer("dealer", dealer).
		Float64("payoff", payoff).
		Msg("round over")
	return payoff, metric
}

// Run plays rounds until done or ctx is cancelled between rounds.
func (t *Table) Run(ctx context.Context, rounds int) (Results, []metrics.RoundMetric, error) {
	var results Results
	records := make([]metrics.RoundMetric, 0, rounds)
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return results, records, err
		}
		payoff, metric := t.PlayRound()
		results.record(payoff)
		records = append(records, metric)
	}
	return results, records, nil
}
