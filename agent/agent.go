package agent

import (
	"fmt"

	"blackjack/experiments/metrics"
	"blackjack/game"

	"golang.org/x/exp/rand"
)

// Agent decides the player's turn one card at a time. The hands and deck are
// the live round and must only be read.
type Agent interface {
	Hit(hand, opponent game.Hand, deck *game.Deck) bool
}

// Learner is told the payoff of every round it played.
type Learner interface {
	EndRound(payoff float64)
}

// Searcher reports the cost of its most recent decision.
type Searcher interface {
	LastSearch() metrics.SearchMetric
}

// Dealer plays the house rule.
type Dealer struct{}

func (Dealer) Hit(hand, _ game.Hand, _ *game.Deck) bool {
	return game.DealerShouldHit(hand)
}

func (Dealer) String() string { return "dealer" }

// Threshold hits while the hand is below a fixed value.
type Threshold struct {
	Value int
}

func (a Threshold) Hit(hand, _ game.Hand, _ *game.Deck) bool {
	return hand.Value() < a.Value
}

func (a Threshold) String() string { return fmt.Sprintf("threshold(%d)", a.Value) }

type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (a *Random) Hit(_, _ game.Hand, _ *game.Deck) bool {
	return a.rng.Intn(2) == 0
}

func (a *Random) String() string { return "random" }
