package agent

import (
	"blackjack/experiments/metrics"
	"blackjack/game"
	"blackjack/searcher"
)

type MCTS struct {
	search *searcher.MCTS
}

// NewMCTS returns an agent that searches before every decision. Options must
// set a budget.
func NewMCTS(options ...searcher.Option) *MCTS {
	return &MCTS{search: searcher.NewMCTS(options...)}
}

func (a *MCTS) Hit(hand, opponent game.Hand, deck *game.Deck) bool {
	return a.search.Decide(hand, opponent, deck) == game.Hit
}

func (a *MCTS) LastSearch() metrics.SearchMetric {
	return a.search.LastSearch()
}

func (a *MCTS) String() string { return a.search.String() }
