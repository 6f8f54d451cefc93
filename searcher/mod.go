package searcher

import "blackjack/game"

// Stats summarizes one root child after a search.
type Stats struct {
	Visits  int     `json:"visits"`
	Average float64 `json:"average"`
}

// Policy maps each explored root action to its statistics.
type Policy map[game.Action]Stats
