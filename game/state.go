package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// GameState is the player's view of a round at a decision point: its own
// hand, the dealer's visible hand, and the undealt cards. Draws come from a
// uniformly random remaining card since the order of the shoe is hidden.
type GameState struct {
	Hand     Hand
	Opponent Hand
	Deck     *Deck
	Stood    bool
	rng      *rand.Rand
}

// NewGameState snapshots the live round. The caller's hands and deck are
// cloned and never touched again.
func NewGameState(hand, opponent Hand, deck *Deck, rng *rand.Rand) *GameState {
	return &GameState{
		Hand:     hand.Clone(),
		Opponent: opponent.Clone(),
		Deck:     deck.Clone(),
		rng:      rng,
	}
}

func (gs *GameState) Copy() *GameState {
	return &GameState{
		Hand:     gs.Hand.Clone(),
		Opponent: gs.Opponent.Clone(),
		Deck:     gs.Deck.Clone(),
		Stood:    gs.Stood,
		rng:      gs.rng, // Shared by every state of one search
	}
}

func (gs *GameState) IsTerminal() bool {
	return gs.Stood || gs.Hand.IsBust()
}

func (gs *GameState) LegalActions() []Action {
	if gs.IsTerminal() {
		return nil
	}
	if gs.Deck.Len() == 0 {
		return []Action{Stand}
	}
	return []Action{Hit, Stand}
}

// Play returns the successor state. Each call on Hit samples a fresh card.
func (gs *GameState) Play(action Action) State {
	if gs.IsTerminal() {
		panic("cannot play on a terminal state")
	}

	next := gs.Copy()
	switch action {
	case Hit:
		next.Hand.AddCard(next.Deck.DealRandom(gs.rng))
	case Stand:
		next.Stood = true
	default:
		panic(fmt.Sprintf("unexpected action %v", action))
	}
	return next
}

// Payoff plays the dealer's fixed policy out against a copy of the deck and
// scores the round. A dealer facing an empty deck keeps the hand it has.
func (gs *GameState) Payoff() float64 {
	if !gs.IsTerminal() {
		panic("cannot compute payoff of a non-terminal state")
	}
	if gs.Hand.IsBust() {
		return Loss
	}

	dealer := gs.Opponent.Clone()
	deck := gs.Deck.Clone()
	for DealerShouldHit(dealer) && deck.Len() > 0 {
		dealer.AddCard(deck.DealRandom(gs.rng))
	}
	return Outcome(gs.Hand, dealer)
}

func (gs *GameState) String() string {
	return fmt.Sprintf("hand [%s] (%d) vs dealer [%s] (%d), %d cards left, stood=%t",
		gs.Hand, gs.Hand.Value(), gs.Opponent, gs.Opponent.Value(), gs.Deck.Len(), gs.Stood)
}
