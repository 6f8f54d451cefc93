package game

// State should be immutable - operations on State always return a new copy
type State interface {
	IsTerminal() bool
	LegalActions() []Action
	Play(Action) State
	// Payoff scores a terminal state from the player's perspective in [0, 1]
	Payoff() float64
}

// Action is a player decision at one decision point.
type Action int

const (
	NoAction Action = iota // Placeholder for the root of a search
	Hit
	Stand
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	default:
		return "none"
	}
}

// ParseAction is the inverse of Action.String for the two player actions.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "hit":
		return Hit, true
	case "stand":
		return Stand, true
	default:
		return NoAction, false
	}
}
