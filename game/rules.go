package game

const (
	DeckCount      = 6   // Decks per shoe
	RedealFraction = 0.5 // Reshuffle at round start once less than this share of the shoe remains
	Blackjack      = 21
	DealerStandsOn = 17
)

// Payoffs from the player's perspective
const (
	Loss = 0.0
	Tie  = 0.5
	Win  = 1.0
)

// DealerShouldHit is the fixed dealer policy: hit while under 17.
func DealerShouldHit(dealer Hand) bool {
	return dealer.Value() < DealerStandsOn
}

// Outcome scores a finished round for the player.
func Outcome(player, dealer Hand) float64 {
	switch {
	case player.IsBust():
		return Loss
	case dealer.IsBust():
		return Win
	case player.Value() == dealer.Value():
		return Tie
	case player.Value() > dealer.Value():
		return Win
	default:
		return Loss
	}
}
