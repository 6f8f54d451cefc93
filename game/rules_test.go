package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		player Hand
		dealer Hand
		want   float64
	}{
		{"player bust", NewHand(Card{Ten, Hearts}, Card{Nine, Clubs}, Card{Five, Spades}), NewHand(Card{Ten, Spades}, Card{Seven, Clubs}), Loss},
		{"both bust", NewHand(Card{Ten, Hearts}, Card{Nine, Clubs}, Card{Five, Spades}), NewHand(Card{Ten, Spades}, Card{Six, Clubs}, Card{King, Clubs}), Loss},
		{"dealer bust", NewHand(Card{Two, Hearts}, Card{Three, Clubs}), NewHand(Card{Ten, Spades}, Card{Six, Clubs}, Card{King, Clubs}), Win},
		{"tie", NewHand(Card{Ten, Hearts}, Card{Eight, Clubs}), NewHand(Card{Nine, Spades}, Card{Nine, Clubs}), Tie},
		{"player higher", NewHand(Card{Ten, Hearts}, Card{Queen, Clubs}), NewHand(Card{Ten, Spades}, Card{Seven, Clubs}), Win},
		{"dealer higher", NewHand(Card{Ten, Hearts}, Card{Seven, Clubs}), NewHand(Card{Ace, Spades}, Card{Nine, Clubs}), Loss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Outcome(tt.player, tt.dealer))
		})
	}
}

func TestDealerShouldHit(t *testing.T) {
	require.True(t, DealerShouldHit(NewHand(Card{Ten, Hearts}, Card{Six, Clubs})))
	require.False(t, DealerShouldHit(NewHand(Card{Ten, Hearts}, Card{Seven, Clubs})))
	require.False(t, DealerShouldHit(NewHand(Card{Ace, Hearts}, Card{Six, Clubs})), "Dealer stands on soft 17")
}
