package game

import (
	"fmt"
	"strings"

	"blackjack/utils"
)

type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankSymbols = []string{"", "", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (r Rank) String() string {
	return rankSymbols[r]
}

// Points is the blackjack value of the rank with aces counted soft (11).
func (r Rank) Points() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// IsLow reports whether drawing the rank cools the deck (2 to 6).
func (r Rank) IsLow() bool {
	return r >= Two && r <= Six
}

// IsHigh reports whether drawing the rank heats the deck (10, faces and ace).
func (r Rank) IsHigh() bool {
	return r >= Ten
}

type Suit uint8

const (
	Hearts Suit = iota + 1
	Diamonds
	Clubs
	Spades
)

var suitSymbols = []string{"", "H", "D", "C", "S"}

func (s Suit) String() string {
	return suitSymbols[s]
}

// Card is an immutable playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// String renders the card as rank then suit, e.g. "10H" or "AS"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard is the inverse of Card.String
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank := utils.FindIndex(rankSymbols[Two:], s[:len(s)-1])
	if rank < 0 {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	suit := utils.FindIndex(suitSymbols[Hearts:], s[len(s)-1:])
	if suit < 0 {
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}
	return Card{Rank: Two + Rank(rank), Suit: Hearts + Suit(suit)}, nil
}

// ParseCards parses every card or fails on the first invalid one.
func ParseCards(symbols []string) ([]Card, error) {
	cards := make([]Card, 0, len(symbols))
	for _, s := range symbols {
		card, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
