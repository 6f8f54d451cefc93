package game

import "strings"

// Hand keeps its value current as cards are added.
type Hand struct {
	cards []Card
	value int
	soft  int // Aces still counted as 11
}

// NewHand returns a hand holding the given cards in order.
func NewHand(cards ...Card) Hand {
	h := Hand{cards: make([]Card, 0, len(cards)+2)}
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

func (h *Hand) AddCard(card Card) {
	h.cards = append(h.cards, card)
	h.value += card.Rank.Points()
	if card.Rank == Ace {
		h.soft++
	}
	for h.value > Blackjack && h.soft > 0 {
		h.value -= 10
		h.soft--
	}
}

func (h Hand) Clone() Hand {
	cards := make([]Card, len(h.cards), len(h.cards)+2)
	copy(cards, h.cards)
	return Hand{cards: cards, value: h.value, soft: h.soft}
}

func (h Hand) Value() int { return h.value }

func (h Hand) IsBust() bool { return h.value > Blackjack }

// IsSoft reports whether an ace is still counted as 11.
func (h Hand) IsSoft() bool { return h.soft > 0 }

func (h Hand) Len() int { return len(h.cards) }

// Cards returns a copy of the held cards.
func (h Hand) Cards() []Card {
	cards := make([]Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

func (h Hand) String() string {
	symbols := make([]string, len(h.cards))
	for i, c := range h.cards {
		symbols[i] = c.String()
	}
	return strings.Join(symbols, " ")
}
