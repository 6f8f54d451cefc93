package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

const cardsPerDeck = 52

// Deck is a multi-deck shoe. The temperature counter always equals high cards
// minus low cards removed since the last reshuffle.
type Deck struct {
	cards       []Card
	counts      [12]int // Remaining cards by point value (2 to 11)
	temperature int
}

// NewDeck returns a freshly shuffled shoe of DeckCount decks.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, DeckCount*cardsPerDeck)}
	d.Reshuffle(rng)
	return d
}

// Reshuffle restores the full composition of the shoe and zeroes the counter.
func (d *Deck) Reshuffle(rng *rand.Rand) {
	d.cards = d.cards[:0]
	d.counts = [12]int{}
	for i := 0; i < DeckCount; i++ {
		for suit := Hearts; suit <= Spades; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
				d.counts[rank.Points()]++
			}
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	d.temperature = 0
}

// StartRound reshuffles when less than RedealFraction of the shoe remains.
// Only call it between rounds.
func (d *Deck) StartRound(rng *rand.Rand) bool {
	if float64(len(d.cards)) < DeckCount*cardsPerDeck*RedealFraction {
		d.Reshuffle(rng)
		return true
	}
	return false
}

// Deal removes and returns the top card.
func (d *Deck) Deal() Card {
	if len(d.cards) == 0 {
		panic("cannot deal from an empty deck")
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	d.removed(card)
	return card
}

// DealRandom removes and returns a uniformly random remaining card, for
// players who cannot see the order of the shoe.
func (d *Deck) DealRandom(rng *rand.Rand) Card {
	if len(d.cards) == 0 {
		panic("cannot deal from an empty deck")
	}
	last := len(d.cards) - 1
	i := rng.Intn(len(d.cards))
	card := d.cards[i]
	d.cards[i] = d.cards[last]
	d.cards = d.cards[:last]
	d.removed(card)
	return card
}

// Remove takes a specific card out of the shoe, as when it is known to be dealt.
func (d *Deck) Remove(card Card) error {
	for i, c := range d.cards {
		if c == card {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			d.removed(card)
			return nil
		}
	}
	return fmt.Errorf("card %s is not in the deck", card)
}

func (d *Deck) removed(card Card) {
	switch {
	case card.Rank.IsLow():
		d.temperature--
	case card.Rank.IsHigh():
		d.temperature++
	}
	d.counts[card.Rank.Points()]--
}

func (d *Deck) Clone() *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return &Deck{cards: cards, counts: d.counts, temperature: d.temperature}
}

func (d *Deck) Len() int { return len(d.cards) }

// Temperature is the raw running count.
func (d *Deck) Temperature() int { return d.temperature }

// Heat is the running count averaged over the decks left in the shoe.
func (d *Deck) Heat() float64 {
	if len(d.cards) == 0 {
		return 0
	}
	decks := float64(len(d.cards)) / cardsPerDeck
	return float64(d.temperature) / decks
}

// Probability of the next card having the same point value as rank.
func (d *Deck) Probability(rank Rank) float64 {
	if len(d.cards) == 0 {
		return 0
	}
	return float64(d.counts[rank.Points()]) / float64(len(d.cards))
}

// UniqueRanks lists one representative rank per point value still in the
// shoe; faces are reported as Ten.
func (d *Deck) UniqueRanks() []Rank {
	ranks := []Rank{}
	for rank := Two; rank <= Ten; rank++ {
		if d.counts[rank.Points()] > 0 {
			ranks = append(ranks, rank)
		}
	}
	if d.counts[Ace.Points()] > 0 {
		ranks = append(ranks, Ace)
	}
	return ranks
}

// Cards returns a copy of the remaining cards, top of the shoe last.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

func (d *Deck) String() string {
	return fmt.Sprintf("Deck of %d cards", len(d.cards))
}
