package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blackjack/game"
	"blackjack/server"

	"github.com/rs/zerolog/log"
)

// Remote asks a decision server over HTTP. It falls back to the dealer rule
// when the server cannot answer.
type Remote struct {
	url    string
	budget time.Duration
	client *http.Client
}

func NewRemote(url string, budget time.Duration) *Remote {
	return &Remote{
		url:    strings.TrimSuffix(url, "/"),
		budget: budget,
		client: &http.Client{Timeout: budget + 5*time.Second},
	}
}

func (a *Remote) Hit(hand, opponent game.Hand, deck *game.Deck) bool {
	action, err := a.decide(context.Background(), hand, opponent, deck)
	if err != nil {
		log.Error().Err(err).Str("url", a.url).Msg("remote decision failed, using dealer rule")
		return game.DealerShouldHit(hand)
	}
	return action == game.Hit
}

func (a *Remote) String() string { return "remote(" + a.url + ")" }

func (a *Remote) decide(ctx context.Context, hand, opponent game.Hand, deck *game.Deck) (game.Action, error) {
	payload := server.DecideRequest{
		Hand:     symbols(hand.Cards()),
		Dealer:   symbols(opponent.Cards()),
		Seen:     seenCards(hand, opponent, deck),
		BudgetMS: int(a.budget.Milliseconds()),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return game.NoAction, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/decide", bytes.NewReader(body))
	if err != nil {
		return game.NoAction, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return game.NoAction, fmt.Errorf("post decide: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return game.NoAction, fmt.Errorf("server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var decision server.DecideResponse
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return game.NoAction, fmt.Errorf("decode response: %w", err)
	}
	action, ok := game.ParseAction(decision.Action)
	if !ok || action == game.NoAction {
		return game.NoAction, fmt.Errorf("invalid action %q", decision.Action)
	}
	return action, nil
}

func symbols(cards []game.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// seenCards lists the cards of a full shoe that are neither left in the deck
// nor in either hand.
func seenCards(hand, opponent game.Hand, deck *game.Deck) []string {
	present := make(map[game.Card]int, 52)
	for _, cards := range [][]game.Card{deck.Cards(), hand.Cards(), opponent.Cards()} {
		for _, c := range cards {
			present[c]++
		}
	}

	var seen []string
	for suit := game.Hearts; suit <= game.Spades; suit++ {
		for rank := game.Two; rank <= game.Ace; rank++ {
			card := game.Card{Rank: rank, Suit: suit}
			for i := present[card]; i < game.DeckCount; i++ {
				seen = append(seen, card.String())
			}
		}
	}
	return seen
}
