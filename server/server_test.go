package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blackjack/game"

	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/decide", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := New(time.Millisecond).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestDecide(t *testing.T) {
	h := New(5 * time.Millisecond).Handler()

	t.Run("searching a live hand", func(t *testing.T) {
		body, err := json.Marshal(DecideRequest{
			Hand:     []string{"10H", "QS"},
			Dealer:   []string{"5D"},
			Seen:     []string{"2C", "3C"},
			Episodes: 3000,
		})
		require.NoError(t, err)

		rec := post(t, h, string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp DecideResponse
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp))
		require.Equal(t, "stand", resp.Action)
		require.Equal(t, 20, resp.Value)
		require.Equal(t, 3000, resp.Episodes)
		require.Contains(t, resp.Stats, "hit")
		require.Contains(t, resp.Stats, "stand")
		require.Equal(t, 3000, resp.Stats["hit"].Visits+resp.Stats["stand"].Visits)
	})

	t.Run("searching on a time budget", func(t *testing.T) {
		rec := post(t, h, `{"hand":["10H","6S"],"dealer":["9D"],"budget_ms":2}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp DecideResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Contains(t, []string{"hit", "stand"}, resp.Action)
		require.GreaterOrEqual(t, resp.Episodes, 1)
	})

	t.Run("standing on a busted hand without stats", func(t *testing.T) {
		rec := post(t, h, `{"hand":["10H","QS","5C"],"dealer":["9D"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp DecideResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "stand", resp.Action)
		require.Empty(t, resp.Stats)
		require.Zero(t, resp.Episodes)
	})

	t.Run("standing when the shoe is used up", func(t *testing.T) {
		dealt := map[string]int{"2H": 1, "3S": 1, "5D": 1}
		var seen []string
		for suit := game.Hearts; suit <= game.Spades; suit++ {
			for rank := game.Two; rank <= game.Ace; rank++ {
				card := game.Card{Rank: rank, Suit: suit}.String()
				for i := dealt[card]; i < game.DeckCount; i++ {
					seen = append(seen, card)
				}
			}
		}
		require.Len(t, seen, game.DeckCount*52-3)

		body, err := json.Marshal(DecideRequest{Hand: []string{"2H", "3S"}, Dealer: []string{"5D"}, Seen: seen, Episodes: 10})
		require.NoError(t, err)

		rec := post(t, h, string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp DecideResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "stand", resp.Action, "Nothing is left to hit from")
		require.Equal(t, 0.5, resp.Stats["stand"].Average, "Dealer keeps its five")
	})

	t.Run("rejecting bad input", func(t *testing.T) {
		cases := map[string]string{
			"malformed json":   `{"hand":`,
			"unknown field":    `{"hand":["10H"],"dealer":["9D"],"bet":5}`,
			"empty hand":       `{"hand":[],"dealer":["9D"]}`,
			"no dealer card":   `{"hand":["10H","6S"]}`,
			"unknown card":     `{"hand":["1X","6S"],"dealer":["9D"]}`,
			"negative budget":  `{"hand":["10H","6S"],"dealer":["9D"],"budget_ms":-1}`,
			"seventh ace seen": `{"hand":["AH"],"dealer":["AH"],"seen":["AH","AH","AH","AH","AH"]}`,
		}
		for name, body := range cases {
			rec := post(t, h, body)
			require.Equal(t, http.StatusBadRequest, rec.Code, name)
			require.Contains(t, rec.Body.String(), "error", name)
		}
	})

	t.Run("rejecting other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decide", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
