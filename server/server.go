package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blackjack/game"
	"blackjack/searcher"
	"blackjack/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	MaxBudget      = 5 * time.Second
	MaxEpisodes    = 1_000_000
	maxRequestBody = 64 << 10
)

type DecideRequest struct {
	Hand     []string `json:"hand"`
	Dealer   []string `json:"dealer"`
	Seen     []string `json:"seen,omitempty"` // Cards already out of the shoe besides both hands
	BudgetMS int      `json:"budget_ms,omitempty"`
	Episodes int      `json:"episodes,omitempty"`
}

type DecideResponse struct {
	Action   string                    `json:"action"`
	Value    int                       `json:"value"`
	Stats    map[string]searcher.Stats `json:"stats,omitempty"`
	Episodes int                       `json:"episodes"`
	Elapsed  string                    `json:"elapsed"`
}

type Server struct {
	budget time.Duration
	router chi.Router
}

// New returns a server searching for budget per request unless the request
// asks for its own.
func New(budget time.Duration) *Server {
	s := &Server{budget: budget}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/decide", s.handleDecide)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Dur("budget", s.budget).Msg("decision server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), MaxBudget)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req DecideRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	hand, dealer, deck, err := buildRound(req, rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	options := []searcher.Option{searcher.WithRand(rng), searcher.WithMetrics()}
	if req.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(utils.Clamp(req.Episodes, 1, MaxEpisodes)))
	} else {
		budget := s.budget
		if req.BudgetMS > 0 {
			budget = time.Duration(req.BudgetMS) * time.Millisecond
		}
		options = append(options, searcher.WithDuration(min(budget, MaxBudget)))
	}

	m := searcher.NewMCTS(options...)
	action := m.Decide(hand, dealer, deck)
	search := m.LastSearch()

	resp := DecideResponse{
		Action:   action.String(),
		Value:    hand.Value(),
		Episodes: search.Episodes,
		Elapsed:  search.Duration.String(),
	}
	if policy := m.Policy(); policy != nil {
		resp.Stats = make(map[string]searcher.Stats, len(policy))
		for a, stats := range policy {
			resp.Stats[a.String()] = stats
		}
	}

	log.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Stringer("hand", hand).
		Stringer("dealer", dealer).
		Str("action", resp.Action).
		Int("episodes", resp.Episodes).
		Msg("decided")
	writeJSON(w, http.StatusOK, resp)
}

// buildRound rebuilds the player's view of the round: a full shoe minus every
// card known to be dealt.
func buildRound(req DecideRequest, rng *rand.Rand) (game.Hand, game.Hand, *game.Deck, error) {
	if len(req.Hand) == 0 {
		return game.Hand{}, game.Hand{}, nil, errors.New("hand must hold at least one card")
	}
	if len(req.Dealer) == 0 {
		return game.Hand{}, game.Hand{}, nil, errors.New("dealer must show at least one card")
	}
	if req.BudgetMS < 0 || req.Episodes < 0 {
		return game.Hand{}, game.Hand{}, nil, errors.New("budget_ms and episodes cannot be negative")
	}

	handCards, err := game.ParseCards(req.Hand)
	if err != nil {
		return game.Hand{}, game.Hand{}, nil, fmt.Errorf("hand: %w", err)
	}
	dealerCards, err := game.ParseCards(req.Dealer)
	if err != nil {
		return game.Hand{}, game.Hand{}, nil, fmt.Errorf("dealer: %w", err)
	}
	seen, err := game.ParseCards(req.Seen)
	if err != nil {
		return game.Hand{}, game.Hand{}, nil, fmt.Errorf("seen: %w", err)
	}

	deck := game.NewDeck(rng)
	for _, cards := range [][]game.Card{handCards, dealerCards, seen} {
		for _, card := range cards {
			if err := deck.Remove(card); err != nil {
				return game.Hand{}, game.Hand{}, nil, err
			}
		}
	}
	return game.NewHand(handCards...), game.NewHand(dealerCards...), deck, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
