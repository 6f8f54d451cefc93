package searcher

import (
	"fmt"
	"time"

	"blackjack/experiments/metrics"
	"blackjack/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	duration time.Duration
	episodes int
	cSquared float64
	rng      *rand.Rand
	root     *node
	metrics  metrics.Collector
	last     metrics.SearchMetric
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes runs a fixed number of iterations instead of a time budget.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithExploration(cSquared float64) Option {
	return func(m *MCTS) {
		if cSquared >= 0 {
			m.cSquared = cSquared
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cSquared: CSquared,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Decide searches from the player's view of the live round and returns the
// recommended action. The caller's hands and deck are only read.
func Decide(hand, opponent game.Hand, deck *game.Deck, budget time.Duration) game.Action {
	return NewMCTS(WithDuration(budget)).Decide(hand, opponent, deck)
}

func (m *MCTS) Decide(hand, opponent game.Hand, deck *game.Deck) game.Action {
	// Nothing beats standing on 21, and a finished hand has nothing to decide
	if hand.Value() >= game.Blackjack {
		m.metrics.Start()
		m.metrics.SetShortCircuit()
		m.last = m.metrics.Complete()
		m.root = nil
		return game.Stand
	}

	state := game.NewGameState(hand, opponent, deck, m.rng)
	return m.FindNextMove(state)
}

// FindNextMove returns the root action with the best average reward.
func (m *MCTS) FindNextMove(state game.State) game.Action {
	if state.IsTerminal() {
		panic("cannot search from a terminal state")
	}

	m.Simulate(state)
	best := m.root.bestChildByAverage()
	log.Debug().
		Stringer("action", best.action).
		Int("visits", best.visits).
		Float64("average", best.averageReward()).
		Int("episodes", m.root.visits).
		Msg("search complete")
	return best.action
}

// Simulate builds a fresh tree for state and returns the root policy.
func (m *MCTS) Simulate(state game.State) Policy {
	m.root = newNode(nil, game.NoAction, state)

	m.metrics.Start()
	if m.episodes > 0 {
		m.iterate(state)
	} else if m.duration > 0 {
		m.countdown(state)
	} else {
		panic("Must specify search episodes or duration")
	}
	m.last = m.metrics.Complete()

	return m.root.policy()
}

// Policy reports root statistics of the most recent search, nil when it was
// short-circuited.
func (m *MCTS) Policy() Policy {
	if m.root == nil {
		return nil
	}
	return m.root.policy()
}

// LastSearch reports metrics of the most recent search.
func (m *MCTS) LastSearch() metrics.SearchMetric {
	return m.last
}

func (m *MCTS) String() string {
	if m.episodes > 0 {
		return fmt.Sprintf("mcts(episodes=%d)", m.episodes)
	}
	return fmt.Sprintf("mcts(duration=%s)", m.duration)
}

func (m *MCTS) iterate(state game.State) {
	for i := 0; i < m.episodes; i++ {
		m.simulate(state)
	}
}

// countdown always completes at least one episode. The deadline is only
// checked between episodes.
func (m *MCTS) countdown(state game.State) {
	deadline := time.Now().Add(m.duration)
	for {
		m.simulate(state)
		if !time.Now().Before(deadline) {
			return
		}
	}
}

func (m *MCTS) simulate(state game.State) {
	leaf, leafState, depth := selectThenExpand(m.root, state, m.cSquared)
	m.metrics.ObserveDepth(depth)

	reward, steps := rollout(leafState, m.rng)
	if steps > 0 {
		m.metrics.AddFullPlayout()
	}

	backup(leaf, reward)
	m.metrics.AddEpisode()
}

// selectThenExpand descends until it expands a new child or reaches a
// terminal state. Each selected child's state is replayed from its parent, so
// a node may be reached as a live state after being created from a bust.
func selectThenExpand(root *node, state game.State, cSquared float64) (*node, game.State, int) {
	n := root
	depth := 0
	for !state.IsTerminal() {
		n.refresh(state)
		if !n.isFullyExpanded() {
			child, childState := n.expand(state)
			return child, childState, depth + 1
		}
		n = n.bestChildByUCT(cSquared, state.LegalActions())
		state = state.Play(n.action)
		depth++
	}
	return n, state, depth
}

// rollout plays uniformly random actions until the turn ends and returns the
// payoff with the number of actions played.
func rollout(state game.State, rng *rand.Rand) (float64, int) {
	steps := 0
	for !state.IsTerminal() {
		if steps >= MaxRolloutDepth {
			panic(fmt.Sprintf("rollout exceeded %d steps", MaxRolloutDepth))
		}
		actions := state.LegalActions()
		state = state.Play(actions[rng.Intn(len(actions))]) // Random rollout policy
		steps++
	}
	return state.Payoff(), steps
}

func backup(leaf *node, reward float64) {
	n := leaf
	for n != nil {
		n = n.backup(reward)
	}
}
