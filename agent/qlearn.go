package agent

import (
	"fmt"
	"math"

	"blackjack/game"
	"blackjack/utils"

	"golang.org/x/exp/rand"
)

const (
	DefaultAlpha       = 0.01
	DefaultTemperature = 0.1
	maxHeat            = 2
)

type qKey struct {
	value  int
	soft   bool
	upCard int // Dealer up-card points, 0 before the deal
	heat   int // Rounded shoe heat
}

// qValues holds Q(hit) then Q(stand)
type qValues [2]float64

type step struct {
	key    qKey
	action game.Action
}

// QLearn is a tabular learner over the player's value, the dealer's up-card
// and the heat of the shoe. Q values estimate the final round payoff.
type QLearn struct {
	q           map[qKey]*qValues
	alpha       float64
	temperature float64
	training    bool
	rng         *rand.Rand
	episode     []step
}

func NewQLearn(alpha, temperature float64, rng *rand.Rand) *QLearn {
	if alpha <= 0 || alpha > 1 {
		panic("alpha must be in (0, 1]")
	}
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &QLearn{
		q:           make(map[qKey]*qValues),
		alpha:       alpha,
		temperature: temperature,
		rng:         rng,
	}
}

// SetTraining switches between exploring and greedy play. Leaving training
// drops any unfinished round.
func (a *QLearn) SetTraining(training bool) {
	a.training = training
	a.episode = a.episode[:0]
}

func (a *QLearn) Hit(hand, opponent game.Hand, deck *game.Deck) bool {
	key := newQKey(hand, opponent, deck)
	values := a.values(key)

	var action game.Action
	if a.training {
		action = sample(adjustTemperature(values, a.temperature), a.rng)
		a.episode = append(a.episode, step{key: key, action: action})
	} else {
		action = greedy(values)
	}
	return action == game.Hit
}

// EndRound moves every Q value visited this round towards the payoff.
func (a *QLearn) EndRound(payoff float64) {
	if !a.training {
		return
	}
	for _, s := range a.episode {
		values := a.values(s.key)
		i := index(s.action)
		values[i] += a.alpha * (payoff - values[i])
	}
	a.episode = a.episode[:0]
}

// States is the number of distinct situations seen so far.
func (a *QLearn) States() int {
	return len(a.q)
}

func (a *QLearn) String() string {
	return fmt.Sprintf("qlearn(alpha=%g,states=%d)", a.alpha, len(a.q))
}

func (a *QLearn) values(key qKey) *qValues {
	values, ok := a.q[key]
	if !ok {
		values = &qValues{game.Tie, game.Tie}
		a.q[key] = values
	}
	return values
}

func newQKey(hand, opponent game.Hand, deck *game.Deck) qKey {
	upCard := 0
	if cards := opponent.Cards(); len(cards) > 0 {
		upCard = cards[0].Rank.Points()
	}
	return qKey{
		value:  hand.Value(),
		soft:   hand.IsSoft(),
		upCard: upCard,
		heat:   utils.Clamp(int(math.Round(deck.Heat())), -maxHeat, maxHeat),
	}
}

func index(action game.Action) int {
	if action == game.Hit {
		return 0
	}
	return 1
}

// greedy stands on ties
func greedy(values *qValues) game.Action {
	if values[0] > values[1] {
		return game.Hit
	}
	return game.Stand
}

// adjustTemperature turns Q values into a softmax distribution. Lower
// temperatures favor the better action more sharply.
func adjustTemperature(values *qValues, temperature float64) qValues {
	// Shift by the max for numerical stability
	top := math.Max(values[0], values[1])
	var probs qValues
	sum := 0.0
	for i, q := range values {
		probs[i] = math.Exp((q - top) / temperature)
		sum += probs[i]
	}
	// Normalize
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func sample(probs qValues, rng *rand.Rand) game.Action {
	if rng.Float64() < probs[0] {
		return game.Hit
	}
	return game.Stand
}
