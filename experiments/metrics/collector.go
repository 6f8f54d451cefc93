package metrics

import (
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Episodes     int
	FullPlayouts int // Rollouts that played at least one action
	MaxDepth     int // Deepest node reached by selection and expansion
	ShortCircuit bool
}

type RoundMetric struct {
	Table       int
	Round       int
	Payoff      float64
	PlayerValue int
	DealerValue int
	PlayerCards int
	Heat        float64 // Shoe heat when the round started
	Reshuffled  bool
	Decisions   []SearchMetric
}

// Episodes sums search episodes across the round's decisions.
func (r RoundMetric) Episodes() int {
	total := 0
	for _, d := range r.Decisions {
		total += d.Episodes
	}
	return total
}

// SearchTime sums search time across the round's decisions.
func (r RoundMetric) SearchTime() time.Duration {
	var total time.Duration
	for _, d := range r.Decisions {
		total += d.Duration
	}
	return total
}

// Collector records one search at a time; a search is single-threaded.
type Collector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	ObserveDepth(depth int)
	SetShortCircuit()
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	episodes     int
	fullPlayouts int
	maxDepth     int
	shortCircuit bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	*m = collector{startTime: time.Now()}
}

func (m *collector) AddEpisode() {
	m.episodes++
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) ObserveDepth(depth int) {
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) SetShortCircuit() {
	m.shortCircuit = true
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes,
		FullPlayouts: m.fullPlayouts,
		MaxDepth:     m.maxDepth,
		ShortCircuit: m.shortCircuit,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) ObserveDepth(int)       {}
func (m *dummyCollector) SetShortCircuit()       {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
