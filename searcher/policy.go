package searcher

import "math"

// uct scores children of one parent. Rewards are round payoffs in [0, 1], the
// range the default CSquared of 2 is tuned for.
type uct struct {
	explore float64 // c^2 * ln(N), shared by all children of the parent
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{explore: cSquared * math.Log(N)}
}

// evaluate returns the mean payoff q/n plus the exploration bonus.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.explore/n)
}
