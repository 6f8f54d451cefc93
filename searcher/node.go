package searcher

import (
	"blackjack/game"
)

// node stores the action that leads to it but no state. Its state is rebuilt
// from the parent on every traversal so a hit edge draws a new card each time.
type node struct {
	parent     *node // Non-owning
	action     game.Action
	unexpanded []game.Action
	children   []*node
	rewards    float64
	visits     int
}

func newNode(parent *node, action game.Action, state game.State) *node {
	moves := state.LegalActions()
	unexpanded := make([]game.Action, len(moves))
	copy(unexpanded, moves)

	return &node{
		parent:     parent,
		action:     action,
		unexpanded: unexpanded,
		children:   make([]*node, 0, len(moves)),
	}
}

// refresh recomputes the untried actions for the state reaching n on this
// visit. A hit edge can bust on one draw and stay live on the next, so the
// actions known at creation may be stale.
func (n *node) refresh(state game.State) {
	n.unexpanded = n.unexpanded[:0]
	for _, action := range state.LegalActions() {
		if n.child(action) == nil {
			n.unexpanded = append(n.unexpanded, action)
		}
	}
}

func (n *node) child(action game.Action) *node {
	for _, c := range n.children {
		if c.action == action {
			return c
		}
	}
	return nil
}

func (n *node) isFullyExpanded() bool {
	return len(n.unexpanded) == 0
}

func (n *node) averageReward() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

func (n *node) score(policy *uct) float64 {
	return policy.evaluate(n.rewards, float64(n.visits))
}

// expand attaches a child for the next untried action and returns it with its
// freshly played state.
func (n *node) expand(state game.State) (*node, game.State) {
	if n.isFullyExpanded() {
		panic("node is fully expanded")
	}
	action := n.unexpanded[0]
	n.unexpanded = n.unexpanded[1:]

	next := state.Play(action)
	child := newNode(n, action, next)
	n.children = append(n.children, child)
	return child, next
}

// bestChildByUCT picks the first child with the highest UCT score among the
// children reachable by actions. Every child has been backed up once before
// its parent is fully expanded.
func (n *node) bestChildByUCT(cSquared float64, actions []game.Action) *node {
	var candidates []*node
	for _, action := range actions {
		if c := n.child(action); c != nil {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		panic("node has no children")
	}

	policy := newUCT(cSquared, float64(n.visits))
	best := candidates[0]
	bestScore := best.score(policy)
	for _, child := range candidates[1:] {
		if score := child.score(policy); score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

func (n *node) bestChildByAverage() *node {
	if len(n.children) == 0 {
		panic("node has no children")
	}

	best := n.children[0]
	for _, child := range n.children[1:] {
		if child.averageReward() > best.averageReward() {
			best = child
		}
	}
	return best
}

// backup records a payoff and returns the parent, nil at the root.
func (n *node) backup(reward float64) *node {
	n.rewards += reward
	n.visits++
	return n.parent
}

func (n *node) policy() Policy {
	policy := make(Policy, len(n.children))
	for _, child := range n.children {
		policy[child.action] = Stats{Visits: child.visits, Average: child.averageReward()}
	}
	return policy
}
