package searcher

import (
	"math"

	"caravan/sim"
)

// node is one vertex of the search tree. A node exclusively owns its
// children; parent is a back-reference used only during backpropagation.
// The whole tree is discarded when Search returns.
type node struct {
	parent   *node
	action   sim.Action // Action that led to this node; nil at the root
	state    sim.State
	children []*node
	untried  []sim.Action
	rewards  float64
	visits   int
}

func newNode(parent *node, action sim.Action, state sim.State) *node {
	// Copy the legal-action list: the untried queue is consumed during
	// expansion and must not mutate the state's cache.
	legal := state.LegalActions()
	untried := make([]sim.Action, len(legal))
	copy(untried, legal)

	return &node{
		parent:  parent,
		action:  action,
		state:   state,
		untried: untried,
	}
}

func (n *node) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// popUntried removes and returns the next untried action. The queue shrinks
// monotonically to empty; order is the state's legal-action order, so a
// fixed root yields a fixed expansion sequence.
func (n *node) popUntried() sim.Action {
	action := n.untried[0]
	n.untried = n.untried[1:]
	return action
}

// expand attaches a new child reached by action.
func (n *node) expand(action sim.Action, nextState sim.State) *node {
	child := newNode(n, action, nextState)
	n.children = append(n.children, child)
	return child
}

func (n *node) update(reward float64) {
	n.visits++
	n.rewards += reward
}

// selectChild returns the child maximizing UCB1. An unvisited child scores
// +Inf and is always preferred; ties break to the first maximal child in
// insertion order.
func (n *node) selectChild(explorationWeight float64) *node {
	if n.visits == 0 {
		panic("selecting from a node with no visits")
	}
	lnParent := math.Log(float64(n.visits))

	var best *node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		score := child.ucb(explorationWeight, lnParent)
		if score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

func (n *node) ucb(explorationWeight, lnParent float64) float64 {
	if n.visits == 0 {
		return math.Inf(1)
	}
	visits := float64(n.visits)
	return n.rewards/visits + explorationWeight*math.Sqrt(lnParent/visits)
}

// bestChild applies the robust-child rule: highest visit count, ties broken
// first-maximal. Returns nil if the node has no children.
func (n *node) bestChild() *node {
	var best *node
	for _, child := range n.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}
