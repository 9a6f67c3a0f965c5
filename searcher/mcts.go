package searcher

import (
	"math/rand"
	"time"

	"caravan/sim"
)

// Default search hyperparameters.
const (
	DefaultSimulations       = 100
	DefaultExplorationWeight = 1.0
	DefaultRolloutDepth      = 10
)

type Option func(*MCTS)

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations >= 0 {
			m.simulations = simulations
		}
	}
}

func WithExplorationWeight(weight float64) Option {
	return func(m *MCTS) {
		if weight > 0 {
			m.explorationWeight = weight
		}
	}
}

func WithRolloutDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.rolloutDepth = depth
		}
	}
}

// WithRand injects the engine's random source. A fixed seed plus fixed
// inputs makes the whole search deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed int64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// MCTS runs Monte Carlo Tree Search over any State implementation. One
// engine instance owns one random source and runs one search at a time;
// for parallel agents, run one engine per worker.
type MCTS struct {
	simulations       int
	explorationWeight float64
	rolloutDepth      int
	rng               *rand.Rand
}

func New(options ...Option) *MCTS {
	m := &MCTS{
		simulations:       DefaultSimulations,
		explorationWeight: DefaultExplorationWeight,
		rolloutDepth:      DefaultRolloutDepth,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return m
}

// Search builds a fresh tree from rootState and runs the configured number
// of simulations, then returns the root child with the most visits. A nil
// action means the root produced no children: a terminal root, an empty
// legal-action set, or a zero budget. The tree is private to this call and
// discarded on return.
func (m *MCTS) Search(rootState sim.State) (sim.Action, Stats) {
	root := newNode(nil, nil, rootState)

	for i := 0; i < m.simulations; i++ {
		node := root

		// Selection: descend while fully expanded and non-terminal.
		for !node.state.IsTerminal() && node.isFullyExpanded() && len(node.children) > 0 {
			node = node.selectChild(m.explorationWeight)
		}

		// Expansion: attach one untried action.
		if !node.state.IsTerminal() && !node.isFullyExpanded() {
			action := node.popUntried()
			node = node.expand(action, node.state.Apply(action))
		}

		// Rollout: random playout from the reached state.
		reward := m.rollout(node.state)

		// Backpropagation: unmodified reward on the path up to the root.
		for n := node; n != nil; n = n.parent {
			n.update(reward)
		}
	}

	stats := m.snapshot(root)
	best := root.bestChild()
	if best == nil {
		return nil, stats
	}
	return best.action, stats
}

// rollout plays uniformly random legal actions until a terminal state or
// the depth cap, then scores the state reached.
func (m *MCTS) rollout(state sim.State) float64 {
	for depth := 0; depth < m.rolloutDepth && !state.IsTerminal(); depth++ {
		legal := state.LegalActions()
		if len(legal) == 0 {
			break
		}
		state = state.Apply(legal[m.rng.Intn(len(legal))])
	}
	return state.Reward()
}
