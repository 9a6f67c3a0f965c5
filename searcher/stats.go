package searcher

import "math"

// Stats reports what one Search call did: the configured budget, the root's
// accumulated visits, and a per-child snapshot taken after the last
// simulation. Tests and callers assert on this data instead of log text.
type Stats struct {
	Simulations       int         `json:"simulations"`
	ExplorationWeight float64     `json:"exploration_weight"`
	RootVisits        int         `json:"total_visits"`
	ChildrenEvaluated int         `json:"children_evaluated"`
	RootTerminal      bool        `json:"root_terminal,omitempty"`
	Children          []ChildStat `json:"children,omitempty"`
}

// ChildStat is the final standing of one root child.
type ChildStat struct {
	Action    string  `json:"action"`
	Visits    int     `json:"visits"`
	MeanValue float64 `json:"mean_value"`
	UCB       float64 `json:"ucb"`
}

func (m *MCTS) snapshot(root *node) Stats {
	stats := Stats{
		Simulations:       m.simulations,
		ExplorationWeight: m.explorationWeight,
		RootVisits:        root.visits,
		ChildrenEvaluated: len(root.children),
		RootTerminal:      root.state.IsTerminal(),
	}
	if len(root.children) == 0 {
		return stats
	}

	lnParent := 0.0
	if root.visits > 0 {
		lnParent = math.Log(float64(root.visits))
	}
	stats.Children = make([]ChildStat, 0, len(root.children))
	for _, child := range root.children {
		mean := 0.0
		if child.visits > 0 {
			mean = child.rewards / float64(child.visits)
		}
		stats.Children = append(stats.Children, ChildStat{
			Action:    child.action.Key(),
			Visits:    child.visits,
			MeanValue: mean,
			UCB:       child.ucb(m.explorationWeight, lnParent),
		})
	}
	return stats
}
