package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"caravan/sim"
)

func searchWorld() *sim.World {
	return &sim.World{
		Settlements: map[string]*sim.Settlement{
			"a": {
				ID: "a", Name: "Alpha", Biome: "plains",
				Connections: []sim.Connection{
					{DestinationID: "b", DestinationName: "Beta"},
					{DestinationID: "c", DestinationName: "Gamma"},
				},
				Market: &sim.Market{
					Selling: map[string]float64{"grain": 5, "cloth": 20},
					Buying:  map[string]float64{"iron": 35},
				},
			},
			"b": {
				ID: "b", Name: "Beta", Biome: "forest",
				Connections: []sim.Connection{{DestinationID: "a", DestinationName: "Alpha"}},
			},
			"c": {
				ID: "c", Name: "Gamma", Biome: "desert",
				Connections: []sim.Connection{{DestinationID: "a", DestinationName: "Alpha"}},
			},
		},
		Items: map[string]sim.Item{
			"grain": {Name: "grain", BaseValue: 3},
			"cloth": {Name: "cloth", BaseValue: 15},
			"iron":  {Name: "iron", BaseValue: 30},
		},
	}
}

func searchTrader() sim.Trader {
	return sim.Trader{
		ID:         "t1",
		Name:       "Asta",
		LocationID: "a",
		Gold:       120,
		Inventory:  map[string]int{"iron": 1},
		Visited:    []string{"a"},
	}
}

func TestSearch(t *testing.T) {
	t.Run("fixed seed and inputs give identical results", func(t *testing.T) {
		world := searchWorld()

		first := New(WithSimulations(200), WithSeed(42))
		firstAction, firstStats := first.Search(sim.NewTraderState(searchTrader(), world))

		second := New(WithSimulations(200), WithSeed(42))
		secondAction, secondStats := second.Search(sim.NewTraderState(searchTrader(), world))

		require.Equal(t, firstAction, secondAction, "Best action should be reproducible")
		require.Equal(t, firstStats, secondStats, "Stats should be reproducible")
	})

	t.Run("root accumulates one visit per simulation", func(t *testing.T) {
		engine := New(WithSimulations(150), WithSeed(7))

		_, stats := engine.Search(sim.NewTraderState(searchTrader(), searchWorld()))

		require.Equal(t, 150, stats.RootVisits,
			"Every simulation backpropagates exactly once through the root")
	})

	t.Run("a single simulation still expands a child", func(t *testing.T) {
		engine := New(WithSimulations(1), WithSeed(7))

		action, stats := engine.Search(sim.NewTraderState(searchTrader(), searchWorld()))

		require.NotNil(t, action, "Non-terminal root with legal actions must yield an action")
		require.GreaterOrEqual(t, stats.ChildrenEvaluated, 1,
			"An unvisited child has infinite priority, so the budget cannot be spent without expanding")
	})

	t.Run("chosen action is the most visited root child", func(t *testing.T) {
		engine := New(WithSimulations(300), WithSeed(11))

		action, stats := engine.Search(sim.NewTraderState(searchTrader(), searchWorld()))
		require.NotNil(t, action)

		maxVisits := 0
		for _, child := range stats.Children {
			if child.Visits > maxVisits {
				maxVisits = child.Visits
			}
		}
		for _, child := range stats.Children {
			if child.Action == action.Key() {
				require.Equal(t, maxVisits, child.Visits, "Robust-child rule picks by visit count")
			}
		}
	})

	t.Run("zero budget returns no action", func(t *testing.T) {
		engine := New(WithSimulations(0), WithSeed(3))

		action, stats := engine.Search(sim.NewTraderState(searchTrader(), searchWorld()))

		require.Nil(t, action, "No simulations means no children and no action")
		require.Zero(t, stats.ChildrenEvaluated)
		require.Zero(t, stats.RootVisits)
	})

	t.Run("terminal root runs the budget without expanding", func(t *testing.T) {
		state := mockState{terminal: true, reward: 1, actions: []sim.Action{mockAction{id: 0}}}
		engine := New(WithSimulations(50), WithSeed(3))

		action, stats := engine.Search(state)

		require.Nil(t, action, "Terminal root should report no action, not an error")
		require.True(t, stats.RootTerminal)
		require.Zero(t, stats.ChildrenEvaluated, "Terminal root must never expand")
		require.Equal(t, 50, stats.RootVisits, "Each simulation still degenerates to a root rollout")
	})

	t.Run("stats snapshot covers every root child", func(t *testing.T) {
		engine := New(WithSimulations(120), WithSeed(19))

		_, stats := engine.Search(sim.NewTraderState(searchTrader(), searchWorld()))

		require.Equal(t, len(stats.Children), stats.ChildrenEvaluated)
		totalChildVisits := 0
		for _, child := range stats.Children {
			require.Positive(t, child.Visits, "Every expanded child is visited at least once")
			totalChildVisits += child.Visits
		}
		require.Equal(t, 120, totalChildVisits,
			"Each simulation passes through exactly one root child")
	})
}

func TestRollout(t *testing.T) {
	t.Run("terminal state scores immediately", func(t *testing.T) {
		engine := New(WithSeed(5))
		state := mockState{terminal: true, reward: 3.5}

		require.Equal(t, 3.5, engine.rollout(state))
	})

	t.Run("dead end scores the reached state", func(t *testing.T) {
		engine := New(WithSeed(5))
		state := mockState{reward: -1} // Non-terminal, no legal actions

		require.Equal(t, -1.0, engine.rollout(state))
	})

	t.Run("depth cap bounds the playout", func(t *testing.T) {
		engine := New(WithSeed(5), WithRolloutDepth(4))
		state := mockState{actions: []sim.Action{mockAction{id: 0}}}

		// mockState.Apply records every action played; the rollout reward
		// comes from the final state, which has seen depth-many actions.
		final := state
		for i := 0; i < 4; i++ {
			final = final.Apply(mockAction{id: 0}).(mockState)
		}
		require.Equal(t, final.reward, engine.rollout(state))
		require.Len(t, final.played, 4)
	})
}
