package searcher

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"caravan/sim"
)

type mockAction struct {
	id int
}

func (a mockAction) Kind() sim.ActionKind { return "mock" }
func (a mockAction) Key() string          { return fmt.Sprintf("mock:%d", a.id) }
func (a mockAction) TimeCost() int        { return 1 }

type mockState struct {
	actions  []sim.Action
	terminal bool
	reward   float64
	played   []sim.Action
}

func (s mockState) LegalActions() []sim.Action { return s.actions }

func (s mockState) Apply(action sim.Action) sim.State {
	next := s
	next.played = append(append([]sim.Action{}, s.played...), action)
	return next
}

func (s mockState) IsTerminal() bool { return s.terminal }
func (s mockState) Reward() float64  { return s.reward }

func TestSelectChild(t *testing.T) {
	t.Run("prefers the max UCB child", func(t *testing.T) {
		parent := &node{visits: 10}
		low := &node{parent: parent, action: mockAction{id: 0}, rewards: 1, visits: 5}
		high := &node{parent: parent, action: mockAction{id: 1}, rewards: 4, visits: 5}
		parent.children = []*node{low, high}

		got := parent.selectChild(1.0)

		require.Equal(t, high, got, "Should select the child with the higher mean value")
	})

	t.Run("unvisited child always wins", func(t *testing.T) {
		parent := &node{visits: 100}
		visited := &node{parent: parent, action: mockAction{id: 0}, rewards: 1000, visits: 99}
		fresh := &node{parent: parent, action: mockAction{id: 1}}
		parent.children = []*node{visited, fresh}

		got := parent.selectChild(1.0)

		require.Equal(t, fresh, got, "Unvisited child has infinite score and must be preferred")
	})

	t.Run("ties break to the first maximal child", func(t *testing.T) {
		parent := &node{visits: 4}
		first := &node{parent: parent, action: mockAction{id: 0}, rewards: 2, visits: 2}
		second := &node{parent: parent, action: mockAction{id: 1}, rewards: 2, visits: 2}
		parent.children = []*node{first, second}

		got := parent.selectChild(1.0)

		require.Equal(t, first, got, "Equal scores should resolve in iteration order")
	})

	t.Run("panics when the parent has no visits", func(t *testing.T) {
		parent := &node{children: []*node{{visits: 1}}}

		require.Panics(t, func() { parent.selectChild(1.0) },
			"Selecting before any backpropagation is a defect")
	})
}

func TestUCB(t *testing.T) {
	t.Run("matches the UCB1 formula", func(t *testing.T) {
		n := &node{rewards: 6, visits: 3}

		lnParent := math.Log(10)
		want := 2.0 + 1.5*math.Sqrt(lnParent/3)

		require.InDelta(t, want, n.ucb(1.5, lnParent), 1e-9)
	})

	t.Run("unvisited node scores infinite", func(t *testing.T) {
		n := &node{}

		require.True(t, math.IsInf(n.ucb(1.0, math.Log(5)), 1))
	})
}

func TestExpand(t *testing.T) {
	t.Run("pops one untried action and attaches a child", func(t *testing.T) {
		first := mockAction{id: 0}
		second := mockAction{id: 1}
		state := mockState{actions: []sim.Action{first, second}}
		n := newNode(nil, nil, state)

		require.False(t, n.isFullyExpanded(), "New node should start with untried actions")

		action := n.popUntried()
		child := n.expand(action, state.Apply(action))

		require.Equal(t, first, action, "Untried actions should pop in legal-action order")
		require.Equal(t, []*node{child}, n.children, "Expansion should attach the child")
		require.Equal(t, n, child.parent, "Child should point back at its parent")
		require.Equal(t, action, child.action, "Child should record its originating action")
		require.False(t, n.isFullyExpanded(), "One action should remain untried")

		n.expand(n.popUntried(), state)

		require.True(t, n.isFullyExpanded(), "Queue should shrink monotonically to empty")
	})

	t.Run("untried queue does not alias the state cache", func(t *testing.T) {
		state := mockState{actions: []sim.Action{mockAction{id: 0}, mockAction{id: 1}}}
		n := newNode(nil, nil, state)

		n.popUntried()

		require.Len(t, state.LegalActions(), 2, "Consuming the queue must not touch the state's actions")
	})
}

func TestUpdate(t *testing.T) {
	n := &node{rewards: 2, visits: 3}

	n.update(1.5)

	require.Equal(t, 4, n.visits, "Update should add one visit")
	require.Equal(t, 3.5, n.rewards, "Update should accumulate the reward")
}

func TestBestChild(t *testing.T) {
	t.Run("picks the most visited child", func(t *testing.T) {
		parent := &node{}
		lowValueHighVisits := &node{action: mockAction{id: 0}, rewards: 1, visits: 80}
		highValueLowVisits := &node{action: mockAction{id: 1}, rewards: 50, visits: 20}
		parent.children = []*node{highValueLowVisits, lowValueHighVisits}

		require.Equal(t, lowValueHighVisits, parent.bestChild(),
			"Robust-child rule ranks by visits, not value")
	})

	t.Run("ties break to the first maximal child", func(t *testing.T) {
		parent := &node{}
		first := &node{action: mockAction{id: 0}, visits: 10}
		second := &node{action: mockAction{id: 1}, visits: 10}
		parent.children = []*node{first, second}

		require.Equal(t, first, parent.bestChild())
	})

	t.Run("nil for a childless node", func(t *testing.T) {
		require.Nil(t, (&node{}).bestChild())
	})
}
