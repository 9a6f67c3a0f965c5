package sim

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Thresholds and reward weights for the trader model.
const (
	settleGoldThreshold  = 500.0
	settleScoreThreshold = 0.7
	shopGoldThreshold    = 1000.0
	shopScoreThreshold   = 0.8
	retireGoldThreshold  = 2000.0
	shopStartupCost      = 500.0

	fullInventorySize = 5
	tickHorizon       = 100

	goldWeight        = 0.1
	inventoryWeight   = 0.05
	explorationWeight = 2.0
	tickPenalty       = 0.1
	goalBonus         = 20.0
	preferredBonus    = 10.0
	biomeBonus        = 5.0
	retirementBase    = 100.0
	shopBase          = 200.0
	settledBase       = 50.0
)

// Trader is the agent snapshot a decision starts from. The search never
// mutates a Trader it was handed; transitions copy the substructures they
// change and share the rest.
type Trader struct {
	ID   string
	Name string

	LocationID    string
	DestinationID string
	HomeID        string

	Gold      float64
	Inventory map[string]int

	PreferredSettlements []string
	PreferredBiomes      []string
	Visited              []string

	Travelling bool
	Settled    bool
	HasShop    bool
	Retired    bool

	// GoalReached records that the declared destination was arrived at.
	// DestinationID is cleared on arrival, so the flag is what keeps the
	// goal bonus and the full-inventory terminal check alive afterwards.
	GoalReached bool

	ShopLocationID string
}

// clone copies the trader's owned substructures so states derived from it
// never alias the caller's maps and slices.
func (t Trader) clone() Trader {
	t.Inventory = maps.Clone(t.Inventory)
	t.PreferredSettlements = slices.Clone(t.PreferredSettlements)
	t.PreferredBiomes = slices.Clone(t.PreferredBiomes)
	t.Visited = slices.Clone(t.Visited)
	return t
}

// TraderState implements State over a Trader and a read-only World handle.
// States are values: Apply returns a new state and never touches the
// receiver beyond its one-time legal-action cache.
type TraderState struct {
	trader Trader
	world  *World
	ticks  int

	legal     []Action
	legalDone bool
}

// NewTraderState builds the root state for one search. The trader snapshot
// is copied; the world is shared by handle.
func NewTraderState(trader Trader, world *World) *TraderState {
	trader = trader.clone()
	if trader.DestinationID != "" && trader.DestinationID == trader.LocationID {
		trader.DestinationID = ""
		trader.GoalReached = true
	}
	return &TraderState{trader: trader, world: world}
}

// Trader returns the agent record backing this state.
func (s *TraderState) Trader() Trader { return s.trader }

// Ticks returns the elapsed simulated time since the root state.
func (s *TraderState) Ticks() int { return s.ticks }

// LegalActions derives the actions this state permits. The result is
// computed once per state instance and cached; the engine calls it
// repeatedly during selection and rollout.
func (s *TraderState) LegalActions() []Action {
	if s.legalDone {
		return s.legal
	}
	s.legal = s.deriveLegalActions()
	s.legalDone = true
	return s.legal
}

func (s *TraderState) deriveLegalActions() []Action {
	var actions []Action

	// A retired trader only idles.
	if s.trader.Retired {
		return []Action{TraderAction{ActionKind: Rest}}
	}

	here := s.world.settlement(s.trader.LocationID)

	// Movement along the settlement graph, unless settled down.
	if here != nil && !s.trader.Settled {
		for _, conn := range here.Connections {
			if conn.DestinationID == s.trader.LocationID {
				continue // Self-loop
			}
			actions = append(actions, TraderAction{
				ActionKind:      Move,
				DestinationID:   conn.DestinationID,
				DestinationName: conn.DestinationName,
				Path:            conn.Path,
			})
		}
	}

	// Trades at the local market. Map keys are visited in sorted order so
	// the action list is stable across runs.
	if here != nil && here.Market != nil {
		for _, itemID := range sortedKeys(here.Market.Selling) {
			price := here.Market.Selling[itemID]
			if s.trader.Gold >= price {
				actions = append(actions, TraderAction{ActionKind: Buy, ItemID: itemID, Price: price})
			}
		}
		for _, itemID := range sortedKeys(s.trader.Inventory) {
			if s.trader.Inventory[itemID] <= 0 {
				continue
			}
			if price, ok := here.Market.Buying[itemID]; ok {
				actions = append(actions, TraderAction{ActionKind: Sell, ItemID: itemID, Price: price})
			}
		}
	}

	// Lifecycle actions, gated by wealth and how much the trader likes the
	// current settlement.
	if here != nil {
		score := s.desirability(here.ID)
		if s.trader.Gold >= settleGoldThreshold && score >= settleScoreThreshold {
			actions = append(actions, TraderAction{ActionKind: Settle, DestinationID: here.ID, DestinationName: here.Name})
		}
		if s.trader.Gold >= shopGoldThreshold && score >= shopScoreThreshold {
			actions = append(actions, TraderAction{ActionKind: OpenShop, DestinationID: here.ID, DestinationName: here.Name})
		}
		if s.trader.Gold >= retireGoldThreshold {
			actions = append(actions, TraderAction{ActionKind: Retire})
		}
	}

	if !s.trader.Travelling {
		actions = append(actions, TraderAction{ActionKind: Rest})
	}

	return actions
}

// desirability scores how attractive a settlement is to this trader on a
// capped [0,1] scale: preferred-settlement membership, preferred-biome
// match, and market size each add to a 0.5 base.
func (s *TraderState) desirability(settlementID string) float64 {
	score := 0.5
	if slices.Contains(s.trader.PreferredSettlements, settlementID) {
		score += 0.3
	}
	if biome := s.world.Biome(settlementID); biome != "" && slices.Contains(s.trader.PreferredBiomes, biome) {
		score += 0.2
	}
	switch size := s.world.marketSize(settlementID); {
	case size > 20:
		score += 0.2
	case size > 10:
		score += 0.1
	}
	return min(score, 1.0)
}

// Apply transitions to a new state. Only the substructures the action
// mutates are copied; everything else is shared with the receiver, which is
// safe because no state is ever written to after construction.
func (s *TraderState) Apply(action Action) State {
	a := action.(TraderAction)
	next := &TraderState{
		trader: s.trader,
		world:  s.world,
		ticks:  s.ticks + action.TimeCost(),
	}

	switch a.ActionKind {
	case Move:
		next.trader.LocationID = a.DestinationID
		if !slices.Contains(next.trader.Visited, a.DestinationID) {
			visited := make([]string, 0, len(next.trader.Visited)+1)
			visited = append(visited, next.trader.Visited...)
			next.trader.Visited = append(visited, a.DestinationID)
		}
		if next.trader.DestinationID != "" && next.trader.DestinationID == a.DestinationID {
			next.trader.DestinationID = ""
			next.trader.GoalReached = true
		}
		next.trader.Travelling = len(a.Path) > 0
	case Buy:
		next.trader.Gold -= a.Price
		inventory := maps.Clone(next.trader.Inventory)
		if inventory == nil {
			inventory = make(map[string]int, 1)
		}
		inventory[a.ItemID]++
		next.trader.Inventory = inventory
	case Sell:
		next.trader.Gold += a.Price
		inventory := maps.Clone(next.trader.Inventory)
		if inventory[a.ItemID] <= 1 {
			delete(inventory, a.ItemID)
		} else {
			inventory[a.ItemID]--
		}
		next.trader.Inventory = inventory
	case Settle:
		next.trader.Settled = true
		next.trader.Travelling = false
	case OpenShop:
		next.trader.HasShop = true
		next.trader.ShopLocationID = a.DestinationID
		next.trader.Settled = true
		next.trader.Travelling = false
		next.trader.Gold -= shopStartupCost
	case Retire:
		next.trader.Retired = true
		next.trader.Travelling = false
	case Rest:
		// Only the time cost applies.
	}

	return next
}

// IsTerminal reports whether the plan has reached a natural stopping point.
// Any one condition suffices; the tick horizon bounds rollout cost.
func (s *TraderState) IsTerminal() bool {
	if s.trader.Retired || s.trader.HasShop {
		return true
	}
	if n := len(s.world.Settlements); n > 0 && len(s.trader.Visited) >= n {
		return true
	}
	if s.trader.GoalReached && len(s.trader.Inventory) >= fullInventorySize {
		return true
	}
	return s.ticks > tickHorizon
}

// Reward scores the state for backpropagation. Pure: the same state value
// always produces the same number.
func (s *TraderState) Reward() float64 {
	reward := s.trader.Gold * goldWeight

	if s.trader.Retired {
		reward += retirementBase * (s.trader.Gold / 1000.0)
	}
	if s.trader.HasShop {
		bonus := shopBase
		if s.trader.ShopLocationID != "" {
			bonus *= s.desirability(s.trader.ShopLocationID)
		}
		reward += bonus
	}
	if s.trader.Settled && !s.trader.HasShop {
		reward += settledBase * s.desirability(s.trader.LocationID)
	}

	inventoryValue := 0.0
	for itemID, count := range s.trader.Inventory {
		inventoryValue += s.world.ItemValue(itemID) * float64(count)
	}
	reward += inventoryValue * inventoryWeight

	if slices.Contains(s.trader.PreferredSettlements, s.trader.LocationID) {
		reward += preferredBonus
	}
	if biome := s.world.Biome(s.trader.LocationID); biome != "" && slices.Contains(s.trader.PreferredBiomes, biome) {
		reward += biomeBonus
	}

	reward += float64(len(s.trader.Visited)) * explorationWeight

	if s.trader.GoalReached {
		reward += goalBonus
	}

	return reward - float64(s.ticks)*tickPenalty
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
