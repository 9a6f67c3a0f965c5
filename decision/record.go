package decision

import (
	"fmt"

	"caravan/searcher"
	"caravan/sim"
)

// Status classifies a decision outcome. Recoverable failures surface here
// rather than as errors, so a batch runner can continue past one bad agent.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNoAction Status = "no_action"
	StatusError    Status = "error"
)

// KindNone marks a record that carries no action.
const KindNone sim.ActionKind = "none"

// Stats extends the engine's search stats with the facade's fallback flag.
type Stats struct {
	searcher.Stats
	FallbackUsed bool `json:"fallback_used"`
}

// Record is the decision handed back to the orchestration layer. Which
// payload fields are set depends on ActionKind.
type Record struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`

	TraderID   string         `json:"trader_id"`
	TraderName string         `json:"trader_name,omitempty"`
	ActionKind sim.ActionKind `json:"action_kind"`

	DestinationID   string   `json:"next_settlement_id,omitempty"`
	DestinationName string   `json:"next_settlement_name,omitempty"`
	Path            []string `json:"path,omitempty"`
	ItemID          string   `json:"item_id,omitempty"`
	Price           float64  `json:"price,omitempty"`
	SettlementID    string   `json:"settlement_id,omitempty"`
	SettlementName  string   `json:"settlement_name,omitempty"`

	Stats Stats `json:"mcts_stats"`
}

// setAction fills the kind-discriminated payload fields from an action.
func (r *Record) setAction(action sim.Action) {
	r.ActionKind = action.Kind()
	a, ok := action.(sim.TraderAction)
	if !ok {
		return
	}
	switch a.ActionKind {
	case sim.Move:
		r.DestinationID = a.DestinationID
		r.DestinationName = a.DestinationName
		r.Path = a.Path
	case sim.Buy, sim.Sell:
		r.ItemID = a.ItemID
		r.Price = a.Price
	case sim.Settle, sim.OpenShop:
		r.SettlementID = a.DestinationID
		r.SettlementName = a.DestinationName
	}
}

// ActionFromRecord reconstructs the chosen action from its record form.
// Kind and payload round-trip exactly.
func ActionFromRecord(r Record) (sim.TraderAction, error) {
	switch r.ActionKind {
	case sim.Move:
		return sim.TraderAction{
			ActionKind:      sim.Move,
			DestinationID:   r.DestinationID,
			DestinationName: r.DestinationName,
			Path:            r.Path,
		}, nil
	case sim.Buy, sim.Sell:
		return sim.TraderAction{ActionKind: r.ActionKind, ItemID: r.ItemID, Price: r.Price}, nil
	case sim.Settle, sim.OpenShop:
		return sim.TraderAction{
			ActionKind:      r.ActionKind,
			DestinationID:   r.SettlementID,
			DestinationName: r.SettlementName,
		}, nil
	case sim.Rest, sim.Retire:
		return sim.TraderAction{ActionKind: r.ActionKind}, nil
	default:
		return sim.TraderAction{}, fmt.Errorf("record carries no action (kind %q)", r.ActionKind)
	}
}
