package sim

import "fmt"

// ActionKind discriminates the closed set of trader actions.
type ActionKind string

const (
	Move     ActionKind = "move"
	Buy      ActionKind = "buy"
	Sell     ActionKind = "sell"
	Settle   ActionKind = "settle"
	OpenShop ActionKind = "open_shop"
	Retire   ActionKind = "retire"
	Rest     ActionKind = "rest"
)

// TraderAction is a tagged union over ActionKind. Which fields are set
// depends on the kind: destination fields for Move/Settle/OpenShop, item and
// price for Buy/Sell, nothing beyond the kind for Rest and Retire.
type TraderAction struct {
	ActionKind      ActionKind
	DestinationID   string
	DestinationName string
	ItemID          string
	Price           float64
	Path            []string
	Ticks           int
}

func (a TraderAction) Kind() ActionKind {
	return a.ActionKind
}

// Key returns a stable identity for the action, suitable as a map key and
// for per-child statistics in search output.
func (a TraderAction) Key() string {
	switch a.ActionKind {
	case Move, Settle, OpenShop:
		return string(a.ActionKind) + ":" + a.DestinationID
	case Buy, Sell:
		return string(a.ActionKind) + ":" + a.ItemID
	default:
		return string(a.ActionKind)
	}
}

// TimeCost is the number of ticks the action advances the clock by.
func (a TraderAction) TimeCost() int {
	if a.Ticks <= 0 {
		return 1
	}
	return a.Ticks
}

func (a TraderAction) String() string {
	switch a.ActionKind {
	case Move:
		return fmt.Sprintf("move to %s", a.DestinationName)
	case Buy:
		return fmt.Sprintf("buy %s for %.0f", a.ItemID, a.Price)
	case Sell:
		return fmt.Sprintf("sell %s for %.0f", a.ItemID, a.Price)
	case Settle:
		return fmt.Sprintf("settle in %s", a.DestinationName)
	case OpenShop:
		return fmt.Sprintf("open shop in %s", a.DestinationName)
	default:
		return string(a.ActionKind)
	}
}
