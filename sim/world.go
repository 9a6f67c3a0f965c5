package sim

// World is the read-only slice of world context a trader decision depends
// on: the settlement registry with connectivity and market data, and the
// item catalog. A World is shared by handle across every state derived from
// the same root; nothing in the search ever writes to it.
type World struct {
	Settlements map[string]*Settlement
	Items       map[string]Item
}

// Settlement is one node of the settlement graph.
type Settlement struct {
	ID          string
	Name        string
	Biome       string
	Connections []Connection
	Market      *Market
	// Extra carries data the search does not model. Decision code must not
	// read from it; it exists so callers can round-trip unmodeled fields.
	Extra map[string]any
}

// Connection is a directed edge to a reachable settlement. Path lists the
// intermediate areas a trader crosses in transit.
type Connection struct {
	DestinationID   string
	DestinationName string
	Path            []string
}

// Market holds per-settlement trade data: items the settlement sells to
// traders and items it buys from them, both keyed by item id with prices.
type Market struct {
	Selling map[string]float64
	Buying  map[string]float64
}

// Item is an entry of the global item catalog.
type Item struct {
	Name      string
	BaseValue float64
}

const defaultItemValue = 5.0

func (w *World) settlement(id string) *Settlement {
	if w == nil || id == "" {
		return nil
	}
	return w.Settlements[id]
}

// SettlementName resolves a settlement id to its display name, falling back
// to the id itself for unknown settlements.
func (w *World) SettlementName(id string) string {
	if s := w.settlement(id); s != nil && s.Name != "" {
		return s.Name
	}
	return id
}

// Biome returns the settlement's biome, or "" if unknown.
func (w *World) Biome(id string) string {
	if s := w.settlement(id); s != nil {
		return s.Biome
	}
	return ""
}

// ItemValue returns the catalog base value of an item, with a flat default
// for items missing from the catalog.
func (w *World) ItemValue(id string) float64 {
	if w != nil {
		if item, ok := w.Items[id]; ok {
			return item.BaseValue
		}
	}
	return defaultItemValue
}

func (w *World) market(id string) *Market {
	if s := w.settlement(id); s != nil {
		return s.Market
	}
	return nil
}

// marketSize is the number of distinct trade entries at a settlement, used
// to bucket market quality in the desirability score.
func (w *World) marketSize(id string) int {
	m := w.market(id)
	if m == nil {
		return 0
	}
	return len(m.Selling) + len(m.Buying)
}
