// Package snapshot decodes the agent and world documents the decision core
// consumes. Incoming JSON is validated against an embedded schema before
// decoding, so malformed input is rejected up front with a useful error
// instead of surfacing as nonsense mid-search.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"caravan/sim"
)

//go:embed snapshot.schema.json
var schemaDoc string

var schema = jsonschema.MustCompileString("snapshot.schema.json", schemaDoc)

type traderDoc struct {
	ID                   string         `json:"trader_id"`
	Name                 string         `json:"name"`
	LocationID           string         `json:"current_settlement_id"`
	DestinationID        string         `json:"destination_id"`
	HomeID               string         `json:"home_settlement_id"`
	Gold                 float64        `json:"gold"`
	Inventory            map[string]int `json:"inventory"`
	PreferredSettlements []string       `json:"preferred_settlements"`
	PreferredBiomes      []string       `json:"preferred_biomes"`
	Visited              []string       `json:"visited_settlements"`
	Travelling           bool           `json:"is_travelling"`
	Settled              bool           `json:"is_settled"`
	HasShop              bool           `json:"has_shop"`
	Retired              bool           `json:"is_retired"`
	ShopLocationID       string         `json:"shop_settlement_id"`
}

type settlementDoc struct {
	Name        string          `json:"name"`
	Biome       string          `json:"biome"`
	Connections []connectionDoc `json:"connections"`
	Market      *marketDoc      `json:"market"`
}

type connectionDoc struct {
	DestinationID   string   `json:"destination_id"`
	DestinationName string   `json:"destination_name"`
	Path            []string `json:"path"`
}

type marketDoc struct {
	Selling map[string]float64 `json:"selling"`
	Buying  map[string]float64 `json:"buying"`
}

type itemDoc struct {
	Name      string  `json:"name"`
	BaseValue float64 `json:"base_value"`
}

type worldDoc struct {
	Settlements map[string]settlementDoc `json:"settlements"`
	Items       map[string]itemDoc       `json:"items"`
}

type document struct {
	Trader traderDoc `json:"trader"`
	World  worldDoc  `json:"world"`
}

// Parse validates and decodes one trader+world snapshot document.
func Parse(data []byte) (sim.Trader, *sim.World, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return sim.Trader{}, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return sim.Trader{}, nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return sim.Trader{}, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return doc.Trader.toSim(), doc.World.toSim(), nil
}

// Load reads and parses a snapshot document from disk.
func Load(path string) (sim.Trader, *sim.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Trader{}, nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

func (d traderDoc) toSim() sim.Trader {
	return sim.Trader{
		ID:                   d.ID,
		Name:                 d.Name,
		LocationID:           d.LocationID,
		DestinationID:        d.DestinationID,
		HomeID:               d.HomeID,
		Gold:                 d.Gold,
		Inventory:            d.Inventory,
		PreferredSettlements: d.PreferredSettlements,
		PreferredBiomes:      d.PreferredBiomes,
		Visited:              d.Visited,
		Travelling:           d.Travelling,
		Settled:              d.Settled,
		HasShop:              d.HasShop,
		Retired:              d.Retired,
		ShopLocationID:       d.ShopLocationID,
	}
}

func (d worldDoc) toSim() *sim.World {
	world := &sim.World{
		Settlements: make(map[string]*sim.Settlement, len(d.Settlements)),
		Items:       make(map[string]sim.Item, len(d.Items)),
	}
	for id, s := range d.Settlements {
		settlement := &sim.Settlement{
			ID:    id,
			Name:  s.Name,
			Biome: s.Biome,
		}
		for _, c := range s.Connections {
			settlement.Connections = append(settlement.Connections, sim.Connection{
				DestinationID:   c.DestinationID,
				DestinationName: c.DestinationName,
				Path:            c.Path,
			})
		}
		if s.Market != nil {
			settlement.Market = &sim.Market{Selling: s.Market.Selling, Buying: s.Market.Buying}
		}
		world.Settlements[id] = settlement
	}
	for id, item := range d.Items {
		world.Items[id] = sim.Item{Name: item.Name, BaseValue: item.BaseValue}
	}
	return world
}
