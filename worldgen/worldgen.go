// Package worldgen builds small deterministic worlds for demo runs and
// integration-style tests: a connected settlement graph with biomes sampled
// from a noise field, per-settlement markets, and trader spawns.
package worldgen

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/exp/slices"

	"caravan/sim"
)

var settlementNames = []string{
	"Aldermoor", "Bravet", "Cinderfall", "Dunwich", "Eastmere",
	"Fenwick", "Greyharbor", "Hollowbrook", "Ironvale", "Jasper Cross",
	"Kelding", "Larkspur", "Mirefield", "Northgate", "Oakhurst",
	"Pellam", "Quarry End", "Ravenshollow", "Stonebridge", "Thornfield",
}

var biomes = []string{"tundra", "mountain", "forest", "plains", "desert", "swamp"}

// catalog is the tradable goods list with base values.
var catalog = map[string]float64{
	"grain":  3,
	"salt":   6,
	"hides":  8,
	"timber": 10,
	"cloth":  15,
	"wine":   22,
	"iron":   30,
	"copper": 35,
	"spice":  48,
	"silk":   60,
}

// Generate builds a world with the given number of settlements. The same
// seed always produces the same world, ids included.
func Generate(seed int64, settlements int) *sim.World {
	if settlements < 2 {
		settlements = 2
	}
	if settlements > len(settlementNames) {
		settlements = len(settlementNames)
	}

	noise := opensimplex.New(seed)
	rng := rand.New(rand.NewSource(seed))

	world := &sim.World{
		Settlements: make(map[string]*sim.Settlement, settlements),
		Items:       make(map[string]sim.Item, len(catalog)),
	}
	for id, value := range catalog {
		world.Items[id] = sim.Item{Name: id, BaseValue: value}
	}

	ids := make([]string, settlements)
	for i := 0; i < settlements; i++ {
		ids[i] = stableID(seed, "settlement", i)
		world.Settlements[ids[i]] = &sim.Settlement{
			ID:     ids[i],
			Name:   settlementNames[i],
			Biome:  biomeAt(noise, i),
			Market: makeMarket(rng),
		}
	}

	// Ring backbone keeps the graph connected; chords added on top give
	// rollouts real route choices. Chord routes cross wilderness, so they
	// carry a transit path.
	for i := 0; i < settlements; i++ {
		next := (i + 1) % settlements
		if next == i || connected(world.Settlements[ids[i]], ids[next]) {
			continue
		}
		connect(world, ids[i], ids[next], nil)
	}
	for i := 0; i < settlements; i++ {
		j := rng.Intn(settlements)
		if j == i || connected(world.Settlements[ids[i]], ids[j]) {
			continue
		}
		path := []string{fmt.Sprintf("area-%d-%d", min(i, j), max(i, j))}
		connect(world, ids[i], ids[j], path)
	}

	return world
}

// SpawnTraders creates count traders scattered over the world, with sampled
// preferences and starting stock. Deterministic per seed.
func SpawnTraders(world *sim.World, count int, seed int64) []sim.Trader {
	rng := rand.New(rand.NewSource(seed + 1))

	ids := sortedSettlementIDs(world)
	goods := sortedGoods()

	traders := make([]sim.Trader, 0, count)
	for i := 0; i < count; i++ {
		home := ids[rng.Intn(len(ids))]
		trader := sim.Trader{
			ID:         stableID(seed, "trader", i),
			Name:       fmt.Sprintf("Trader %d", i+1),
			LocationID: home,
			HomeID:     home,
			Gold:       100 + float64(rng.Intn(400)),
			Inventory:  map[string]int{goods[rng.Intn(len(goods))]: 1 + rng.Intn(3)},
			Visited:    []string{home},
		}
		trader.PreferredSettlements = []string{ids[rng.Intn(len(ids))]}
		trader.PreferredBiomes = []string{biomes[rng.Intn(len(biomes))]}
		if rng.Intn(3) == 0 {
			trader.DestinationID = ids[rng.Intn(len(ids))]
		}
		traders = append(traders, trader)
	}
	return traders
}

// stableID derives a name-based uuid so generated worlds are reproducible.
func stableID(seed int64, kind string, index int) string {
	name := fmt.Sprintf("caravan/%d/%s/%d", seed, kind, index)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func biomeAt(noise opensimplex.Noise, index int) string {
	// Sample along a diagonal so neighboring settlements land in related
	// biomes. Eval2 returns [-1, 1]; scale to a bucket.
	v := noise.Eval2(float64(index)*0.35, float64(index)*0.17)
	bucket := int((v + 1) / 2 * float64(len(biomes)))
	if bucket >= len(biomes) {
		bucket = len(biomes) - 1
	}
	return biomes[bucket]
}

func makeMarket(rng *rand.Rand) *sim.Market {
	market := &sim.Market{
		Selling: make(map[string]float64),
		Buying:  make(map[string]float64),
	}
	goods := sortedGoods()
	for _, id := range goods {
		base := catalog[id]
		// Sell a good at a markup, buy it back below base, each with
		// independent odds so markets end up lopsided.
		if rng.Intn(2) == 0 {
			market.Selling[id] = base * (1.1 + rng.Float64()*0.4)
		}
		if rng.Intn(2) == 0 {
			market.Buying[id] = base * (0.7 + rng.Float64()*0.25)
		}
	}
	return market
}

func connect(world *sim.World, a, b string, path []string) {
	sa, sb := world.Settlements[a], world.Settlements[b]
	sa.Connections = append(sa.Connections, sim.Connection{
		DestinationID:   b,
		DestinationName: sb.Name,
		Path:            path,
	})
	sb.Connections = append(sb.Connections, sim.Connection{
		DestinationID:   a,
		DestinationName: sa.Name,
		Path:            path,
	})
}

func connected(s *sim.Settlement, destinationID string) bool {
	for _, conn := range s.Connections {
		if conn.DestinationID == destinationID {
			return true
		}
	}
	return false
}

func sortedSettlementIDs(world *sim.World) []string {
	ids := make([]string, 0, len(world.Settlements))
	for id := range world.Settlements {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedGoods() []string {
	goods := make([]string, 0, len(catalog))
	for id := range catalog {
		goods = append(goods, id)
	}
	slices.Sort(goods)
	return goods
}
