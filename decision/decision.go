// Package decision assembles a search state from agent and world snapshots,
// runs the MCTS engine over it, and formats the outcome as a structured
// record for the orchestration layer.
package decision

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"caravan/searcher"
	"caravan/sim"
)

type Option func(*Maker)

func WithSimulations(simulations int) Option {
	return func(m *Maker) {
		if simulations >= 0 {
			m.simulations = simulations
		}
	}
}

func WithExplorationWeight(weight float64) Option {
	return func(m *Maker) {
		if weight > 0 {
			m.explorationWeight = weight
		}
	}
}

// WithRand injects the random source handed to the engine. One maker plus
// one rng must not be shared across goroutines.
func WithRand(rng *rand.Rand) Option {
	return func(m *Maker) {
		m.rng = rng
	}
}

// Maker makes decisions for trader agents. It owns no persistent state
// between calls; every Decide builds a fresh root and a fresh tree.
type Maker struct {
	simulations       int
	explorationWeight float64
	rng               *rand.Rand
}

func NewMaker(options ...Option) *Maker {
	m := &Maker{
		simulations:       searcher.DefaultSimulations,
		explorationWeight: searcher.DefaultExplorationWeight,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Decide picks the next action for one trader against a read-only world
// snapshot. All failure modes come back as a status on the record; Decide
// only panics if the state model itself is defective.
func (m *Maker) Decide(trader sim.Trader, world *sim.World) Record {
	record := Record{
		TraderID:   trader.ID,
		TraderName: trader.Name,
		ActionKind: KindNone,
	}

	// Malformed input fails fast, before any search.
	if trader.ID == "" {
		record.Status = StatusError
		record.Reason = "trader snapshot has no id"
		return record
	}
	if world == nil {
		record.Status = StatusError
		record.Reason = "world snapshot is missing"
		return record
	}

	root := sim.NewTraderState(trader, world)
	legal := root.LegalActions()

	if len(legal) == 0 {
		record.Status = StatusNoAction
		record.Reason = "no legal actions"
		return record
	}
	if len(legal) == 1 {
		// Forced move, nothing to search. Covers the retired case, where
		// resting is the only option.
		record.Status = StatusSuccess
		record.Reason = "only legal action"
		record.setAction(legal[0])
		return record
	}

	engine := searcher.New(
		searcher.WithSimulations(m.simulations),
		searcher.WithExplorationWeight(m.explorationWeight),
		searcher.WithRand(m.rng),
	)
	action, stats := engine.Search(root)
	record.Stats = Stats{Stats: stats}

	if action == nil {
		if stats.RootTerminal {
			record.Status = StatusNoAction
			record.Reason = "terminal at root"
			return record
		}
		if m.simulations == 0 {
			record.Status = StatusNoAction
			record.Reason = "zero simulation budget"
			return record
		}
		// Should be unreachable: with legal actions and budget >= 1 the
		// engine always expands at least one child. Recover with the first
		// legal action, but flag it so the anomaly is visible upstream.
		log.Warn().
			Str("trader_id", trader.ID).
			Int("legal_actions", len(legal)).
			Int("simulations", m.simulations).
			Msg("search produced no children despite legal actions; using first legal action")
		record.Stats.FallbackUsed = true
		action = legal[0]
	}

	record.Status = StatusSuccess
	record.setAction(action)
	return record
}
