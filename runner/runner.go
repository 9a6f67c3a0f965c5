// Package runner decides for a batch of traders against one world snapshot.
// The per-agent searches are independent, so they fan out over a worker
// pool. Each trader's search gets its own random source derived from the
// batch seed and the trader's index, so records depend only on the seed
// and the trader order, never on how the scheduler spreads work across
// workers.
package runner

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"

	"caravan/decision"
	"caravan/sim"
)

type Option func(*Runner)

func WithSimulations(simulations int) Option {
	return func(r *Runner) {
		if simulations >= 0 {
			r.simulations = simulations
		}
	}
}

func WithExplorationWeight(weight float64) Option {
	return func(r *Runner) {
		if weight > 0 {
			r.explorationWeight = weight
		}
	}
}

func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

type Runner struct {
	workers           int
	simulations       int
	explorationWeight float64
	seed              int64
}

func New(workers int, options ...Option) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{
		workers:           workers,
		simulations:       100,
		explorationWeight: 1.0,
		seed:              1,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// DecideAll picks the next action for every trader. Failures for one trader
// come back as error records and never stop the batch.
func (r *Runner) DecideAll(traders []sim.Trader, world *sim.World) []decision.Record {
	records := make([]decision.Record, len(traders))

	task := make(chan int, len(traders))
	for i := range traders {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				maker := decision.NewMaker(
					decision.WithSimulations(r.simulations),
					decision.WithExplorationWeight(r.explorationWeight),
					decision.WithRand(rand.New(rand.NewSource(r.seed+int64(i)))),
				)
				records[i] = maker.Decide(traders[i], world)
				if records[i].Status == decision.StatusError {
					log.Warn().
						Str("trader_id", traders[i].ID).
						Str("reason", records[i].Reason).
						Msg("decision failed")
				}
			}
		}()
	}
	wg.Wait()

	return records
}
