package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"caravan/config"
	"caravan/decision"
	"caravan/runner"
	"caravan/store"
	"caravan/worldgen"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	world := worldgen.Generate(cfg.Seed, cfg.Settlements)
	traders := worldgen.SpawnTraders(world, cfg.Traders, cfg.Seed)
	log.Info().
		Int("settlements", len(world.Settlements)).
		Int("traders", len(traders)).
		Int64("seed", cfg.Seed).
		Msg("generated world")

	r := runner.New(cfg.Workers,
		runner.WithSimulations(cfg.Simulations),
		runner.WithExplorationWeight(cfg.ExplorationWeight),
		runner.WithSeed(cfg.Seed),
	)
	records := r.DecideAll(traders, world)

	byKind := make(map[string]int)
	for _, record := range records {
		byKind[string(record.ActionKind)]++
	}
	log.Info().Interface("actions", byKind).Msg("completed batch")

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open decision store")
		}
		defer db.Close()

		for _, record := range records {
			if err := db.SaveDecision(record); err != nil {
				log.Error().Err(err).Str("trader_id", record.TraderID).Msg("failed to store decision")
			}
		}
		log.Info().Str("path", cfg.DBPath).Msg("stored decision records")
	}

	for _, record := range records {
		if record.Status != decision.StatusSuccess {
			continue
		}
		log.Debug().
			Str("trader", record.TraderName).
			Str("action", string(record.ActionKind)).
			Int("visits", record.Stats.RootVisits).
			Msg("decision")
	}
}
