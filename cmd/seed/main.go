// Command seed validates a marketplace fixture and prints what it contains.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/campusmove/internal/adapters/memory"
	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	"github.com/zatekoja/campusmove/pkg/config"
	"gopkg.in/yaml.v3"
)

func main() {
	file := flag.String("file", "", "fixture to validate (defaults to SEED_FILE, then the embedded fixture)")
	dump := flag.Bool("dump", false, "write the normalized fixture to stdout as YAML")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("campusmove-seed", cfg.App.Environment)

	path := *file
	if path == "" {
		path = cfg.Seed.File
	}

	seed, err := memory.LoadSeed(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("fixture is invalid")
	}

	helpers := 0
	for _, u := range seed.Users {
		if u.IsHelper {
			helpers++
		}
	}
	byStatus := map[entities.RequestStatus]int{}
	for _, r := range seed.Requests {
		byStatus[r.Status]++
	}

	log.Info().
		Str("file", path).
		Int("users", len(seed.Users)).
		Int("helpers", helpers).
		Int("requests", len(seed.Requests)).
		Int("open", byStatus[entities.RequestStatusOpen]).
		Int("assigned", byStatus[entities.RequestStatusAssigned]).
		Int("completed", byStatus[entities.RequestStatusCompleted]).
		Int("reviews", len(seed.Reviews)).
		Msg("fixture is valid")

	if *dump {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(seed); err != nil {
			log.Fatal().Err(err).Msg("failed to write fixture")
		}
		_ = enc.Close()
	}
}
