// Command benchmark times fresh searches from a game's initial position.
package main

import (
	"fmt"
	"os"
	"time"

	"kin/config"
	"kin/game"
	"kin/game/counter"
	"kin/game/tictactoe"
	"kin/logging"
	"kin/searcher"

	"github.com/rs/zerolog/log"
)

const (
	warmupRuns       = 10
	warmupIterations = 10
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	runs := cfg.GetInt(config.ConfigBenchmarkRuns)
	parameters := cfg.SearchParameters()
	options := cfg.SearcherOptions()

	var total time.Duration
	switch cfg.GetString(config.ConfigGame) {
	case "counter":
		total = benchmark[counter.State, counter.Move, counter.Player](counter.Initial(), parameters, runs, options)
	case "tictactoe":
		total = benchmark[tictactoe.State, tictactoe.Move, tictactoe.Player](tictactoe.Initial(), parameters, runs, options)
	}

	average := total / time.Duration(max(runs, 1))
	fmt.Printf("total time: %v, average time: %v\n", total, average)
}

func benchmark[S game.State[S, M, P], M any, P comparable](initial S, parameters searcher.Parameters, runs int, options []searcher.Option) time.Duration {
	warmup := searcher.Parameters{ExplorationFactor: parameters.ExplorationFactor, SearchIterations: warmupIterations}
	for i := 0; i < warmupRuns; i++ {
		searcher.New[S, M, P](warmup, options...).Search(initial)
	}

	log.Info().Msgf("timing %d searches of %d iterations...", runs, parameters.SearchIterations)
	start := time.Now()
	for i := 0; i < runs; i++ {
		searcher.New[S, M, P](parameters, options...).Search(initial)
	}
	return time.Since(start)
}
