package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kin/config"
	"kin/experiments"
	"kin/game"
	"kin/game/counter"
	"kin/game/tictactoe"
	"kin/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	setup := experiments.IterationsSetup(cfg.GetString(config.ConfigGame))
	if path := cfg.GetString(config.ConfigSetup); path != "" {
		var err error
		if setup, err = experiments.LoadSetup(path); err != nil {
			log.Fatal().Err(err).Msg("failed to load experiment setup")
		}
	}
	if setup.MaxPlies == 0 {
		setup.MaxPlies = cfg.GetInt(config.ConfigMaxPlies)
	}
	if setup.Seed == 0 {
		setup.Seed = cfg.GetUint64(config.ConfigSeed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch setup.Game {
	case "counter":
		err = runExperiment[counter.State, counter.Move, counter.Player](ctx, cfg, setup, counter.Initial, [2]counter.Player{true, false})
	case "tictactoe":
		err = runExperiment[tictactoe.State, tictactoe.Move, tictactoe.Player](ctx, cfg, setup, tictactoe.Initial, [2]tictactoe.Player{tictactoe.X, tictactoe.O})
	default:
		err = fmt.Errorf("unknown game %q", setup.Game)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s experiment failed", setup.Name)
	}
}

func runExperiment[S game.State[S, M, P], M comparable, P comparable](ctx context.Context, cfg *config.Config, setup experiments.Setup, initial func() S, players [2]P) error {
	runner := experiments.Runner[S, M, P]{Setup: setup, Initial: initial, Players: players}
	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	summaries := experiments.Summarize(setup, results)
	for _, s := range summaries {
		log.Info().Msgf("agent %d vs agent %d: %d-%d with %d draws, %.1f moves per game",
			s.Agent1, s.Agent2, s.Wins1, s.Wins2, s.Draws, s.MeanMoves)
	}

	writer, err := experiments.NewWriter(cfg.GetString(config.ConfigOutputDir), setup.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAll(setup, results, summaries); err != nil {
		return fmt.Errorf("failed to store results: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return nil
}
