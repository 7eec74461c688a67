// Command aiserver serves moves over TCP. Once listening, it writes its port
// to stdout as five digits and nothing else; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kin/config"
	"kin/game"
	"kin/game/counter"
	"kin/game/tictactoe"
	"kin/logging"
	"kin/server"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.Setup(cfg.GetBool(config.ConfigDebug))
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	options := []server.Option{
		server.WithAddress(cfg.GetString(config.ConfigAddress)),
		server.WithLogger(logger),
		server.WithSearcherOptions(cfg.SearcherOptions()...),
	}

	var err error
	switch cfg.GetString(config.ConfigGame) {
	case "counter":
		err = serve(ctx, server.New[counter.State, counter.Move, counter.Player](cfg.SearchParameters(), options...))
	case "tictactoe":
		err = serve(ctx, server.New[tictactoe.State, tictactoe.Move, tictactoe.Player](cfg.SearchParameters(), options...))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func serve[S game.State[S, M, P], M any, P comparable](ctx context.Context, srv *server.Server[S, M, P]) error {
	if err := srv.Listen(); err != nil {
		return err
	}
	if err := srv.AnnouncePort(os.Stdout); err != nil {
		return err
	}
	return srv.Serve(ctx)
}
