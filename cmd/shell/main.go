// Command shell plays tic-tac-toe against the searcher in a terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"kin/config"
	"kin/logging"

	"github.com/chzyer/readline"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

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

	output := termenv.NewOutput(os.Stdout)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          output.String("kin> ").Foreground(output.Color("2")).String(),
		HistoryFile:     "/tmp/kin-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start readline")
	}
	defer l.Close()

	c := newController(cfg.SearchParameters(), cfg.SearcherOptions(), output)
	fmt.Fprintln(l.Stdout(), c.render())

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}

		out, err := c.execute(line)
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("")
			continue
		}
		if out != "" {
			fmt.Fprintln(l.Stdout(), out)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
