package agent

import (
	"context"
	"testing"

	"kin/client"
	"kin/game"
	"kin/game/tictactoe"
	"kin/searcher"
	"kin/server"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func midgame() tictactoe.State {
	state := tictactoe.Initial()
	for _, m := range []tictactoe.Move{4, 0, 8} {
		state = state.ApplyMove(m)
	}
	return state
}

func TestRandomAgent(t *testing.T) {
	t.Run("plays legal moves", func(t *testing.T) {
		a := NewRandomAgent[tictactoe.State, tictactoe.Move, tictactoe.Player](1)
		state := midgame()

		for i := 0; i < 20; i++ {
			move, _, err := a.FindMove(state)
			require.NoError(t, err)
			require.Contains(t, game.Moves(state.AvailableMoves()), move, "Move should be legal")
		}
	})

	t.Run("fails without moves", func(t *testing.T) {
		a := NewRandomAgent[tictactoe.State, tictactoe.Move, tictactoe.Player](1)
		state := tictactoe.Initial()
		for _, m := range []tictactoe.Move{0, 3, 1, 4, 2} {
			state = state.ApplyMove(m)
		}

		_, _, err := a.FindMove(state)

		require.Error(t, err)
	})
}

func TestSearchAgent(t *testing.T) {
	t.Run("reports the search metrics", func(t *testing.T) {
		parameters := searcher.Parameters{ExplorationFactor: searcher.DefaultExplorationFactor, SearchIterations: 300}
		s := searcher.New[tictactoe.State, tictactoe.Move, tictactoe.Player](parameters, searcher.WithSeed(2), searcher.WithMetrics())
		a := NewSearchAgent(s)
		state := midgame()

		move, metric, err := a.FindMove(state)

		require.NoError(t, err)
		require.Contains(t, game.Moves(state.AvailableMoves()), move, "Move should be legal")
		require.Equal(t, 300, metric.Iterations)
	})
}

func TestRemoteAgent(t *testing.T) {
	t.Run("asks the server", func(t *testing.T) {
		parameters := searcher.Parameters{ExplorationFactor: searcher.DefaultExplorationFactor, SearchIterations: 300}
		srv := server.New[tictactoe.State, tictactoe.Move, tictactoe.Player](parameters, server.WithLogger(zerolog.Nop()))
		require.NoError(t, srv.Listen())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go srv.Serve(ctx)

		c, err := client.Dial[tictactoe.State, tictactoe.Move](ctx, srv.Address(), client.WithLogger(zerolog.Nop()))
		require.NoError(t, err)
		defer c.Close()
		a := NewRemoteAgent(c)
		state := midgame()

		move, _, err := a.FindMove(state)

		require.NoError(t, err)
		require.Contains(t, game.Moves(state.AvailableMoves()), move, "Move should be legal")
	})
}
