package engine

import (
	"errors"
	"testing"

	"kin/agent"
	"kin/game/counter"
	"kin/game/tictactoe"
	"kin/searcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixedAgent struct {
	move tictactoe.Move
	err  error
}

func (a fixedAgent) FindMove(state tictactoe.State) (tictactoe.Move, searcher.SearchMetric, error) {
	return a.move, searcher.SearchMetric{}, a.err
}

func randomPlayers(seed uint64) map[tictactoe.Player]agent.Agent[tictactoe.State, tictactoe.Move] {
	return map[tictactoe.Player]agent.Agent[tictactoe.State, tictactoe.Move]{
		tictactoe.X: agent.NewRandomAgent[tictactoe.State, tictactoe.Move, tictactoe.Player](seed),
		tictactoe.O: agent.NewRandomAgent[tictactoe.State, tictactoe.Move, tictactoe.Player](seed + 1),
	}
}

func TestReferee(t *testing.T) {
	t.Run("legal move advances the game", func(t *testing.T) {
		r := NewReferee[tictactoe.State, tictactoe.Move, tictactoe.Player](tictactoe.Initial())

		require.NoError(t, r.Play(4))

		require.Equal(t, 1, r.Plies())
		require.Equal(t, tictactoe.X, r.State().Board[4])
		require.Equal(t, tictactoe.O, r.State().NextToPlay())
	})

	t.Run("occupied cell is illegal", func(t *testing.T) {
		r := NewReferee[tictactoe.State, tictactoe.Move, tictactoe.Player](tictactoe.Initial())
		require.NoError(t, r.Play(4))

		err := r.Play(4)

		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, 1, r.Plies(), "Illegal move should not be played")
	})

	t.Run("no moves after the end", func(t *testing.T) {
		r := NewReferee[tictactoe.State, tictactoe.Move, tictactoe.Player](tictactoe.Initial())
		for _, m := range []tictactoe.Move{0, 3, 1, 4, 2} {
			require.NoError(t, r.Play(m))
		}

		require.True(t, r.IsOver())
		require.ErrorIs(t, r.Play(5), ErrGameOver)

		winner, ok := r.Winner(tictactoe.X, tictactoe.O)
		require.True(t, ok)
		require.Equal(t, tictactoe.X, winner)
	})
}

func TestEngineRun(t *testing.T) {
	t.Run("random agents finish a game", func(t *testing.T) {
		e := New(tictactoe.Initial(), randomPlayers(1), WithLogger(zerolog.Nop()))

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.True(t, gameMetric.Finished, "Tic-tac-toe always ends")
		require.GreaterOrEqual(t, gameMetric.TotalMoves, 5)
		require.LessOrEqual(t, gameMetric.TotalMoves, 9)
		require.Len(t, moveMetrics, gameMetric.TotalMoves, "Every move should be recorded")
		require.Equal(t, tictactoe.X, gameMetric.StartingPlayer)
		require.Equal(t, tictactoe.X, moveMetrics[0].Player)
		require.Equal(t, 1, moveMetrics[0].Step)
		if gameMetric.HasWinner {
			require.Equal(t, gameMetric.Winner, e.State().Winner())
		}
	})

	t.Run("search agents finish the counter game", func(t *testing.T) {
		parameters := searcher.Parameters{ExplorationFactor: searcher.DefaultExplorationFactor, SearchIterations: 200}
		agents := map[counter.Player]agent.Agent[counter.State, counter.Move]{
			true:  agent.NewSearchAgent(searcher.New[counter.State, counter.Move, counter.Player](parameters, searcher.WithSeed(1), searcher.WithMetrics())),
			false: agent.NewSearchAgent(searcher.New[counter.State, counter.Move, counter.Player](parameters, searcher.WithSeed(2), searcher.WithMetrics())),
		}
		e := New(counter.Initial(), agents, WithLogger(zerolog.Nop()))

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.True(t, gameMetric.Finished)
		require.True(t, gameMetric.HasWinner, "Counter game has no draws")
		require.LessOrEqual(t, gameMetric.TotalMoves, counter.Limit)
		for _, m := range moveMetrics {
			require.Equal(t, 200, m.Iterations, "Search metrics should be passed through")
		}
	})

	t.Run("stops at the ply limit", func(t *testing.T) {
		e := New(tictactoe.Initial(), randomPlayers(3), WithMaxPlies(2), WithLogger(zerolog.Nop()))

		gameMetric, _, err := e.Run()

		require.NoError(t, err)
		require.False(t, gameMetric.Finished)
		require.False(t, gameMetric.HasWinner)
		require.Equal(t, 2, gameMetric.TotalMoves)
	})

	t.Run("illegal move aborts the game", func(t *testing.T) {
		agents := randomPlayers(4)
		agents[tictactoe.X] = fixedAgent{move: 9}
		e := New(tictactoe.Initial(), agents, WithLogger(zerolog.Nop()))

		_, _, err := e.Run()

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("agent errors are returned", func(t *testing.T) {
		failure := errors.New("connection lost")
		agents := randomPlayers(5)
		agents[tictactoe.O] = fixedAgent{err: failure}
		e := New(tictactoe.Initial(), agents, WithLogger(zerolog.Nop()))

		_, moveMetrics, err := e.Run()

		require.ErrorIs(t, err, failure)
		require.Len(t, moveMetrics, 1, "X should have moved before O failed")
	})

	t.Run("panics without two agents", func(t *testing.T) {
		agents := randomPlayers(6)
		delete(agents, tictactoe.O)

		require.Panics(t, func() { New(tictactoe.Initial(), agents) })
	})
}
