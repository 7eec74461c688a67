package tictactoe

import (
	"encoding/json"
	"testing"

	"kin/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func play(moves ...Move) State {
	state := Initial()
	for _, m := range moves {
		state = state.ApplyMove(m)
	}
	return state
}

func TestTicTacToe(t *testing.T) {
	t.Run("starting with an empty board and X to move", func(t *testing.T) {
		state := Initial()

		require.Equal(t, X, state.NextToPlay())
		require.Len(t, game.Moves(state.AvailableMoves()), 9)
		require.False(t, game.IsTerminal[Player](state))
	})

	t.Run("alternating turns", func(t *testing.T) {
		state := play(4)

		require.Equal(t, O, state.NextToPlay())
		require.Equal(t, X, state.Board[4])
		require.NotContains(t, game.Moves(state.AvailableMoves()), Move(4))
	})

	t.Run("scoring a completed line", func(t *testing.T) {
		state := play(0, 3, 1, 4, 2)

		value, ok := state.TerminalValue(X)
		require.True(t, ok)
		require.Equal(t, game.Win, value)

		value, ok = state.TerminalValue(O)
		require.True(t, ok)
		require.Equal(t, game.Loss, value)
		require.Empty(t, game.Moves(state.AvailableMoves()), "No moves after a win")
	})

	t.Run("scoring a draw", func(t *testing.T) {
		state := play(0, 1, 2, 4, 3, 5, 7, 6, 8)

		value, ok := state.TerminalValue(O)
		require.True(t, ok)
		require.Equal(t, game.Draw, value)
	})

	t.Run("completing a line in playouts", func(t *testing.T) {
		state := play(0, 3, 1, 4)
		moves := game.Moves(state.AvailableMoves())

		i := state.ChooseMove(moves, rand.New(rand.NewSource(1)))

		require.Equal(t, Move(2), moves[i])
	})

	t.Run("round tripping through json", func(t *testing.T) {
		state := play(4, 0)

		data, err := json.Marshal(state)
		require.NoError(t, err)

		var decoded State
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.True(t, state.Equal(decoded))
	})

	t.Run("parsing moves", func(t *testing.T) {
		m, err := ParseMove(" 7 ")
		require.NoError(t, err)
		require.Equal(t, Move(7), m)

		_, err = ParseMove("9")
		require.Error(t, err)
		_, err = ParseMove("a")
		require.Error(t, err)
	})
}
