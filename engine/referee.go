package engine

import (
	"errors"
	"fmt"

	"kin/game"

	"github.com/samber/lo"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over - no moves allowed")
)

// Referee holds the authoritative state of a game and only lets legal moves
// through.
type Referee[S game.State[S, M, P], M comparable, P comparable] struct {
	state S
	plies int
}

func NewReferee[S game.State[S, M, P], M comparable, P comparable](initial S) *Referee[S, M, P] {
	return &Referee[S, M, P]{state: initial}
}

func (r *Referee[S, M, P]) State() S {
	return r.state
}

// Plies is the number of moves played so far.
func (r *Referee[S, M, P]) Plies() int {
	return r.plies
}

func (r *Referee[S, M, P]) IsOver() bool {
	return game.IsTerminal[P](r.state)
}

func (r *Referee[S, M, P]) Play(move M) error {
	if r.IsOver() {
		return ErrGameOver
	}

	legalMoves := game.Moves(r.state.AvailableMoves())
	if !lo.Contains(legalMoves, move) {
		return fmt.Errorf("%w: %v", ErrIllegalMove, move)
	}

	r.state = r.state.ApplyMove(move)
	r.plies++
	return nil
}

// Winner is the player with a positive terminal value, if any.
func (r *Referee[S, M, P]) Winner(players ...P) (P, bool) {
	return lo.Find(players, func(p P) bool {
		value, ok := r.state.TerminalValue(p)
		return ok && value > 0
	})
}
