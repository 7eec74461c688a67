package game

import (
	"iter"

	"golang.org/x/exp/rand"
)

// Payoffs conventionally reported by TerminalValue. The searcher treats the
// magnitude as an opaque utility.
const (
	Win  = 1.0
	Draw = 0.0
	Loss = -Win
)

// State is the capability a two-player, zero-sum, perfect-information game
// must provide to be searched. S is the implementing type itself, M its move
// type and P its player identity.
//
// States should be immutable - ApplyMove always returns a new value.
type State[S any, M any, P comparable] interface {
	// AvailableMoves lists the moves that are legal for the player to move.
	// The sequence must be finite and may be produced lazily.
	AvailableMoves() iter.Seq[M]

	// NextToPlay is the player whose turn it is.
	NextToPlay() P

	// ApplyMove expects move to be legal for this state. Passing an illegal
	// move may panic or return a nonsensical state.
	ApplyMove(move M) S

	// TerminalValue reports false while the game is still going on, and the
	// payoff to forPlayer once it has finished.
	TerminalValue(forPlayer P) (float64, bool)

	Equal(other S) bool
}

// Policy lets a game bias which move is picked during expansion and
// simulation. ChooseMove returns an index into moves, which is never empty.
type Policy[M any] interface {
	ChooseMove(moves []M, rng *rand.Rand) int
}

// Terminal is the part of State needed to tell whether a game has ended.
type Terminal[P comparable] interface {
	NextToPlay() P
	TerminalValue(forPlayer P) (float64, bool)
}

// IsTerminal reports whether the game has ended, asking from the point of
// view of the player to move.
func IsTerminal[P comparable](state Terminal[P]) bool {
	_, ok := state.TerminalValue(state.NextToPlay())
	return ok
}
