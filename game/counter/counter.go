// Package counter is a tiny two-player game used to exercise the searcher:
// the state is a running total, each turn adds 1 or 3 to it, and the game
// ends once the total reaches 10.
package counter

import (
	"iter"
	"math"
)

// Limit is the absolute value at which the game ends.
const Limit = 10

type State int

type Move int

// Player is true when it plays on even totals and false on odd ones.
type Player bool

var moves = []Move{1, 3}

func Initial() State {
	return 0
}

func (s State) AvailableMoves() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		if s.over() {
			return
		}
		for _, m := range moves {
			if !yield(m) {
				return
			}
		}
	}
}

func (s State) NextToPlay() Player {
	return s%2 == 0
}

func (s State) ApplyMove(move Move) State {
	return s + State(move)
}

// TerminalValue is the total itself, positive for the player to move.
func (s State) TerminalValue(forPlayer Player) (float64, bool) {
	score := float64(s)
	if forPlayer != s.NextToPlay() {
		score = -score
	}
	if math.Abs(score) >= Limit {
		return score, true
	}
	return 0, false
}

func (s State) Equal(other State) bool {
	return s == other
}

func (s State) over() bool {
	return math.Abs(float64(s)) >= Limit
}
