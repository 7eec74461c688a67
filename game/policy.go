package game

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/exp/rand"
)

// Choose picks one of moves with the state's Policy if it has one, and
// uniformly at random otherwise. It returns -1 for an empty slice and panics
// if the policy picks an index out of range.
func Choose[M any](state any, moves []M, rng *rand.Rand) int {
	if len(moves) == 0 {
		return -1
	}
	if policy, ok := state.(Policy[M]); ok {
		i := policy.ChooseMove(moves, rng)
		if i < 0 || i >= len(moves) {
			panic(fmt.Sprintf("policy %T chose index %d of %d moves", policy, i, len(moves)))
		}
		return i
	}
	return UniformIndex(len(moves), rng)
}

// UniformIndex is the default policy.
func UniformIndex(n int, rng *rand.Rand) int {
	return rng.Intn(n)
}

// Moves materializes a move sequence.
func Moves[M any](seq iter.Seq[M]) []M {
	return slices.Collect(seq)
}
