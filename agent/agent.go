// Package agent holds the deciders that can take a seat in a game.
package agent

import (
	"fmt"

	"kin/game"
	"kin/searcher"

	"golang.org/x/exp/rand"
)

type Agent[S any, M any] interface {
	// FindMove returns a move for state and the metrics of the search behind
	// it (if collected). state is never terminal.
	FindMove(state S) (M, searcher.SearchMetric, error)
}

type searchAgent[S game.State[S, M, P], M any, P comparable] struct {
	searcher *searcher.Searcher[S, M, P]
}

// NewSearchAgent plays the moves picked by s. The agent should get the
// positions of a single game in order so that the search tree is reused.
func NewSearchAgent[S game.State[S, M, P], M any, P comparable](s *searcher.Searcher[S, M, P]) Agent[S, M] {
	return searchAgent[S, M, P]{searcher: s}
}

func (a searchAgent[S, M, P]) FindMove(state S) (M, searcher.SearchMetric, error) {
	move := a.searcher.Search(state)
	return move, a.searcher.LastMetric(), nil
}

type randomAgent[S game.State[S, M, P], M any, P comparable] struct {
	rng *rand.Rand
}

// NewRandomAgent plays uniformly random legal moves.
func NewRandomAgent[S game.State[S, M, P], M any, P comparable](seed uint64) Agent[S, M] {
	return randomAgent[S, M, P]{rng: rand.New(rand.NewSource(seed))}
}

func (a randomAgent[S, M, P]) FindMove(state S) (M, searcher.SearchMetric, error) {
	moves := game.Moves(state.AvailableMoves())
	if len(moves) == 0 {
		var none M
		return none, searcher.SearchMetric{}, fmt.Errorf("no moves to choose from")
	}
	return moves[game.UniformIndex(len(moves), a.rng)], searcher.SearchMetric{}, nil
}
