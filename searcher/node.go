package searcher

import (
	"iter"

	"kin/game"

	"golang.org/x/exp/rand"
)

type searchNode[S any, M any] struct {
	state S
	move  M // incoming move, zero for roots

	// score sums rollout results from the point of view of the player to
	// move at the parent.
	score  float64
	visits int

	// Moves not yet expanded into children. pending holds the state's move
	// sequence until the first expansion materializes it into unexpanded.
	pending    iter.Seq[M]
	unexpanded []M
}

func newSearchNode[S game.State[S, M, P], M any, P comparable](state S, move M) searchNode[S, M] {
	return searchNode[S, M]{
		state:   state,
		move:    move,
		pending: state.AvailableMoves(),
	}
}

// popMove removes one unexpanded move, picked by the state's policy.
func (n *searchNode[S, M]) popMove(rng *rand.Rand) (M, bool) {
	if n.pending != nil {
		n.unexpanded = game.Moves(n.pending)
		n.pending = nil
	}

	var move M
	i := game.Choose(n.state, n.unexpanded, rng)
	if i < 0 {
		return move, false
	}

	last := len(n.unexpanded) - 1
	move = n.unexpanded[i]
	n.unexpanded[i] = n.unexpanded[last]
	n.unexpanded = n.unexpanded[:last]
	return move, true
}

func (n *searchNode[S, M]) fullyExpanded() bool {
	return n.pending == nil && len(n.unexpanded) == 0
}

func (n *searchNode[S, M]) visitsF() float64 {
	return float64(n.visits)
}
