// Package searcher implements Monte Carlo Tree Search with UCB1 selection and
// negamax backups, as described by Browne et al. 2012, for any two-player,
// zero-sum game with perfect information.
package searcher

import (
	"fmt"

	"kin/game"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Searcher picks moves for successive positions of one game. The subtree
// under the position reached by its previous choice is reused when the next
// search starts from one of that position's children.
//
// A Searcher must not be used from more than one goroutine at a time.
type Searcher[S game.State[S, M, P], M any, P comparable] struct {
	tree           *Tree[searchNode[S, M]]
	previousChoice NodeID
	parameters     Parameters
	rng            *rand.Rand
	metrics        Collector
	logger         zerolog.Logger
	lastMetric     SearchMetric
}

func New[S game.State[S, M, P], M any, P comparable](parameters Parameters, options ...Option) *Searcher[S, M, P] {
	if parameters.SearchIterations <= 0 {
		panic(fmt.Sprintf("search iterations must be positive, got %d", parameters.SearchIterations))
	}

	settings := newSettings(options)
	return &Searcher[S, M, P]{
		tree:       NewTree[searchNode[S, M]](),
		parameters: parameters,
		rng:        settings.rng,
		metrics:    settings.metrics,
		logger:     settings.logger,
	}
}

// Search runs the configured number of iterations from starting and returns
// the move leading to the child with the best mean score. starting must not
// be terminal.
//
// Rollouts are scored for the player who moved into the leaf rather than for
// the player to move at starting, so even-depth leaves keep the right sign.
func (s *Searcher[S, M, P]) Search(starting S) M {
	if game.IsTerminal[P](starting) {
		panic("cannot search from a terminal state")
	}

	s.metrics.Start()
	player := starting.NextToPlay()
	root := s.startingTree(starting)

	for i := 0; i < s.parameters.SearchIterations; i++ {
		leaf := s.treePolicy(root)
		score := s.rollout(s.node(leaf).state, s.mover(leaf, player))
		s.backup(leaf, score)
		s.metrics.AddIteration()
	}

	choice := s.bestChild(root, 0)
	s.previousChoice = choice

	s.lastMetric = s.metrics.Complete(s.tree.Len(), s.node(root).visits)
	s.logger.Debug().
		Int("tree_size", s.tree.Len()).
		Int("root_visits", s.node(root).visits).
		Int("choice_visits", s.node(choice).visits).
		Msg("search complete")

	return s.node(choice).move
}

// LastMetric describes the latest search. It is empty unless the Searcher
// was created WithMetrics.
func (s *Searcher[S, M, P]) LastMetric() SearchMetric {
	return s.lastMetric
}

// Parameters returns the parameters the Searcher was created with.
func (s *Searcher[S, M, P]) Parameters() Parameters {
	return s.parameters
}

// TreeSize is the number of nodes currently kept for reuse.
func (s *Searcher[S, M, P]) TreeSize() int {
	return s.tree.Len()
}

// Reset forgets the search tree, e.g. when a new game starts.
func (s *Searcher[S, M, P]) Reset() {
	s.tree.Clear()
	s.previousChoice = NoNode
}

func (s *Searcher[S, M, P]) node(id NodeID) *searchNode[S, M] {
	return s.tree.Get(id)
}

func (s *Searcher[S, M, P]) newRoot(state S) NodeID {
	var move M
	return s.tree.NewNode(newSearchNode[S, M, P](state, move))
}

// startingTree returns a root for starting, reusing the previous choice's
// child with an equal state when there is one.
func (s *Searcher[S, M, P]) startingTree(starting S) NodeID {
	if s.previousChoice.IsNone() {
		// Nodes left over from an interrupted search.
		if s.tree.Len() > 0 {
			s.tree.Clear()
		}
		s.metrics.SetTreeReused(false)
		return s.newRoot(starting)
	}

	oldRoot := s.previousChoice
	s.previousChoice = NoNode

	newRoot := NoNode
	for child := range s.tree.Children(oldRoot) {
		if s.node(child).state.Equal(starting) {
			newRoot = child
			break
		}
	}

	if newRoot.IsNone() {
		s.logger.Debug().Int("discarded", s.tree.Len()).Msg("state not found under previous choice, resetting tree")
		s.metrics.SetTreeReused(false)
		s.tree.Clear()
		return s.newRoot(starting)
	}

	s.tree.Detach(newRoot)
	s.tree.RemoveSubtree(s.topmost(oldRoot))
	s.logger.Debug().Int("kept", s.tree.Len()).Msg("reusing search tree")
	s.metrics.SetTreeReused(true)
	return newRoot
}

func (s *Searcher[S, M, P]) topmost(node NodeID) NodeID {
	top := node
	for ancestor := range s.tree.Ancestors(node) {
		top = ancestor
	}
	return top
}

// mover is the player who made the move into node, whose point of view the
// node's score takes. The root has no incoming move and falls back to player.
func (s *Searcher[S, M, P]) mover(node NodeID, player P) P {
	if parent, ok := s.tree.Parent(node); ok {
		return s.node(parent).state.NextToPlay()
	}
	return player
}

// rollout plays random moves from state until the game ends and returns the
// result for forPlayer. It does not terminate for games that can go on
// forever.
func (s *Searcher[S, M, P]) rollout(state S, forPlayer P) float64 {
	for {
		if value, ok := state.TerminalValue(forPlayer); ok {
			return value
		}

		moves := game.Moves(state.AvailableMoves())
		i := game.Choose(state, moves, s.rng)
		if i < 0 {
			panic("there should be moves to explore if the state is not terminal")
		}
		state = state.ApplyMove(moves[i])
	}
}

// backup adds score to leaf and its ancestors, negating it at every level
// since each level is seen from the other player's side.
func (s *Searcher[S, M, P]) backup(leaf NodeID, score float64) {
	for node := leaf; ; {
		data := s.node(node)
		data.score += score
		data.visits++

		score = -score
		parent, ok := s.tree.Parent(node)
		if !ok {
			return
		}
		node = parent
	}
}
