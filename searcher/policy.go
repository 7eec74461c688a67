package searcher

import (
	"math"

	"kin/game"
)

// treePolicy walks down from node and returns either a freshly expanded
// child or a terminal node. It expands at most one node per call.
func (s *Searcher[S, M, P]) treePolicy(node NodeID) NodeID {
	for {
		if game.IsTerminal[P](s.node(node).state) {
			return node
		}

		if leaf, ok := s.expand(node); ok {
			return leaf
		}

		node = s.bestChild(node, s.parameters.ExplorationFactor)
	}
}

func (s *Searcher[S, M, P]) expand(parent NodeID) (NodeID, bool) {
	node := s.node(parent)

	move, ok := node.popMove(s.rng)
	if !ok {
		return NoNode, false
	}

	child := s.tree.NewNode(newSearchNode[S, M, P](node.state.ApplyMove(move), move))
	s.tree.Append(parent, child)
	return child, true
}

// bestChild returns the child of parent maximizing UCB1, where
// explorationFactor is the constant c (Browne et al. 2012, p. 9).
//
// Exact ties go to the child scanned last, i.e. the most recently expanded
// one. A NaN score counts as a tie. Callers should not rely on which child
// wins a tie.
func (s *Searcher[S, M, P]) bestChild(parent NodeID, explorationFactor float64) NodeID {
	parentNode := s.node(parent)
	c2LnN := 2 * math.Log(parentNode.visitsF())

	best := NoNode
	bestValue := math.Inf(-1)
	for id := range s.tree.Children(parent) {
		child := s.node(id)
		value := ucb1(child.score, child.visitsF(), c2LnN, explorationFactor)
		if best.IsNone() || !(bestValue > value) {
			best = id
			bestValue = value
		}
	}

	if best.IsNone() {
		panic("node has no children")
	}
	return best
}

func ucb1(score, visits, c2LnN, explorationFactor float64) float64 {
	exploitation := score / visits
	exploration := math.Sqrt(c2LnN / visits)
	return exploitation + explorationFactor*exploration
}
