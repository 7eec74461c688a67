package searcher

import (
	"fmt"
	"iter"
	"slices"
)

// NodeID addresses a node of a Tree. An identifier stays valid until its node
// is removed, even while other nodes are added or removed. The zero value
// refers to no node.
type NodeID struct {
	index uint32
	stamp uint32
}

// NoNode is the zero NodeID.
var NoNode NodeID

func (id NodeID) IsNone() bool {
	return id.stamp == 0
}

func (id NodeID) String() string {
	if id.IsNone() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d.%d)", id.index, id.stamp)
}

type slot[T any] struct {
	data     T
	stamp    uint32
	live     bool
	parent   NodeID
	children []NodeID
}

// Tree is an arena of nodes linked by identifier. Slots of removed nodes are
// recycled with a new stamp, so stale identifiers never alias new nodes.
type Tree[T any] struct {
	slots []*slot[T]
	free  []uint32
	size  int
}

func NewTree[T any]() *Tree[T] {
	return &Tree[T]{}
}

// NewNode stores data in a new node without a parent.
func (t *Tree[T]) NewNode(data T) NodeID {
	t.size++

	if n := len(t.free); n > 0 {
		index := t.free[n-1]
		t.free = t.free[:n-1]

		s := t.slots[index]
		s.stamp++
		s.live = true
		s.data = data
		s.parent = NoNode
		return NodeID{index: index, stamp: s.stamp}
	}

	t.slots = append(t.slots, &slot[T]{data: data, stamp: 1, live: true})
	return NodeID{index: uint32(len(t.slots) - 1), stamp: 1}
}

// Get returns the node's data. It panics if the node has been removed.
func (t *Tree[T]) Get(id NodeID) *T {
	return &t.slot(id).data
}

func (t *Tree[T]) IsRemoved(id NodeID) bool {
	if id.IsNone() || int(id.index) >= len(t.slots) {
		return true
	}
	s := t.slots[id.index]
	return !s.live || s.stamp != id.stamp
}

// Len is the number of live nodes.
func (t *Tree[T]) Len() int {
	return t.size
}

// Parent returns the node's parent, or false for a root.
func (t *Tree[T]) Parent(id NodeID) (NodeID, bool) {
	parent := t.slot(id).parent
	return parent, !parent.IsNone()
}

// Children iterates over the node's children in insertion order. The tree
// must not be modified during the iteration.
func (t *Tree[T]) Children(id NodeID) iter.Seq[NodeID] {
	children := t.slot(id).children
	return slices.Values(children)
}

func (t *Tree[T]) ChildCount(id NodeID) int {
	return len(t.slot(id).children)
}

// Ancestors iterates from the node itself up to its root.
func (t *Tree[T]) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for node := id; !node.IsNone(); node = t.slot(node).parent {
			if !yield(node) {
				return
			}
		}
	}
}

// Append makes child the last child of parent, detaching it from any
// previous parent first.
func (t *Tree[T]) Append(parent, child NodeID) {
	if parent == child {
		panic(fmt.Sprintf("cannot append %v to itself", child))
	}
	p := t.slot(parent)
	t.Detach(child)

	t.slot(child).parent = parent
	p.children = append(p.children, child)
}

// Detach removes the node from its parent's children, making it a root. The
// node and its subtree stay in the tree.
func (t *Tree[T]) Detach(id NodeID) {
	s := t.slot(id)
	if s.parent.IsNone() {
		return
	}

	p := t.slot(s.parent)
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })
	s.parent = NoNode
}

// RemoveSubtree destroys the node and all of its descendants.
func (t *Tree[T]) RemoveSubtree(id NodeID) {
	t.Detach(id)

	stack := []NodeID{id}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := t.slot(node)
		stack = append(stack, s.children...)
		t.release(node.index, s)
	}
}

// Clear destroys every node.
func (t *Tree[T]) Clear() {
	for index, s := range t.slots {
		if s.live {
			t.release(uint32(index), s)
		}
	}
}

func (t *Tree[T]) release(index uint32, s *slot[T]) {
	var zero T
	s.data = zero
	s.live = false
	s.parent = NoNode
	s.children = s.children[:0]
	t.free = append(t.free, index)
	t.size--
}

func (t *Tree[T]) slot(id NodeID) *slot[T] {
	if t.IsRemoved(id) {
		panic(fmt.Sprintf("%v has been removed from the tree", id))
	}
	return t.slots[id.index]
}
