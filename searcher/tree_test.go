package searcher

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Run("new nodes are roots", func(t *testing.T) {
		tree := NewTree[string]()
		id := tree.NewNode("root")

		_, ok := tree.Parent(id)
		require.False(t, ok, "New node should not have a parent")
		require.Equal(t, "root", *tree.Get(id), "Node should store its data")
		require.Equal(t, 1, tree.Len(), "Tree should have one node")
	})

	t.Run("children keep insertion order", func(t *testing.T) {
		tree := NewTree[string]()
		root := tree.NewNode("root")
		a := tree.NewNode("a")
		b := tree.NewNode("b")
		tree.Append(root, a)
		tree.Append(root, b)

		require.Equal(t, []NodeID{a, b}, slices.Collect(tree.Children(root)), "Children should be in insertion order")
		require.Equal(t, 2, tree.ChildCount(root))
		parent, ok := tree.Parent(b)
		require.True(t, ok)
		require.Equal(t, root, parent, "Appended node should know its parent")
	})

	t.Run("ancestors start at the node", func(t *testing.T) {
		tree := NewTree[int]()
		root := tree.NewNode(0)
		child := tree.NewNode(1)
		grandchild := tree.NewNode(2)
		tree.Append(root, child)
		tree.Append(child, grandchild)

		require.Equal(t, []NodeID{grandchild, child, root}, slices.Collect(tree.Ancestors(grandchild)))
	})

	t.Run("detached node keeps its subtree", func(t *testing.T) {
		tree := NewTree[int]()
		root := tree.NewNode(0)
		child := tree.NewNode(1)
		grandchild := tree.NewNode(2)
		tree.Append(root, child)
		tree.Append(child, grandchild)

		tree.Detach(child)

		_, ok := tree.Parent(child)
		require.False(t, ok, "Detached node should be a root")
		require.Zero(t, tree.ChildCount(root), "Old parent should forget the node")
		require.Equal(t, []NodeID{grandchild}, slices.Collect(tree.Children(child)), "Subtree should stay intact")
		require.Equal(t, 3, tree.Len(), "Detaching should not remove nodes")
	})

	t.Run("removing a subtree leaves siblings alone", func(t *testing.T) {
		tree := NewTree[int]()
		root := tree.NewNode(0)
		a := tree.NewNode(1)
		b := tree.NewNode(2)
		a1 := tree.NewNode(3)
		tree.Append(root, a)
		tree.Append(root, b)
		tree.Append(a, a1)

		tree.RemoveSubtree(a)

		require.True(t, tree.IsRemoved(a))
		require.True(t, tree.IsRemoved(a1))
		require.False(t, tree.IsRemoved(b), "Sibling should survive")
		require.Equal(t, 2, *tree.Get(b), "Sibling data should be untouched")
		require.Equal(t, []NodeID{b}, slices.Collect(tree.Children(root)))
		require.Equal(t, 2, tree.Len())
	})

	t.Run("recycled slots do not revive stale identifiers", func(t *testing.T) {
		tree := NewTree[int]()
		old := tree.NewNode(1)
		tree.Clear()
		fresh := tree.NewNode(2)

		require.True(t, tree.IsRemoved(old), "Cleared node should stay removed")
		require.False(t, tree.IsRemoved(fresh))
		require.NotEqual(t, old, fresh, "Recycled slot should get a new identifier")
		require.Panics(t, func() { tree.Get(old) }, "Stale identifier should panic")
		require.Equal(t, 1, tree.Len())
	})

	t.Run("appending a node to itself panics", func(t *testing.T) {
		tree := NewTree[int]()
		id := tree.NewNode(1)

		require.Panics(t, func() { tree.Append(id, id) })
	})

	t.Run("no node is always removed", func(t *testing.T) {
		tree := NewTree[int]()

		require.True(t, tree.IsRemoved(NoNode))
		require.Panics(t, func() { tree.Get(NoNode) })
	})
}
