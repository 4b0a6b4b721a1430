package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBasicMutation(t *testing.T) {
	g := New[int, int]()
	first := g.CreateNode(1)
	second := g.CreateNode(2)
	third := g.CreateNode(3)

	assert.Len(t, g.Nodes(), 3)

	e1, ok := g.CreateEdge(first, second, 21)
	require.True(t, ok)
	_, ok = g.CreateEdge(second, third, 22)
	require.True(t, ok)
	_, ok = g.CreateEdge(third, first, 23)
	require.True(t, ok)

	assert.Len(t, g.Edges(), 3)

	g.RemoveEdge(e1)
	assert.Len(t, g.Edges(), 2)

	g.RemoveNode(third)
	assert.Len(t, g.Nodes(), 2)
	// edges incident to third should have been removed too
	assert.Len(t, g.Edges(), 0)

	// stale handle is no longer valid even if the arena slot is reused
	_, found := g.Node(third)
	assert.False(t, found)
	reused := g.CreateNode(30)
	_, found = g.Node(third)
	assert.False(t, found)
	_, found = g.Node(reused)
	assert.True(t, found)
}

func TestIsLinearOrientedAndOriginLeaf(t *testing.T) {
	g := New[string, int]()
	a := g.CreateNode("a")
	b := g.CreateNode("b")
	c := g.CreateNode("c")
	g.CreateEdge(a, b, 0)
	g.CreateEdge(b, c, 0)

	assert.True(t, g.IsLinearOriented())
	origin, err := g.GetOriginLeaf()
	require.NoError(t, err)
	assert.Equal(t, a, origin)

	// branching breaks linearity
	d := g.CreateNode("d")
	g.CreateEdge(a, d, 0)
	assert.False(t, g.IsLinearOriented())
}

func TestLinearWalkVisitsInOrder(t *testing.T) {
	g := New[string, int]()
	a := g.CreateNode("a")
	b := g.CreateNode("b")
	c := g.CreateNode("c")
	g.CreateEdge(a, b, 1)
	g.CreateEdge(b, c, 2)

	var order []string
	err := LinearWalk(g, func(_ NodeHandle, v string) { order = append(order, v) }, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestIsTrunkTreeAndWalkRollback(t *testing.T) {
	g := New[string, int]()
	root := g.CreateNode("root")
	left := g.CreateNode("left")
	right := g.CreateNode("right")
	leaf := g.CreateNode("leaf")
	g.CreateEdge(root, left, 0)
	g.CreateEdge(root, right, 0)
	g.CreateEdge(left, leaf, 0)

	assert.True(t, g.IsTrunkTree())

	var visited []string
	rollbacks := 0
	err := TrunkTreeWalk(g,
		func(_ NodeHandle, v string) { visited = append(visited, v) },
		nil,
		func(count int) { rollbacks += count },
	)
	require.NoError(t, err)
	assert.Equal(t, 4, len(visited))
	// One backtrack, from leaf (depth 2) back to root's level before right.
	assert.Equal(t, 2, rollbacks)
}

func TestContainsOrientedCycle(t *testing.T) {
	g := New[int, int]()
	a := g.CreateNode(1)
	b := g.CreateNode(2)
	c := g.CreateNode(3)
	g.CreateEdge(a, b, 0)
	g.CreateEdge(b, c, 0)
	assert.False(t, g.ContainsOrientedCycle())

	g.CreateEdge(c, a, 0)
	assert.True(t, g.ContainsOrientedCycle())
}

func TestGetOriginLeafNotUnique(t *testing.T) {
	g := New[int, int]()
	g.CreateNode(1)
	g.CreateNode(2)
	// no edges: two nodes with in-degree 0
	_, err := g.GetOriginLeaf()
	require.Error(t, err)
}
