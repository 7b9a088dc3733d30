package cur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDgraphPostOrderRespectsValueDependencies(t *testing.T) {
	g := NewDgraph()
	g.Declare("A", NoStmnt)
	g.Declare("B", NoStmnt)
	g.Declare("C", NoStmnt)
	g.AddValueEdge("A", "B")
	g.AddValueEdge("B", "C")

	order := g.PostOrder()
	posA := indexOf(order, "A")
	posB := indexOf(order, "B")
	posC := indexOf(order, "C")

	require.NotEqual(t, -1, posA)
	require.NotEqual(t, -1, posB)
	require.NotEqual(t, -1, posC)
	assert.Less(t, posC, posB)
	assert.Less(t, posB, posA)
}

func TestDgraphPostOrderIsDeterministic(t *testing.T) {
	build := func() []string {
		g := NewDgraph()
		g.Declare("A", NoStmnt)
		g.Declare("B", NoStmnt)
		g.Declare("C", NoStmnt)
		g.AddValueEdge("A", "C")
		g.AddValueEdge("A", "B")
		return g.PostOrder()
	}
	assert.Equal(t, build(), build())
}

func TestDgraphFindCycleDetectsDirectCycle(t *testing.T) {
	g := NewDgraph()
	g.Declare("A", NoStmnt)
	g.Declare("B", NoStmnt)
	g.AddValueEdge("A", "B")
	g.AddValueEdge("B", "A")

	assert.NotEqual(t, "", g.FindCycle())
}

func TestDgraphFindCycleIgnoresRefEdges(t *testing.T) {
	g := NewDgraph()
	g.Declare("A", NoStmnt)
	g.Declare("B", NoStmnt)
	g.AddValueEdge("A", "B")
	g.AddRefEdge("B", "A")

	assert.Equal(t, "", g.FindCycle())
}

func TestDgraphFindCycleEmptyForAcyclicGraph(t *testing.T) {
	g := NewDgraph()
	g.Declare("A", NoStmnt)
	g.Declare("B", NoStmnt)
	g.AddValueEdge("A", "B")

	assert.Equal(t, "", g.FindCycle())
}

func TestDgraphPostOrderIncludesRefOnlyDependencies(t *testing.T) {
	g := NewDgraph()
	g.Declare("Node", NoStmnt)
	g.Declare("Other", NoStmnt)
	g.AddRefEdge("Node", "Other")

	order := g.PostOrder()
	assert.Less(t, indexOf(order, "Other"), indexOf(order, "Node"))
}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
