package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
)

func c(text string) nodes.ID { return nodes.MustNormalize("en", text) }

func chain(t *testing.T) *Adjacency {
	t.Helper()
	adj := NewAdjacency()
	for _, e := range []graph.Edge{
		{Start: c("kitten"), End: c("cat"), Rel: graph.IsA},
		{Start: c("cat"), End: c("mammal"), Rel: graph.IsA},
		{Start: c("mammal"), End: c("animal"), Rel: graph.IsA},
		{Start: c("rock"), End: c("stone"), Rel: graph.Synonym},
	} {
		require.NoError(t, adj.Add(e))
	}
	return adj
}

func TestNeighborhood(t *testing.T) {
	adj := chain(t)
	assert.Equal(t, 6, adj.Len())

	near := adj.Neighborhood(c("cat"), 1)
	assert.ElementsMatch(t, []nodes.ID{c("kitten"), c("cat"), c("mammal")}, near.ToSlice())

	near = adj.Neighborhood(c("kitten"), 3)
	assert.True(t, near.Contains(c("animal")))
	assert.False(t, near.Contains(c("rock")))

	assert.Equal(t, 1, adj.Neighborhood(c("cat"), 0).Cardinality())
	assert.Equal(t, 0, adj.Neighborhood(c("dog"), 2).Cardinality())
	assert.Equal(t, 0, adj.Neighbors(c("dog")).Cardinality())
}

func TestWithin(t *testing.T) {
	keep := Within(chain(t).Neighborhood(c("cat"), 1))
	assert.True(t, keep(graph.Edge{Start: c("kitten"), End: c("cat")}))
	assert.False(t, keep(graph.Edge{Start: c("mammal"), End: c("animal")}))
}

func TestNeighborhoodFoldsSenses(t *testing.T) {
	noun, err := nodes.NormalizeSense("en", "cat", "noun")
	require.NoError(t, err)
	verb, err := nodes.NormalizeSense("en", "cat", "verb")
	require.NoError(t, err)

	adj := NewAdjacency()
	require.NoError(t, adj.Add(graph.Edge{Start: noun, End: c("pet"), Rel: graph.IsA}))
	require.NoError(t, adj.Add(graph.Edge{Start: verb, End: c("vomit"), Rel: graph.Synonym}))
	assert.Equal(t, 3, adj.Len())

	near := adj.Neighborhood(c("cat"), 1)
	assert.ElementsMatch(t, []nodes.ID{c("cat"), c("pet"), c("vomit")}, near.ToSlice())
	assert.Equal(t, near.Cardinality(), adj.Neighborhood(noun, 1).Cardinality())
	assert.True(t, Within(near)(graph.Edge{Start: verb, End: c("vomit")}))
}
