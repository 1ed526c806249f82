package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/kgimport/pkg/graph/nodes"
)

func weighted(t *testing.T, start, end string, w float64) Edge {
	t.Helper()
	e, err := testBuilder().Build(EdgeSpec{
		Start:  nodes.MustNormalize("en", start),
		End:    nodes.MustNormalize("en", end),
		Rel:    IsA,
		Weight: Weight(w),
	})
	require.NoError(t, err)
	return e
}

func TestMergerPolicies(t *testing.T) {
	tests := []struct {
		policy MergePolicy
		want   float64
	}{
		{MergeSum, 6},
		{MergeMax, 3},
		{MergeAverage, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			m := NewMerger(tt.policy)
			assert.True(t, m.Add(weighted(t, "cat", "animal", 1)))
			assert.False(t, m.Add(weighted(t, "cat", "animal", 3)))
			assert.False(t, m.Add(weighted(t, "cat", "animal", 2)))
			assert.True(t, m.Add(weighted(t, "dog", "animal", 5)))

			edges := m.Edges()
			require.Len(t, edges, 2)
			assert.Equal(t, "/c/en/cat", edges[0].Start.String(), "first-seen order")
			assert.InDelta(t, tt.want, edges[0].Weight, 1e-9)
			assert.Equal(t, 5.0, edges[1].Weight)
		})
	}
}

func TestMergerFirstIsStreaming(t *testing.T) {
	m := NewMerger(MergeFirst)
	assert.True(t, m.Streaming())
	assert.True(t, m.Add(weighted(t, "cat", "animal", 1)))
	assert.False(t, m.Add(weighted(t, "cat", "animal", 2)))
	assert.Empty(t, m.Edges())
}

func TestMergerKeyIncludesSource(t *testing.T) {
	m := NewMerger(MergeSum)
	a := weighted(t, "cat", "animal", 1)
	b := a
	b.Source = Source{Contributor: "/s/contributor/other"}

	assert.True(t, m.Add(a))
	assert.True(t, m.Add(b), "different source is a different edge")
}

func TestParseMergePolicy(t *testing.T) {
	p, err := ParseMergePolicy(" SUM ")
	require.NoError(t, err)
	assert.Equal(t, MergeSum, p)

	_, err = ParseMergePolicy("median")
	assert.Error(t, err)
}
