package graph

import (
	"fmt"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// MergePolicy decides what happens when a source produces the same edge
// twice.
type MergePolicy string

const (
	// MergeFirst keeps the first edge and drops later duplicates.
	MergeFirst MergePolicy = "first"
	// MergeSum adds the weights.
	MergeSum MergePolicy = "sum"
	// MergeMax keeps the largest weight.
	MergeMax MergePolicy = "max"
	// MergeAverage keeps the mean weight.
	MergeAverage MergePolicy = "average"
)

// ParseMergePolicy parses a policy name from configuration.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MergeFirst, MergeSum, MergeMax, MergeAverage:
		return p, nil
	}
	return "", fmt.Errorf("unknown merge policy %q", s)
}

type mergedEdge struct {
	edge  Edge
	count int
}

// Merger collapses duplicate edges. Under MergeFirst it only remembers keys
// and edges can be written as they arrive; other policies hold edges until
// Edges is called.
type Merger struct {
	policy MergePolicy
	seen   mapset.Set[EdgeKey]
	edges  map[EdgeKey]*mergedEdge
	order  []EdgeKey
	mutex  sync.Mutex
}

// NewMerger creates a merger applying policy.
func NewMerger(policy MergePolicy) *Merger {
	return &Merger{
		policy: policy,
		seen:   mapset.NewThreadUnsafeSet[EdgeKey](),
		edges:  make(map[EdgeKey]*mergedEdge),
	}
}

// Policy returns the merge policy.
func (m *Merger) Policy() MergePolicy { return m.policy }

// Streaming reports whether edges may be written as soon as Add accepts them.
func (m *Merger) Streaming() bool { return m.policy == MergeFirst }

// Add records e and reports whether it is the first edge with its key.
func (m *Merger) Add(e Edge) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := e.Key()
	if m.Streaming() {
		return m.seen.Add(key)
	}

	existing, ok := m.edges[key]
	if !ok {
		m.edges[key] = &mergedEdge{edge: e, count: 1}
		m.order = append(m.order, key)
		return true
	}

	switch m.policy {
	case MergeSum:
		existing.edge.Weight += e.Weight
	case MergeMax:
		if e.Weight > existing.edge.Weight {
			existing.edge.Weight = e.Weight
		}
	case MergeAverage:
		n := float64(existing.count)
		existing.edge.Weight = (existing.edge.Weight*n + e.Weight) / (n + 1)
	}
	if existing.edge.SurfaceText == "" {
		existing.edge.SurfaceText = e.SurfaceText
	}
	existing.count++
	return false
}

// Edges returns the merged edges in first-seen order. It is empty for a
// streaming merger.
func (m *Merger) Edges() []Edge {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]Edge, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.edges[key].edge)
	}
	return out
}
