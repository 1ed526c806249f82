// Package algorithms walks graphs of imported edges.
package algorithms

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// Adjacency links every node to the nodes it shares an edge with, in either
// direction. Senses fold into their concept, so /c/en/cat/n and /c/en/cat
// are one node. It holds identifiers only, so it can index an edge file too
// large to keep in memory.
type Adjacency struct {
	neighbors map[nodes.ID]mapset.Set[nodes.ID]
}

func NewAdjacency() *Adjacency {
	return &Adjacency{neighbors: make(map[nodes.ID]mapset.Set[nodes.ID])}
}

// Add indexes one edge.
func (a *Adjacency) Add(e graph.Edge) error {
	start, end := e.Start.WithoutPOS(), e.End.WithoutPOS()
	a.link(start, end)
	a.link(end, start)
	return nil
}

func (a *Adjacency) link(from, to nodes.ID) {
	set, ok := a.neighbors[from]
	if !ok {
		set = mapset.NewThreadUnsafeSet[nodes.ID]()
		a.neighbors[from] = set
	}
	set.Add(to)
}

// Neighbors returns the nodes adjacent to id.
func (a *Adjacency) Neighbors(id nodes.ID) mapset.Set[nodes.ID] {
	if set, ok := a.neighbors[id.WithoutPOS()]; ok {
		return set
	}
	return mapset.NewThreadUnsafeSet[nodes.ID]()
}

// Len is the number of indexed nodes.
func (a *Adjacency) Len() int { return len(a.neighbors) }

// Neighborhood returns every node within maxDepth hops of start, start
// included, visiting breadth first. A start that is not indexed yields an
// empty set.
func (a *Adjacency) Neighborhood(start nodes.ID, maxDepth int) mapset.Set[nodes.ID] {
	start = start.WithoutPOS()
	visited := mapset.NewThreadUnsafeSet[nodes.ID]()
	if _, ok := a.neighbors[start]; !ok {
		return visited
	}

	visited.Add(start)
	queue := []nodes.ID{start}
	for depth := 0; len(queue) > 0 && depth < maxDepth; depth++ {
		var next []nodes.ID
		for _, current := range queue {
			for r := range a.neighbors[current].Iter() {
				if visited.Add(r) {
					next = append(next, r)
				}
			}
		}
		queue = next
	}
	return visited
}

// Within returns a filter accepting edges whose two ends, senses folded, are
// both in set.
func Within(set mapset.Set[nodes.ID]) func(graph.Edge) bool {
	return func(e graph.Edge) bool {
		return set.Contains(e.Start.WithoutPOS()) && set.Contains(e.End.WithoutPOS())
	}
}
