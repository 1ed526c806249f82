// Package reconcile collects the correspondence between external Semantic
// Web URIs and the concept identifiers they were normalized to, and writes
// it out as owl:sameAs statements.
package reconcile

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// Pair maps one external URI to one identifier.
type Pair struct {
	URI string
	ID  nodes.ID
}

// AliasTable lists groups of identifiers that name the same thing, so a URI
// mapped to two of them is not ambiguous.
type AliasTable struct {
	groups map[string]int
}

// NewAliasTable builds a table from groups of identifier strings. Strings
// that are not canonical identifiers are ignored.
func NewAliasTable(groups [][]string) AliasTable {
	t := AliasTable{groups: make(map[string]int)}
	for i, group := range groups {
		for _, s := range group {
			id, err := nodes.Parse(s)
			if err != nil {
				continue
			}
			t.groups[id.String()] = i + 1
		}
	}
	return t
}

// Aliases reports whether a and b were declared as the same thing.
func (t AliasTable) Aliases(a, b nodes.ID) bool {
	if a == b {
		return true
	}
	ga, ok := t.groups[a.String()]
	return ok && ga == t.groups[b.String()]
}

// MappingWriter receives the pairs of a completed run.
type MappingWriter interface {
	WritePair(Pair) error
}

// Sink accumulates URI pairs for one run.
type Sink struct {
	mutex      sync.Mutex
	aliases    AliasTable
	byURI      map[string][]nodes.ID
	seen       mapset.Set[Pair]
	pairs      []Pair
	onAdvisory func(kind graph.Kind, detail string)
}

// NewSink creates an empty sink. onAdvisory, when non-nil, is told about
// each ambiguous mapping that was refused.
func NewSink(aliases AliasTable, onAdvisory func(kind graph.Kind, detail string)) *Sink {
	return &Sink{
		aliases:    aliases,
		byURI:      make(map[string][]nodes.ID),
		seen:       mapset.NewThreadUnsafeSet[Pair](),
		onAdvisory: onAdvisory,
	}
}

// Record notes that uri was normalized to id. Repeating a pair does
// nothing. A URI that already maps elsewhere only gains id when the two are
// declared aliases; otherwise the first mapping stands.
func (s *Sink) Record(uri string, id nodes.ID) {
	if uri == "" || id.IsZero() {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	pair := Pair{URI: uri, ID: id}
	if s.seen.Contains(pair) {
		return
	}
	for _, existing := range s.byURI[uri] {
		if !s.aliases.Aliases(existing, id) {
			if s.onAdvisory != nil {
				s.onAdvisory(graph.KindAmbiguousAlias,
					fmt.Sprintf("%s already maps to %s, not %s", uri, existing, id))
			}
			return
		}
	}

	s.seen.Add(pair)
	s.byURI[uri] = append(s.byURI[uri], id)
	s.pairs = append(s.pairs, pair)
}

// Lookup returns the identifiers uri maps to.
func (s *Sink) Lookup(uri string) []nodes.ID {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]nodes.ID(nil), s.byURI[uri]...)
}

// Len returns the number of distinct pairs.
func (s *Sink) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.pairs)
}

// Pairs returns the pairs in the order they were first recorded.
func (s *Sink) Pairs() []Pair {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Pair(nil), s.pairs...)
}

// WriteTo sends every pair to w.
func (s *Sink) WriteTo(w MappingWriter) error {
	for _, p := range s.Pairs() {
		if err := w.WritePair(p); err != nil {
			return err
		}
	}
	return nil
}
