package graph

import (
	"context"
	"strings"

	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// Source describes who or what produced an edge. At least one of
// Contributor or Process must be set.
type Source struct {
	Contributor string `json:"contributor,omitempty" msgpack:"contributor,omitempty"`
	Process     string `json:"process,omitempty" msgpack:"process,omitempty"`
	Activity    string `json:"activity,omitempty" msgpack:"activity,omitempty"`
}

// Valid reports whether s carries enough provenance to be attached to an edge.
func (s Source) Valid() bool {
	return s.Contributor != "" || s.Process != ""
}

// Edge is a normalized assertion between two concepts.
type Edge struct {
	Start       nodes.ID
	End         nodes.ID
	Rel         Relation
	Dataset     string
	Source      Source
	License     string
	Weight      float64
	SurfaceText string
}

// URI returns the assertion identifier, e.g. "/a/[/r/IsA/,/c/en/cat/,/c/en/animal/]".
func (e Edge) URI() string {
	var b strings.Builder
	b.WriteString("/a/[")
	b.WriteString(e.Rel.URI())
	b.WriteString("/,")
	b.WriteString(e.Start.String())
	b.WriteString("/,")
	b.WriteString(e.End.String())
	b.WriteString("/]")
	return b.String()
}

// EdgeKey identifies duplicates: two edges with the same key are the same
// assertion from the same source.
type EdgeKey struct {
	Start   string
	End     string
	Rel     Relation
	Dataset string
	Source  Source
}

// Key returns the duplicate-detection key of e.
func (e Edge) Key() EdgeKey {
	return EdgeKey{
		Start:   e.Start.String(),
		End:     e.End.String(),
		Rel:     e.Rel,
		Dataset: e.Dataset,
		Source:  e.Source,
	}
}

// Sink receives finished edges. Implementations live in the storage package.
type Sink interface {
	Write(ctx context.Context, e Edge) error
	Close() error
}
