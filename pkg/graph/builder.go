package graph

import (
	"fmt"
	"math"

	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// InvalidEdgeError is returned by Builder.Build when an edge would violate a
// structural invariant.
type InvalidEdgeError struct {
	Reason string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge: %s", e.Reason)
}

// BuilderConfig is the per-source policy a Builder applies. DefaultWeight is
// always supplied by the caller; the builder has no default of its own.
type BuilderConfig struct {
	Dataset       string
	Source        Source
	License       string
	DefaultWeight float64
}

// EdgeSpec is the raw material for one edge. A nil Weight selects the
// builder's default; a nil Source selects the builder's source.
type EdgeSpec struct {
	Start       nodes.ID
	End         nodes.ID
	Rel         Relation
	Weight      *float64
	SurfaceText string
	Source      *Source
}

// Weight returns a pointer to w, for EdgeSpec literals.
func Weight(w float64) *float64 { return &w }

// Builder validates and assembles edges for one source.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates a builder for one source's edges.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Config returns the policy the builder was created with.
func (b *Builder) Config() BuilderConfig { return b.cfg }

// Build returns a complete edge or an error; it never returns a partially
// filled edge.
func (b *Builder) Build(spec EdgeSpec) (Edge, error) {
	if spec.Start.IsZero() || spec.End.IsZero() {
		return Edge{}, &InvalidEdgeError{Reason: "missing start or end"}
	}
	if !spec.Rel.Valid() {
		return Edge{}, &UnknownRelationError{Relation: string(spec.Rel)}
	}

	weight := b.cfg.DefaultWeight
	if spec.Weight != nil {
		weight = *spec.Weight
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Edge{}, &InvalidEdgeError{Reason: fmt.Sprintf("weight %v is not finite", weight)}
	}

	src := b.cfg.Source
	if spec.Source != nil {
		src = *spec.Source
	}
	if !src.Valid() {
		return Edge{}, &InvalidEdgeError{Reason: "missing source"}
	}
	if b.cfg.Dataset == "" {
		return Edge{}, &InvalidEdgeError{Reason: "missing dataset"}
	}

	return Edge{
		Start:       spec.Start,
		End:         spec.End,
		Rel:         spec.Rel,
		Dataset:     b.cfg.Dataset,
		Source:      src,
		License:     b.cfg.License,
		Weight:      weight,
		SurfaceText: spec.SurfaceText,
	}, nil
}
