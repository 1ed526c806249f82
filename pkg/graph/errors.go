package graph

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph/nodes"
)

// Kind classifies a per-record problem. Problems with a Kind never abort a
// run; they are counted in the run's Report.
type Kind string

const (
	// KindMalformedRecord indicates a record could not be decoded into the
	// fields its source expects.
	KindMalformedRecord Kind = "malformed_record"
	// KindNormalization indicates a term could not be normalized.
	KindNormalization Kind = "normalization"
	// KindUnknownRelation indicates a relation marker with no mapping.
	KindUnknownRelation Kind = "unknown_relation"
	// KindInvalidEdge indicates the builder rejected an edge.
	KindInvalidEdge Kind = "invalid_edge"

	// KindDanglingReference indicates a cross-reference to a record that was
	// never staged.
	KindDanglingReference Kind = "dangling_reference"
	// KindAmbiguousAlias indicates one external URI was mapped to two
	// identifiers that are not declared aliases.
	KindAmbiguousAlias Kind = "ambiguous_alias"
	// KindUnlabeledURI indicates a Semantic Web resource had no label and
	// was named from its URI.
	KindUnlabeledURI Kind = "unlabeled_uri"
	// KindFiltered indicates a well-formed record skipped by source policy.
	KindFiltered Kind = "filtered"
)

// Advisory reports whether k is a data-quality note rather than a rejected
// record.
func (k Kind) Advisory() bool {
	switch k {
	case KindDanglingReference, KindAmbiguousAlias, KindUnlabeledURI, KindFiltered:
		return true
	}
	return false
}

// MalformedRecordError wraps a decoding problem with the record's position.
type MalformedRecordError struct {
	Position string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %s: %v", e.Position, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Malformed builds a MalformedRecordError.
func Malformed(position string, format string, args ...interface{}) error {
	return &MalformedRecordError{Position: position, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of a per-record error, or "" when err is
// structural and should abort the run.
func KindOf(err error) Kind {
	var (
		malformed *MalformedRecordError
		normErr   *nodes.NormalizationError
		relErr    *UnknownRelationError
		edgeErr   *InvalidEdgeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &malformed):
		return KindMalformedRecord
	case errors.As(err, &normErr):
		return KindNormalization
	case errors.As(err, &relErr):
		return KindUnknownRelation
	case errors.As(err, &edgeErr):
		return KindInvalidEdge
	}
	return ""
}
