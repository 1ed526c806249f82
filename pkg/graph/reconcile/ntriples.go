package reconcile

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
)

// SameAs is the predicate of every mapping statement.
const SameAs = "http://www.w3.org/2002/07/owl#sameAs"

// NTriplesWriter writes pairs as
//
//	<uri> <http://www.w3.org/2002/07/owl#sameAs> <http://conceptnet.io/c/...> .
type NTriplesWriter struct {
	w *bufio.Writer
}

// NewNTriplesWriter wraps w. Flush must be called when done.
func NewNTriplesWriter(w io.Writer) *NTriplesWriter {
	return &NTriplesWriter{w: bufio.NewWriter(w)}
}

func (n *NTriplesWriter) WritePair(p Pair) error {
	t := records.Triple{
		Subject:   records.Term{Kind: records.IRI, Value: p.URI},
		Predicate: records.Term{Kind: records.IRI, Value: SameAs},
		Object:    records.Term{Kind: records.IRI, Value: nodes.ExternalURL(p.ID)},
	}
	_, err := n.w.WriteString(t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " .\n")
	return err
}

// Flush writes buffered statements.
func (n *NTriplesWriter) Flush() error {
	return n.w.Flush()
}

// ReadPairs parses a mapping file written by NTriplesWriter. Statements
// with another predicate or a non-concept object are skipped.
func ReadPairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	for rec, err := range records.NTriples(r, "mapping") {
		if err != nil {
			return nil, errors.Wrap(err, "read mapping")
		}
		t := rec.Value
		if t.Predicate.Value != SameAs || t.Object.Kind != records.IRI {
			continue
		}
		id, err := nodes.FromExternalURL(t.Object.Value)
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{URI: t.Subject.Value, ID: id})
	}
	return pairs, nil
}
