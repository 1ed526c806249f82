package records

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/knakk/rdf"

	"github.com/athapong/kgimport/pkg/graph"
)

// TermKind tells IRIs, blank nodes and literals apart.
type TermKind int

const (
	IRI TermKind = iota
	Blank
	Literal
)

// Term is one position of an RDF triple. Plain literals carry no datatype.
type Term struct {
	Kind     TermKind
	Value    string
	Lang     string
	Datatype string
}

func (t Term) String() string {
	switch t.Kind {
	case IRI:
		return "<" + EscapeIRI(t.Value) + ">"
	case Blank:
		return "_:" + t.Value
	}
	s := strconv.Quote(t.Value)
	if t.Lang != "" {
		return s + "@" + t.Lang
	}
	if t.Datatype != "" {
		return s + "^^<" + EscapeIRI(t.Datatype) + ">"
	}
	return s
}

// Triple is one parsed N-Triples statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NTriples yields the statements of an N-Triples document. Comment and
// blank lines are skipped; unparseable lines are malformed records.
func NTriples(r io.Reader, name string) iter.Seq2[Record[Triple], error] {
	return func(yield func(Record[Triple], error) bool) {
		for line, err := range Lines(r, name) {
			if err != nil {
				yield(Record[Triple]{}, err)
				return
			}
			if strings.HasPrefix(line.Value, "#") {
				continue
			}
			t, err := ParseTriple(line.Value)
			if err != nil {
				if !yield(Record[Triple]{Position: line.Position}, graph.Malformed(line.Position, "%v", err)) {
					return
				}
				continue
			}
			if !yield(Record[Triple]{Position: line.Position, Value: t}, nil) {
				return
			}
		}
	}
}

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// ParseTriple parses a single N-Triples statement. Anything after the
// statement other than a comment is an error.
func ParseTriple(line string) (Triple, error) {
	dec := rdf.NewTripleDecoder(strings.NewReader(line), rdf.NTriples)
	t, err := dec.Decode()
	if err == io.EOF {
		return Triple{}, fmt.Errorf("no statement")
	}
	if err != nil {
		return Triple{}, err
	}
	if _, err := dec.Decode(); err != io.EOF {
		return Triple{}, fmt.Errorf("unexpected content after statement")
	}

	triple := Triple{
		Subject:   fromRDF(t.Subj),
		Predicate: fromRDF(t.Pred),
		Object:    fromRDF(t.Obj),
	}
	if triple.Subject.Kind == Literal {
		return Triple{}, fmt.Errorf("literal in subject position")
	}
	if triple.Predicate.Kind != IRI {
		return Triple{}, fmt.Errorf("predicate must be an IRI")
	}
	return triple, nil
}

func fromRDF(term rdf.Term) Term {
	switch term.Type() {
	case rdf.TermBlank:
		return Term{Kind: Blank, Value: strings.TrimPrefix(term.String(), "_:")}
	case rdf.TermLiteral:
		t := Term{Kind: Literal, Value: term.String()}
		if lit, ok := term.(rdf.Literal); ok {
			t.Lang = lit.Lang()
			if dt := lit.DataType.String(); t.Lang == "" && dt != xsdString {
				t.Datatype = dt
			}
		}
		return t
	}
	return Term{Kind: IRI, Value: term.String()}
}

// EscapeIRI escapes the characters N-Triples does not allow inside an IRI
// reference.
func EscapeIRI(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r <= 0x20, strings.ContainsRune(`<>"{}|^`+"`"+`\`, r):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LocalName returns the part of an IRI after its last '#' or '/'.
func LocalName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
