package sources

import (
	"context"
	"io"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"
	owlNS  = "http://www.w3.org/2002/07/owl#"
	skosNS = "http://www.w3.org/2004/02/skos/core#"
)

// Predicate IRIs, matched case-insensitively like every relation table.
var umbelPredicates = newRelationTable(map[string]RelationRule{
	rdfsNS + "subClassOf":     {Rel: graph.IsA},
	rdfNS + "type":            {Rel: graph.IsA},
	skosNS + "broader":        {Rel: graph.IsA},
	skosNS + "narrower":       {Rel: graph.IsA, Reverse: true},
	owlNS + "disjointWith":    {Rel: graph.DistinctFrom},
	skosNS + "related":        {Rel: graph.RelatedTo},
	owlNS + "equivalentClass": {Rel: graph.Synonym},
})

// Predicates that carry attributes rather than relations between concepts.
var umbelAttributes = map[string]bool{
	rdfsNS + "label":         true,
	rdfsNS + "comment":       true,
	rdfsNS + "isDefinedBy":   true,
	skosNS + "prefLabel":     true,
	skosNS + "definition":    true,
	skosNS + "scopeNote":     true,
	skosNS + "editorialNote": true,
	skosNS + "hiddenLabel":   true,
	owlNS + "versionInfo":    true,
}

var umbel = Transform{
	Name:            "umbel",
	Description:     "Import a directory of UMBEL N-Triples files",
	Inputs:          InputDir,
	Extensions:      []string{".nt"},
	Staged:          true,
	Backend:         StageOnDisk,
	Mapping:         true,
	Relations:       umbelPredicates,
	DefaultWeight:   1.0,
	Merge:           graph.MergeFirst,
	DefaultLanguage: "en",
	Dataset:         "/d/umbel",
	License:         "cc:by/4.0",
	Process:         "/s/process/umbel",
	drive:           driveUMBEL,
}

// rdfLabels are the staged names of one resource.
type rdfLabels struct {
	Label    string   `msgpack:"label"`
	Pref     bool     `msgpack:"pref"`
	AltLabel []string `msgpack:"alt"`
}

func mergeLabels(old, rec rdfLabels) rdfLabels {
	switch {
	case rec.Label == "":
	case old.Label == "", rec.Pref && !old.Pref:
		old.Label, old.Pref = rec.Label, rec.Pref
	}
	for _, alt := range rec.AltLabel {
		if !containsString(old.AltLabel, alt) {
			old.AltLabel = append(old.AltLabel, alt)
		}
	}
	return old
}

// englishLiteral reports whether t is a literal a label may be taken from.
func englishLiteral(t records.Term) bool {
	if t.Kind != records.Literal {
		return false
	}
	return t.Lang == "" || nodes.CanonicalLanguage(t.Lang) == "en"
}

// vocabularyTerm reports whether iri belongs to one of the schema
// vocabularies rather than to the ontology being imported.
func vocabularyTerm(iri string) bool {
	for _, ns := range []string{rdfNS, rdfsNS, owlNS, skosNS} {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}

func driveUMBEL(ctx context.Context, run *Run) error {
	store, err := openStore[rdfLabels](run, staging.WithMerge(mergeLabels))
	if err != nil {
		return err
	}
	return staging.Run(ctx, store,
		func(ctx context.Context, put staging.Putter[rdfLabels]) error {
			return eachFile(run, func(path string, r io.Reader) error {
				return read(ctx, run, records.NTriples(r, path), func(rec records.Record[records.Triple]) error {
					return stageUMBEL(run, put, rec.Value)
				})
			})
		},
		func(ctx context.Context, labels staging.Reader[rdfLabels]) error {
			return eachFile(run, func(path string, r io.Reader) error {
				return reread(ctx, run, records.NTriples(r, path), func(rec records.Record[records.Triple]) error {
					return resolveUMBEL(ctx, run, labels, rec)
				})
			})
		})
}

func stageUMBEL(run *Run, put staging.Putter[rdfLabels], t records.Triple) error {
	if t.Subject.Kind != records.IRI || !englishLiteral(t.Object) {
		return nil
	}

	var rec rdfLabels
	switch t.Predicate.Value {
	case skosNS + "prefLabel":
		rec = rdfLabels{Label: t.Object.Value, Pref: true}
	case rdfsNS + "label":
		rec = rdfLabels{Label: t.Object.Value}
	case skosNS + "altLabel":
		rec = rdfLabels{AltLabel: []string{t.Object.Value}}
	default:
		return nil
	}
	if err := put.Put(t.Subject.Value, rec); err != nil {
		return err
	}
	run.Staged()
	return nil
}

// umbelConcept names a resource by its label, or by its local name when it
// has none.
func umbelConcept(run *Run, labels staging.Reader[rdfLabels], uri string) (nodes.ID, bool, error) {
	rec, ok, err := labels.Get(uri)
	if err != nil {
		return nodes.ID{}, false, err
	}

	text := rec.Label
	if ok && text != "" {
		run.Resolved()
	} else {
		run.Missed()
		run.Unlabeled(uri)
		text = splitCamelCase(records.LocalName(uri))
	}

	id, ok := run.Concept("en", text)
	if !ok {
		return id, false, nil
	}
	run.Map(uri, id)
	return id, true, nil
}

func resolveUMBEL(ctx context.Context, run *Run, labels staging.Reader[rdfLabels], rec records.Record[records.Triple]) error {
	t := rec.Value
	if t.Subject.Kind != records.IRI {
		return nil
	}
	pred := t.Predicate.Value

	if pred == skosNS+"altLabel" {
		if !englishLiteral(t.Object) {
			return nil
		}
		start, ok, err := umbelConcept(run, labels, t.Subject.Value)
		if err != nil || !ok {
			return err
		}
		end, ok := run.Concept("en", t.Object.Value)
		if !ok || end == start {
			return nil
		}
		return run.Emit(ctx, graph.EdgeSpec{Start: start, End: end, Rel: graph.Synonym})
	}

	if umbelAttributes[pred] {
		return nil
	}
	rule, known := run.Rule(pred)
	switch {
	case !known:
		return nil
	case t.Object.Kind != records.IRI:
		return run.Reject(graph.Malformed(rec.Position, "object of %s is not an IRI", records.LocalName(pred)))
	case vocabularyTerm(t.Object.Value):
		run.Filtered("%s: %s is a schema term", rec.Position, records.LocalName(t.Object.Value))
		return nil
	}

	start, ok, err := umbelConcept(run, labels, t.Subject.Value)
	if err != nil || !ok {
		return err
	}
	end, ok, err := umbelConcept(run, labels, t.Object.Value)
	if err != nil || !ok {
		return err
	}
	return run.EmitRule(ctx, rule, graph.EdgeSpec{Start: start, End: end})
}
