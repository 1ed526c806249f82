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
	wordnetNS = "http://wordnet-rdf.princeton.edu/ontology#"
	lemonNS   = "http://lemon-model.net/lemon#"
)

// Relations between synsets, by local name in the WordNet ontology.
var wordnetRelations = RelationTable{
	"hypernym":          {Rel: graph.IsA},
	"instance_hypernym": {Rel: graph.InstanceOf},
	"part_holonym":      {Rel: graph.PartOf},
	"member_holonym":    {Rel: graph.PartOf},
	"part_meronym":      {Rel: graph.PartOf, Reverse: true},
	"member_meronym":    {Rel: graph.PartOf, Reverse: true},
	"substance_meronym": {Rel: graph.MadeOf, Reverse: true},
	"substance_holonym": {Rel: graph.MadeOf},
	"antonym":           {Rel: graph.Antonym},
	"similar":           {Rel: graph.SimilarTo},
	"entails":           {Rel: graph.Entails},
	"entail":            {Rel: graph.Entails},
	"domain_topic":      {Rel: graph.HasContext},
	"domain_category":   {Rel: graph.HasContext},
	"also":              {Rel: graph.RelatedTo},
	"attribute":         {Rel: graph.RelatedTo},
	"hyponym":           {Skip: true},
	"instance_hyponym":  {Skip: true},
}

// Ontology properties that describe a synset rather than relate two.
var wordnetAttributes = map[string]bool{
	"part_of_speech": true,
	"gloss":          true,
	"synset_member":  true,
	"lex_id":         true,
	"lexical_domain": true,
	"sense_number":   true,
	"tag_count":      true,
	"verb_frame":     true,
}

var wordnet = Transform{
	Name:            "wordnet",
	Description:     "Import WordNet RDF (N-Triples)",
	Inputs:          InputFiles,
	Extensions:      []string{".nt"},
	Staged:          true,
	Backend:         StageInMemory,
	Mapping:         true,
	Relations:       wordnetRelations,
	DefaultWeight:   2.0,
	Merge:           graph.MergeFirst,
	Dangling:        staging.DanglingDrop,
	DefaultLanguage: "en",
	Dataset:         "/d/wordnet/3.1",
	License:         "cc:by/4.0",
	Process:         "/s/process/wordnet",
	drive:           driveWordNet,
}

// wnRecord is what pass 1 learns about one entry, sense or synset URI.
type wnRecord struct {
	Label string `msgpack:"label,omitempty"`
	Lang  string `msgpack:"lang,omitempty"`
	POS   string `msgpack:"pos,omitempty"`
	// Entry is the lexical entry a sense belongs to.
	Entry string `msgpack:"entry,omitempty"`
	// Synset is the synset a sense refers to.
	Synset string `msgpack:"synset,omitempty"`
	// Senses of a synset, in order of appearance.
	Senses []string `msgpack:"senses,omitempty"`
}

func mergeWordNet(old, rec wnRecord) wnRecord {
	if rec.Label != "" {
		old.Label, old.Lang = rec.Label, rec.Lang
	}
	if rec.POS != "" {
		old.POS = rec.POS
	}
	if rec.Entry != "" {
		old.Entry = rec.Entry
	}
	if rec.Synset != "" {
		old.Synset = rec.Synset
	}
	for _, s := range rec.Senses {
		if !containsString(old.Senses, s) {
			old.Senses = append(old.Senses, s)
		}
	}
	return old
}

func wordnetPOS(iri string) string {
	return nodes.NormalizePOS(strings.ReplaceAll(records.LocalName(iri), "_", " "))
}

func driveWordNet(ctx context.Context, run *Run) error {
	store, err := openStore[wnRecord](run, staging.WithMerge(mergeWordNet))
	if err != nil {
		return err
	}
	return staging.Run(ctx, store,
		func(ctx context.Context, put staging.Putter[wnRecord]) error {
			return eachFile(run, func(path string, r io.Reader) error {
				return read(ctx, run, records.NTriples(r, path), func(rec records.Record[records.Triple]) error {
					return stageWordNet(run, put, rec.Value)
				})
			})
		},
		func(ctx context.Context, store staging.Reader[wnRecord]) error {
			return eachFile(run, func(path string, r io.Reader) error {
				return reread(ctx, run, records.NTriples(r, path), func(rec records.Record[records.Triple]) error {
					return resolveWordNet(ctx, run, store, rec)
				})
			})
		})
}

func stageWordNet(run *Run, put staging.Putter[wnRecord], t records.Triple) error {
	if t.Subject.Kind != records.IRI {
		return nil
	}
	subject, object := t.Subject.Value, t.Object

	put1 := func(id string, rec wnRecord) error {
		if err := put.Put(id, rec); err != nil {
			return err
		}
		run.Staged()
		return nil
	}

	switch t.Predicate.Value {
	case rdfsNS + "label":
		if object.Kind != records.Literal {
			return nil
		}
		return put1(subject, wnRecord{Label: object.Value, Lang: object.Lang})
	case lemonNS + "sense":
		if object.Kind != records.IRI {
			return nil
		}
		return put1(object.Value, wnRecord{Entry: subject})
	case lemonNS + "reference":
		if object.Kind != records.IRI {
			return nil
		}
		if err := put1(subject, wnRecord{Synset: object.Value}); err != nil {
			return err
		}
		return put1(object.Value, wnRecord{Senses: []string{subject}})
	case wordnetNS + "part_of_speech":
		return put1(subject, wnRecord{POS: wordnetPOS(object.Value)})
	}
	return nil
}

type wordnetResolver struct {
	run   *Run
	store staging.Reader[wnRecord]
}

func (w wordnetResolver) get(uri string) (wnRecord, bool, error) {
	rec, ok, err := w.store.Get(uri)
	if err != nil {
		return rec, false, err
	}
	if !ok {
		w.run.Dangling(uri)
		return rec, false, nil
	}
	w.run.Resolved()
	return rec, true, nil
}

// synset names a synset by its own label, or by the label of its first
// member entry.
func (w wordnetResolver) synset(uri string) (nodes.ID, bool, error) {
	syn, ok, err := w.get(uri)
	if err != nil || !ok {
		return nodes.ID{}, false, err
	}

	label, lang := syn.Label, syn.Lang
	for _, sense := range syn.Senses {
		if label != "" {
			break
		}
		s, ok, err := w.store.Get(sense)
		if err != nil {
			return nodes.ID{}, false, err
		}
		if !ok || s.Entry == "" {
			continue
		}
		entry, ok, err := w.store.Get(s.Entry)
		if err != nil {
			return nodes.ID{}, false, err
		}
		if ok {
			label, lang = entry.Label, entry.Lang
		}
	}
	if label == "" {
		w.run.Dangling(uri + "#label")
		return nodes.ID{}, false, nil
	}

	id, ok := w.run.Sense(lang, label, syn.POS)
	if ok {
		w.run.Map(uri, id)
	}
	return id, ok, nil
}

func resolveWordNet(ctx context.Context, run *Run, store staging.Reader[wnRecord], rec records.Record[records.Triple]) error {
	t := rec.Value
	if t.Subject.Kind != records.IRI {
		return nil
	}
	w := wordnetResolver{run: run, store: store}
	pred := t.Predicate.Value

	switch {
	case pred == lemonNS+"sense":
		return wordnetSense(ctx, w, t.Subject.Value, t.Object.Value)
	case !strings.HasPrefix(pred, wordnetNS):
		return nil
	}

	name := strings.TrimPrefix(pred, wordnetNS)
	if wordnetAttributes[name] {
		return nil
	}
	rule, ok := run.Rule(name)
	if !ok {
		return nil
	}
	if t.Object.Kind != records.IRI {
		return run.Reject(graph.Malformed(rec.Position, "object of %s is not an IRI", name))
	}

	start, ok, err := w.synset(t.Subject.Value)
	if err != nil || !ok {
		return err
	}
	end, ok, err := w.synset(t.Object.Value)
	if err != nil || !ok {
		return err
	}
	return run.EmitRule(ctx, rule, graph.EdgeSpec{Start: start, End: end})
}

// wordnetSense links an entry to the synset one of its senses belongs to.
func wordnetSense(ctx context.Context, w wordnetResolver, entryURI, senseURI string) error {
	entry, ok, err := w.get(entryURI)
	if err != nil || !ok {
		return err
	}
	sense, ok, err := w.get(senseURI)
	if err != nil || !ok {
		return err
	}
	if sense.Synset == "" {
		w.run.Dangling(senseURI + "#reference")
		return nil
	}
	syn, ok, err := w.get(sense.Synset)
	if err != nil || !ok {
		return err
	}
	if entry.Label == "" {
		w.run.Dangling(entryURI + "#label")
		return nil
	}

	entryID, ok := w.run.Sense(entry.Lang, entry.Label, syn.POS)
	if !ok {
		return nil
	}
	w.run.Map(entryURI, entryID)

	synsetID, ok, err := w.synset(sense.Synset)
	if err != nil || !ok {
		return err
	}
	if synsetID == entryID {
		return nil
	}
	return w.run.Emit(ctx, graph.EdgeSpec{Start: entryID, End: synsetID, Rel: graph.Synonym})
}
