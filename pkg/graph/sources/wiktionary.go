package sources

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

// Fields of a Wiktionary record that are not relation markers.
var wiktionaryReserved = map[string]bool{
	"id":           true,
	"lang":         true,
	"lemma":        true,
	"pos":          true,
	"translations": true,
	"contexts":     true,
	"etymology":    true,
}

var wiktionaryMarkers = RelationTable{
	"synonym":   {Rel: graph.Synonym},
	"synonyms":  {Rel: graph.Synonym},
	"sees_as":   {Rel: graph.Synonym},
	"antonym":   {Rel: graph.Antonym},
	"antonyms":  {Rel: graph.Antonym},
	"hypernym":  {Rel: graph.IsA},
	"hypernyms": {Rel: graph.IsA},
	"hyponym":   {Rel: graph.IsA, Reverse: true},
	"hyponyms":  {Rel: graph.IsA, Reverse: true},
	"related":   {Rel: graph.RelatedTo},
	"see_also":  {Rel: graph.RelatedTo},
	"derived":   {Rel: graph.DerivedFrom},
	"form_of":   {Rel: graph.FormOf},
}

var wiktionaryPre = Transform{
	Name:            "wiktionary_pre",
	Description:     "Stage Wiktionary entries into a SQLite file for a later wiktionary run",
	Inputs:          InputFiles,
	Staged:          true,
	Backend:         StageOnDisk,
	Prepare:         true,
	Merge:           graph.MergeFirst,
	DefaultLanguage: "en",
	Dataset:         "/d/wiktionary",
	License:         "cc:by-sa/4.0",
	Process:         "/s/process/wiktionary",
	drive:           driveWiktionaryPre,
}

var wiktionary = Transform{
	Name:            "wiktionary",
	Description:     "Import Wiktionary entries (JSON lines), optionally against a prepared SQLite file",
	Inputs:          InputFile,
	Staged:          true,
	Backend:         StageOnDisk,
	NeedsDB:         true,
	Relations:       wiktionaryMarkers,
	DefaultWeight:   1.0,
	Merge:           graph.MergeFirst,
	Dangling:        staging.DanglingDrop,
	DefaultLanguage: "en",
	Dataset:         "/d/wiktionary",
	License:         "cc:by-sa/4.0",
	Process:         "/s/process/wiktionary",
	drive:           driveWiktionary,
}

// wkEntry is the staged form of one Wiktionary record.
type wkEntry struct {
	Lemma string `msgpack:"lemma"`
	Lang  string `msgpack:"lang"`
	POS   string `msgpack:"pos,omitempty"`
}

func stageWiktionary(ctx context.Context, run *Run, put staging.Putter[wkEntry]) error {
	return eachFile(run, func(path string, r io.Reader) error {
		return read(ctx, run, records.JSONLines(r, path), func(rec records.Record[gjson.Result]) error {
			v := rec.Value
			id, lemma := v.Get("id").String(), v.Get("lemma").String()
			if id == "" || lemma == "" {
				return run.Reject(graph.Malformed(rec.Position, "missing id or lemma"))
			}
			err := put.Put(id, wkEntry{
				Lemma: lemma,
				Lang:  nodes.CanonicalLanguage(run.Language(v.Get("lang").String())),
				POS:   v.Get("pos").String(),
			})
			if err != nil {
				return err
			}
			run.Staged()
			return nil
		})
	})
}

func driveWiktionaryPre(ctx context.Context, run *Run) (err error) {
	store, err := staging.NewSQLite[wkEntry](run.job.DB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := stageWiktionary(ctx, run, store); err != nil {
		return err
	}
	run.Log().WithField("db", run.job.DB).Info("Sealing prepared Wiktionary store")
	return store.Seal()
}

func driveWiktionary(ctx context.Context, run *Run) error {
	if run.job.DB == "" {
		store, err := openStore[wkEntry](run)
		if err != nil {
			return err
		}
		return staging.Run(ctx, store,
			func(ctx context.Context, put staging.Putter[wkEntry]) error {
				return stageWiktionary(ctx, run, put)
			},
			func(ctx context.Context, read staging.Reader[wkEntry]) error {
				return resolveWiktionary(ctx, run, read, false)
			})
	}

	store, err := staging.OpenSealedSQLite[wkEntry](run.job.DB)
	if err != nil {
		return errors.Wrap(err, "wiktionary needs a store prepared by wiktionary_pre")
	}
	defer store.Close()
	if err := store.BeginResolve(); err != nil {
		return err
	}
	return resolveWiktionary(ctx, run, store, true)
}

// resolveWiktionary streams the input and emits one edge per resolvable
// reference. first is set when the input was not read by a staging pass.
func resolveWiktionary(ctx context.Context, run *Run, store staging.Reader[wkEntry], first bool) error {
	scanner := reread[gjson.Result]
	if first {
		scanner = read[gjson.Result]
	}
	w := wiktionaryResolver{run: run, store: store}

	return eachFile(run, func(path string, r io.Reader) error {
		return scanner(ctx, run, records.JSONLines(r, path), func(rec records.Record[gjson.Result]) error {
			v := rec.Value
			lemma := v.Get("lemma").String()
			if v.Get("id").String() == "" || lemma == "" {
				if first {
					return run.Reject(graph.Malformed(rec.Position, "missing id or lemma"))
				}
				return nil
			}
			lang := nodes.CanonicalLanguage(run.Language(v.Get("lang").String()))
			start, ok := run.Sense(lang, lemma, v.Get("pos").String())
			if !ok {
				return nil
			}
			return w.record(ctx, start, v)
		})
	})
}

type wiktionaryResolver struct {
	run   *Run
	store staging.Reader[wkEntry]
}

func (w wiktionaryResolver) record(ctx context.Context, start nodes.ID, v gjson.Result) error {
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		marker := key.String()
		switch {
		case marker == "translations":
			err = w.terms(ctx, start, graph.Synonym, value)
		case marker == "etymology":
			err = w.terms(ctx, start, graph.EtymologicallyDerivedFrom, value)
		case marker == "contexts":
			err = w.contexts(ctx, start, value)
		case wiktionaryReserved[marker]:
		default:
			rule, ok := w.run.Rule(marker)
			if !ok {
				return true
			}
			err = w.references(ctx, start, rule, value)
		}
		return err == nil
	})
	return err
}

// references handles a marker whose value is an id, a list of ids, or an
// object {"id", "term", "lang"}.
func (w wiktionaryResolver) references(ctx context.Context, start nodes.ID, rule RelationRule, value gjson.Result) error {
	if value.IsArray() {
		for _, item := range value.Array() {
			if err := w.references(ctx, start, rule, item); err != nil {
				return err
			}
		}
		return nil
	}

	end, ok, err := w.target(value)
	if err != nil || !ok {
		return err
	}
	return w.run.EmitRule(ctx, rule, graph.EdgeSpec{Start: start, End: end})
}

func (w wiktionaryResolver) target(value gjson.Result) (nodes.ID, bool, error) {
	id, term, lang := value.String(), "", ""
	if value.IsObject() {
		id = value.Get("id").String()
		term, lang = value.Get("term").String(), value.Get("lang").String()
	}
	if id == "" {
		if term == "" {
			w.run.Reject(graph.Malformed(value.Raw, "reference without id or term"))
			return nodes.ID{}, false, nil
		}
		end, ok := w.run.Concept(nodes.CanonicalLanguage(w.run.Language(lang)), term)
		return end, ok, nil
	}

	entry, ok, err := w.store.Get(id)
	if err != nil {
		return nodes.ID{}, false, err
	}
	if ok {
		w.run.Resolved()
		end, ok := w.run.Sense(entry.Lang, entry.Lemma, entry.POS)
		return end, ok, nil
	}

	w.run.Dangling(id)
	if !w.run.Fallback() || term == "" {
		return nodes.ID{}, false, nil
	}
	end, ok := w.run.Concept(nodes.CanonicalLanguage(w.run.Language(lang)), term)
	return end, ok, nil
}

// terms handles lists of {"lang", "term"} objects naming words directly.
func (w wiktionaryResolver) terms(ctx context.Context, start nodes.ID, rel graph.Relation, value gjson.Result) error {
	for _, item := range value.Array() {
		term := item.Get("term").String()
		if term == "" {
			w.run.Reject(graph.Malformed(item.Raw, "%s entry without term", rel))
			continue
		}
		end, ok := w.run.Concept(nodes.CanonicalLanguage(w.run.Language(item.Get("lang").String())), term)
		if !ok {
			continue
		}
		if err := w.run.Emit(ctx, graph.EdgeSpec{Start: start, End: end, Rel: rel}); err != nil {
			return err
		}
	}
	return nil
}

func (w wiktionaryResolver) contexts(ctx context.Context, start nodes.ID, value gjson.Result) error {
	for _, item := range value.Array() {
		end, ok := w.run.Concept("en", item.String())
		if !ok {
			continue
		}
		if err := w.run.Emit(ctx, graph.EdgeSpec{Start: start, End: end, Rel: graph.HasContext}); err != nil {
			return err
		}
	}
	return nil
}
