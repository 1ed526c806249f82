package sources

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

// GlobalMind uses country codes for some languages.
var globalMindLanguages = map[string]string{
	"kr": "ko",
	"tw": "zh",
}

var globalMindRelations = canonicalRelations(RelationTable{
	"ConceptuallyRelatedTo": {Rel: graph.RelatedTo},
	"ThematicKLine":         {Rel: graph.RelatedTo},
	"PropertyOf":            {Rel: graph.HasProperty},
	"EffectOf":              {Rel: graph.Causes},
	"DesireOf":              {Rel: graph.Desires},
	"SubeventOf":            {Rel: graph.HasSubevent, Reverse: true},
	"PrerequisiteEventOf":   {Rel: graph.HasPrerequisite, Reverse: true},
})

var globalMind = Transform{
	Name:            "globalmind",
	Description:     "Import a directory of JSON lines exported from GlobalMind",
	Inputs:          InputDir,
	Extensions:      []string{".jsons", ".jsonl", ".json"},
	Staged:          true,
	Backend:         StageInMemory,
	Relations:       globalMindRelations,
	DefaultWeight:   1.0,
	Merge:           graph.MergeSum,
	Dangling:        staging.DanglingDrop,
	DefaultLanguage: "en",
	Dataset:         "/d/globalmind",
	License:         "cc:by/4.0",
	Process:         "/s/process/globalmind",
	drive:           driveGlobalMind,
}

// gmRecord is one staged GlobalMind object; Kind says which fields apply.
type gmRecord struct {
	Kind string

	Language string
	Relation string
	Text     string

	Node1  string
	Node2  string
	Frame  string
	Author string

	Assertion1 string
	Assertion2 string

	Username string
}

func gmKind(path string) string {
	base := strings.ToLower(filepath.Base(path))
	for _, kind := range []string{"frame", "assertion", "translation", "user"} {
		if strings.HasPrefix(base, "gm"+kind) {
			return kind
		}
	}
	return ""
}

func gmKey(kind, pk string) string {
	return kind + ":" + pk
}

func driveGlobalMind(ctx context.Context, run *Run) error {
	store, err := openStore[gmRecord](run)
	if err != nil {
		return err
	}
	return staging.Run(ctx, store,
		func(ctx context.Context, put staging.Putter[gmRecord]) error {
			return stageGlobalMind(ctx, run, put)
		},
		func(ctx context.Context, read staging.Reader[gmRecord]) error {
			return resolveGlobalMind(ctx, run, read)
		})
}

func stageGlobalMind(ctx context.Context, run *Run, put staging.Putter[gmRecord]) error {
	return eachFile(run, func(path string, r io.Reader) error {
		kind := gmKind(path)
		if kind == "" {
			run.Log().WithField("file", path).Warn("Skipping file with unrecognized GlobalMind table name")
			return nil
		}

		return read(ctx, run, records.JSONLines(r, path), func(rec records.Record[gjson.Result]) error {
			pk := rec.Value.Get("pk").String()
			fields := rec.Value.Get("fields")
			if pk == "" || !fields.IsObject() {
				return run.Reject(graph.Malformed(rec.Position, "expected pk and fields"))
			}

			g := gmRecord{Kind: kind}
			switch kind {
			case "frame":
				g.Language = fields.Get("language").String()
				g.Relation = fields.Get("relation").String()
				g.Text = fields.Get("text").String()
			case "assertion":
				g.Node1 = fields.Get("node1").String()
				g.Node2 = fields.Get("node2").String()
				g.Frame = fields.Get("frame").String()
				g.Author = fields.Get("author").String()
			case "translation":
				g.Assertion1 = fields.Get("assertion1").String()
				g.Assertion2 = fields.Get("assertion2").String()
			case "user":
				g.Username = fields.Get("username").String()
			}

			if err := put.Put(gmKey(kind, pk), g); err != nil {
				return err
			}
			run.Staged()
			return nil
		})
	})
}

func gmLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if lang, ok := globalMindLanguages[code]; ok {
		return lang
	}
	return nodes.CanonicalLanguage(code)
}

func resolveGlobalMind(ctx context.Context, run *Run, store staging.Reader[gmRecord]) error {
	lookup := func(kind, pk string) (gmRecord, bool, error) {
		rec, ok, err := store.Get(gmKey(kind, pk))
		if err != nil {
			return rec, false, err
		}
		if !ok {
			run.Dangling(gmKey(kind, pk))
			return rec, false, nil
		}
		run.Resolved()
		return rec, true, nil
	}

	return store.Each(func(key string, rec gmRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch rec.Kind {
		case "assertion":
			return gmAssertion(ctx, run, rec, lookup)
		case "translation":
			return gmTranslation(ctx, run, rec, lookup)
		}
		return nil
	})
}

type gmLookup func(kind, pk string) (gmRecord, bool, error)

func gmAssertion(ctx context.Context, run *Run, a gmRecord, lookup gmLookup) error {
	frame, ok, err := lookup("frame", a.Frame)
	if err != nil || !ok {
		return err
	}
	rule, ok := run.Rule(frame.Relation)
	if !ok {
		return nil
	}

	lang := gmLanguage(frame.Language)
	start, ok := run.Concept(lang, a.Node1)
	if !ok {
		return nil
	}
	end, ok := run.Concept(lang, a.Node2)
	if !ok {
		return nil
	}

	spec := graph.EdgeSpec{
		Start:       start,
		End:         end,
		SurfaceText: fillTemplate(frame.Text, a.Node1, a.Node2),
	}
	if a.Author != "" {
		user, ok, err := lookup("user", a.Author)
		if err != nil {
			return err
		}
		if ok && user.Username != "" {
			spec.Source = &graph.Source{
				Contributor: "/s/contributor/globalmind/" + user.Username,
				Process:     run.t.Process,
			}
		}
	}
	return run.EmitRule(ctx, rule, spec)
}

// gmTranslation links the corresponding ends of two assertions made in
// different languages.
func gmTranslation(ctx context.Context, run *Run, tr gmRecord, lookup gmLookup) error {
	type side struct {
		lang   string
		n1, n2 string
	}
	var sides [2]side
	for i, pk := range []string{tr.Assertion1, tr.Assertion2} {
		a, ok, err := lookup("assertion", pk)
		if err != nil || !ok {
			return err
		}
		frame, ok, err := lookup("frame", a.Frame)
		if err != nil || !ok {
			return err
		}
		sides[i] = side{lang: gmLanguage(frame.Language), n1: a.Node1, n2: a.Node2}
	}

	if sides[0].lang == sides[1].lang {
		run.Filtered("translation between two %s assertions", sides[0].lang)
		return nil
	}

	pairs := [][2]string{{sides[0].n1, sides[1].n1}, {sides[0].n2, sides[1].n2}}
	for _, p := range pairs {
		start, ok := run.Concept(sides[0].lang, p[0])
		if !ok {
			continue
		}
		end, ok := run.Concept(sides[1].lang, p[1])
		if !ok {
			continue
		}
		err := run.Emit(ctx, graph.EdgeSpec{
			Start:       start,
			End:         end,
			Rel:         graph.Synonym,
			SurfaceText: fmt.Sprintf("[[%s]] is a translation of [[%s]]", p[0], p[1]),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
