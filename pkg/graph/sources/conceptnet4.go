package sources

import (
	"context"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
)

// Relation names used by ConceptNet 4 that were renamed or retired.
var conceptNet4Relations = canonicalRelations(RelationTable{
	"ConceptuallyRelatedTo":    {Rel: graph.RelatedTo},
	"ThematicKLine":            {Rel: graph.RelatedTo},
	"SuperThematicKLine":       {Rel: graph.IsA},
	"PropertyOf":               {Rel: graph.HasProperty},
	"LocationOf":               {Rel: graph.AtLocation},
	"DesireOf":                 {Rel: graph.Desires},
	"EffectOf":                 {Rel: graph.Causes},
	"CapableOfReceivingAction": {Rel: graph.ReceivesAction},
	"SubeventOf":               {Rel: graph.HasSubevent, Reverse: true},
	"FirstSubeventOf":          {Rel: graph.HasFirstSubevent, Reverse: true},
	"LastSubeventOf":           {Rel: graph.HasLastSubevent, Reverse: true},
	"PrerequisiteEventOf":      {Rel: graph.HasPrerequisite, Reverse: true},
	"MotivationOf":             {Rel: graph.MotivatedByGoal, Reverse: true},
	"HasPainIntensity":         {Skip: true},
	"HasPainCharacter":         {Skip: true},
	"InheritsFrom":             {Skip: true},
})

// Contributors whose ConceptNet 4 submissions are known to be vandalism.
var conceptNet4Blocklist = []string{
	"/s/contributor/omcs/bugmenot",
}

var conceptNet4 = Transform{
	Name:            "conceptnet4",
	Description:     "Import a file of JSON lines exported from ConceptNet 4",
	Inputs:          InputFile,
	Relations:       conceptNet4Relations,
	DefaultWeight:   1.0,
	Merge:           graph.MergeSum,
	DefaultLanguage: "en",
	Dataset:         "/d/conceptnet/4",
	License:         "cc:by/4.0",
	Process:         "/s/process/conceptnet4",
	drive:           driveConceptNet4,
}

func driveConceptNet4(ctx context.Context, run *Run) error {
	for _, c := range conceptNet4Blocklist {
		run.blocklist.Add(c)
	}

	return eachFile(run, func(path string, r io.Reader) error {
		return read(ctx, run, records.JSONLines(r, path), func(rec records.Record[gjson.Result]) error {
			return conceptNet4Record(ctx, run, rec)
		})
	})
}

func conceptNet4Record(ctx context.Context, run *Run, rec records.Record[gjson.Result]) error {
	v := rec.Value
	start, end, marker := v.Get("start").String(), v.Get("end").String(), v.Get("rel").String()
	if start == "" || end == "" || marker == "" {
		return run.Reject(graph.Malformed(rec.Position, "missing start, end or rel"))
	}

	contributor := v.Get("contributor").String()
	if contributor != "" && !strings.HasPrefix(contributor, "/s/") {
		contributor = "/s/contributor/omcs/" + contributor
	}
	if run.Blocked(contributor) {
		run.Filtered("%s: blocked contributor %s", rec.Position, contributor)
		return nil
	}

	score := v.Get("score")
	weight := run.t.DefaultWeight
	if score.Exists() {
		weight = score.Float()
		if weight <= 0 {
			run.Filtered("%s: non-positive score", rec.Position)
			return nil
		}
	}

	rule, ok := run.Rule(marker)
	if !ok {
		return nil
	}

	lang := nodes.CanonicalLanguage(run.Language(v.Get("lang").String()))
	if lang == "en" {
		start, end = stripDeterminers(start), stripDeterminers(end)
	}
	startID, ok := run.Concept(lang, start)
	if !ok {
		return nil
	}
	endID, ok := run.Concept(lang, end)
	if !ok {
		return nil
	}

	surface := v.Get("surface_text").String()
	if surface == "" {
		if frame := v.Get("frame_text").String(); frame != "" {
			surface = fillTemplate(frame, start, end)
		}
	}

	spec := graph.EdgeSpec{
		Start:       startID,
		End:         endID,
		Weight:      graph.Weight(weight),
		SurfaceText: surface,
	}
	if contributor != "" {
		spec.Source = &graph.Source{
			Contributor: contributor,
			Process:     run.t.Process,
			Activity:    v.Get("activity").String(),
		}
	}
	return run.EmitRule(ctx, rule, spec)
}
