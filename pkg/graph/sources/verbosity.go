package sources

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/records"
)

// Clue phrases of the Verbosity game.
var verbosityClues = RelationTable{
	"it is typically near":  {Rel: graph.LocatedNear},
	"it is typically in":    {Rel: graph.AtLocation},
	"it is a kind of":       {Rel: graph.IsA},
	"it is a type of":       {Rel: graph.IsA},
	"it is related to":      {Rel: graph.RelatedTo},
	"it is the opposite of": {Rel: graph.Antonym},
	"it looks like":         {Rel: graph.SimilarTo},
	"it is used for":        {Rel: graph.UsedFor},
	"it has":                {Rel: graph.HasA},
	"it is part of":         {Rel: graph.PartOf},
	"it is made of":         {Rel: graph.MadeOf},
	"it is":                 {Rel: graph.HasProperty},
	"it can":                {Rel: graph.CapableOf},
	"it wants":              {Rel: graph.Desires},
	"it is the same as":     {Rel: graph.Synonym},
	"it sounds like":        {Skip: true},
	"it rhymes with":        {Skip: true},
	"sounds like":           {Skip: true},
	"rhymes with":           {Skip: true},
	"it is spelled like":    {Skip: true},
	"it is the plural of":   {Skip: true},
	"it is the singular of": {Skip: true},
}

var verbosity = Transform{
	Name:            "verbosity",
	Description:     "Import the Verbosity game export (TSV)",
	Inputs:          InputFile,
	Relations:       verbosityClues,
	DefaultWeight:   1.0,
	Merge:           graph.MergeMax,
	DefaultLanguage: "en",
	Dataset:         "/d/verbosity",
	License:         "cc:by/4.0",
	Process:         "/s/process/verbosity",
	drive:           driveVerbosity,
}

func driveVerbosity(ctx context.Context, run *Run) error {
	return eachFile(run, func(path string, r io.Reader) error {
		return read(ctx, run, records.TSV(r, path), func(rec records.Record[[]string]) error {
			return verbosityRecord(ctx, run, rec)
		})
	})
}

// verbosityWeight discounts clues given late in a round.
func verbosityWeight(f []string) (float64, bool) {
	freq, order := 1.0, 0.0
	if len(f) > 3 && f[3] != "" {
		v, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return 0, false
		}
		freq = v
	}
	if len(f) > 4 && f[4] != "" {
		v, err := strconv.ParseFloat(f[4], 64)
		if err != nil || v < 0 {
			return 0, false
		}
		order = v
	}
	return freq / (order + 1), true
}

func verbosityRecord(ctx context.Context, run *Run, rec records.Record[[]string]) error {
	f := rec.Value
	if len(f) < 3 {
		return run.Reject(graph.Malformed(rec.Position, "expected start, clue and end, got %d fields", len(f)))
	}
	start, clue, end := stripDeterminers(f[0]), f[1], stripDeterminers(f[2])

	weight, ok := verbosityWeight(f)
	if !ok {
		return run.Reject(graph.Malformed(rec.Position, "bad frequency or order"))
	}
	if weight <= 0 {
		run.Filtered("%s: non-positive frequency", rec.Position)
		return nil
	}

	if start == "" || end == "" {
		return run.Reject(graph.Malformed(rec.Position, "empty concept"))
	}

	ls, le := strings.ToLower(start), strings.ToLower(end)
	if strings.Contains(ls, le) || strings.Contains(le, ls) {
		run.Filtered("%s: %q and %q give each other away", rec.Position, start, end)
		return nil
	}

	rule, ok := run.Rule(clue)
	if !ok {
		return nil
	}

	spec := graph.EdgeSpec{
		Weight:      graph.Weight(weight),
		SurfaceText: "[[" + start + "]] " + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(clue)), "it ") + " [[" + end + "]]",
	}
	if spec.Start, ok = run.Concept("en", start); !ok {
		return nil
	}
	if spec.End, ok = run.Concept("en", end); !ok {
		return nil
	}
	return run.EmitRule(ctx, rule, spec)
}
