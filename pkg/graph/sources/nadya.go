package sources

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/records"
)

var nadya = Transform{
	Name:            "nadya",
	Description:     "Import the nadya.jp Japanese game export (CSV)",
	Inputs:          InputFile,
	Relations:       canonicalRelations(nil),
	DefaultWeight:   1.0,
	Merge:           graph.MergeSum,
	DefaultLanguage: "ja",
	Dataset:         "/d/nadya.jp",
	License:         "cc:by/4.0",
	Process:         "/s/process/nadya",
	drive:           driveNadya,
}

func driveNadya(ctx context.Context, run *Run) error {
	return eachFile(run, func(path string, r io.Reader) error {
		first := true
		return read(ctx, run, records.CSV(r, path), func(rec records.Record[[]string]) error {
			header := first && len(rec.Value) > 0 && strings.EqualFold(strings.TrimSpace(rec.Value[0]), "relation")
			first = false
			if header {
				run.Filtered("%s: header row", rec.Position)
				return nil
			}
			return nadyaRecord(ctx, run, rec)
		})
	})
}

func nadyaRecord(ctx context.Context, run *Run, rec records.Record[[]string]) error {
	f := rec.Value
	if len(f) < 3 {
		return run.Reject(graph.Malformed(rec.Position, "expected relation,start,end, got %d fields", len(f)))
	}
	marker, start, end := strings.TrimSpace(f[0]), f[1], f[2]

	spec := graph.EdgeSpec{}
	if len(f) > 3 && strings.TrimSpace(f[3]) != "" {
		spec.Source = &graph.Source{
			Contributor: "/s/contributor/nadya.jp/" + strings.TrimSpace(f[3]),
			Process:     run.t.Process,
		}
	}
	if len(f) > 4 && strings.TrimSpace(f[4]) != "" {
		freq, err := strconv.ParseFloat(strings.TrimSpace(f[4]), 64)
		if err != nil {
			return run.Reject(graph.Malformed(rec.Position, "frequency %q is not a number", f[4]))
		}
		if freq <= 0 {
			run.Filtered("%s: non-positive frequency", rec.Position)
			return nil
		}
		spec.Weight = graph.Weight(freq)
	}

	rule, ok := run.Rule(marker)
	if !ok {
		return nil
	}
	if spec.Start, ok = run.Concept("ja", start); !ok {
		return nil
	}
	if spec.End, ok = run.Concept("ja", end); !ok {
		return nil
	}
	return run.EmitRule(ctx, rule, spec)
}
