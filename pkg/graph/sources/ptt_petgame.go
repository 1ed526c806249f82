package sources

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/records"
)

// Sentence frames of the PTT pet game, keyed by template text.
var pttFrames = RelationTable{
	"{1}會讓你{2}":    {Rel: graph.Causes},
	"{1}會讓人{2}":    {Rel: graph.Causes},
	"{1}是一種{2}":    {Rel: graph.IsA},
	"{1}是{2}的一種":   {Rel: graph.IsA},
	"{1}的時候，你會{2}": {Rel: graph.HasSubevent},
	"{1}之前，你會先{2}": {Rel: graph.HasPrerequisite},
	"{1}會在{2}":     {Rel: graph.AtLocation},
	"你可以在{2}找到{1}": {Rel: graph.AtLocation},
	"{1}可以用來{2}":   {Rel: graph.UsedFor},
	"{1}是用來{2}的":   {Rel: graph.UsedFor},
	"{1}會{2}":      {Rel: graph.CapableOf},
	"{1}想要{2}":     {Rel: graph.Desires},
	"{1}不想要{2}":    {Rel: graph.NotDesires},
	"{1}有{2}":      {Rel: graph.HasA},
	"{1}是{2}的一部分":  {Rel: graph.PartOf},
	"{1}是{2}的":     {Rel: graph.HasProperty},
	"{1}讓你想要{2}":   {Rel: graph.CausesDesire},
	"因為{2}所以{1}":   {Rel: graph.MotivatedByGoal},
	"{1}和{2}有關":    {Rel: graph.RelatedTo},
	"{1}是由{2}做成的":  {Rel: graph.MadeOf},
	"{1}的相反是{2}":   {Rel: graph.Antonym},
	"{1}就是{2}":     {Rel: graph.Synonym},
	"{1}會被{2}":     {Rel: graph.ReceivesAction},
	"{1}代表{2}":     {Rel: graph.SymbolOf},
}

var pttPetGame = Transform{
	Name:            "ptt_petgame",
	Description:     "Import the PTT pet game export (TSV, Chinese)",
	Inputs:          InputFile,
	Relations:       pttFrames,
	DefaultWeight:   1.0,
	Merge:           graph.MergeSum,
	DefaultLanguage: "zh",
	Dataset:         "/d/conceptnet/4/zh",
	License:         "cc:by/4.0",
	Process:         "/s/process/ptt_petgame",
	drive:           drivePTTPetGame,
}

func drivePTTPetGame(ctx context.Context, run *Run) error {
	return eachFile(run, func(path string, r io.Reader) error {
		return read(ctx, run, records.TSV(r, path), func(rec records.Record[[]string]) error {
			return pttRecord(ctx, run, rec)
		})
	})
}

func pttRecord(ctx context.Context, run *Run, rec records.Record[[]string]) error {
	f := rec.Value
	if len(f) < 5 {
		return run.Reject(graph.Malformed(rec.Position, "expected frame, start, end, user and score, got %d fields", len(f)))
	}
	frame, start, end, user := f[0], f[1], f[2], f[3]

	score, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return run.Reject(graph.Malformed(rec.Position, "score %q is not a number", f[4]))
	}
	if score <= 0 {
		run.Filtered("%s: non-positive score", rec.Position)
		return nil
	}

	rule, ok := run.Rule(frame)
	if !ok {
		return nil
	}

	spec := graph.EdgeSpec{
		SurfaceText: fillTemplate(frame, start, end),
		Weight:      graph.Weight(score),
	}
	if user = strings.TrimSpace(user); user != "" {
		spec.Source = &graph.Source{
			Contributor: "/s/contributor/petgame/" + user,
			Process:     run.t.Process,
		}
	}
	if spec.Start, ok = run.Concept("zh", start); !ok {
		return nil
	}
	if spec.End, ok = run.Concept("zh", end); !ok {
		return nil
	}
	return run.EmitRule(ctx, rule, spec)
}
