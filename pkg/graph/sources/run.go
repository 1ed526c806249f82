package sources

import (
	"context"
	"fmt"
	"io"
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/metrics"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/reconcile"
	"github.com/athapong/kgimport/pkg/graph/records"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

// Run is the state of one transform execution handed to a source's driver.
type Run struct {
	t      Transform
	job    Job
	report *graph.Report
	log    *logrus.Entry

	pipeline  *graph.Pipeline
	mapping   *reconcile.Sink
	blocklist mapset.Set[string]
	dangling  mapset.Set[string]
	unlabeled mapset.Set[string]
}

func newRun(t Transform, job Job, sink graph.Sink, report *graph.Report, log *logrus.Entry) *Run {
	builder := graph.NewBuilder(graph.BuilderConfig{
		Dataset:       t.Dataset,
		Source:        graph.Source{Process: t.Process},
		License:       t.License,
		DefaultWeight: t.DefaultWeight,
	})

	r := &Run{
		t:         t,
		job:       job,
		report:    report,
		log:       log,
		blocklist: mapset.NewThreadUnsafeSet(job.Policy.Blocklist...),
		dangling:  mapset.NewThreadUnsafeSet[string](),
		unlabeled: mapset.NewThreadUnsafeSet[string](),
	}
	r.pipeline = graph.NewPipeline(t.Name, builder, graph.NewMerger(t.Merge), sink, report, log)
	r.mapping = reconcile.NewSink(reconcile.NewAliasTable(job.Policy.Aliases), r.Note)
	return r
}

// Note counts a per-record problem or advisory.
func (r *Run) Note(kind graph.Kind, detail string) {
	r.pipeline.Note(kind, detail)
}

// Reject counts a per-record error and returns structural errors.
func (r *Run) Reject(err error) error {
	return r.pipeline.Reject(err)
}

// Language returns tag, or the source's default language when tag is empty.
func (r *Run) Language(tag string) string {
	if tag == "" {
		return r.t.DefaultLanguage
	}
	return tag
}

// Concept normalizes text, counting a failure as a rejected record.
func (r *Run) Concept(lang, text string) (nodes.ID, bool) {
	return r.Sense(lang, text, "")
}

// Sense normalizes text with a part of speech.
func (r *Run) Sense(lang, text, pos string) (nodes.ID, bool) {
	id, err := nodes.NormalizeSense(r.Language(lang), text, pos)
	if err != nil {
		r.Reject(err)
		return nodes.ID{}, false
	}
	return id, true
}

// Rule looks up a relation marker, counting unknown markers.
func (r *Run) Rule(marker string) (RelationRule, bool) {
	rule, ok := r.t.Relations.Lookup(marker)
	if !ok {
		r.Note(graph.KindUnknownRelation, fmt.Sprintf("unknown relation marker %q", marker))
	}
	return rule, ok
}

// Emit builds and writes one edge.
func (r *Run) Emit(ctx context.Context, spec graph.EdgeSpec) error {
	return r.pipeline.Emit(ctx, spec)
}

// EmitRule writes an edge for rule, swapping its ends for reversed rules.
func (r *Run) EmitRule(ctx context.Context, rule RelationRule, spec graph.EdgeSpec) error {
	if rule.Skip {
		r.Note(graph.KindFiltered, fmt.Sprintf("relation skipped by source policy: %s -> %s", spec.Start, spec.End))
		return nil
	}
	spec.Rel = rule.Rel
	if rule.Reverse {
		spec.Start, spec.End = spec.End, spec.Start
	}
	return r.pipeline.Emit(ctx, spec)
}

// Filtered counts a well-formed record the source chose to skip.
func (r *Run) Filtered(format string, args ...interface{}) {
	r.Note(graph.KindFiltered, fmt.Sprintf(format, args...))
}

// Blocked reports whether contributor is on the policy's blocklist.
func (r *Run) Blocked(contributor string) bool {
	return r.blocklist.Contains(contributor)
}

// Dangling reports a reference to a record that was never staged. Each
// distinct reference is counted once per run.
func (r *Run) Dangling(ref string) {
	r.Missed()
	if r.dangling.Add(ref) {
		r.Note(graph.KindDanglingReference, fmt.Sprintf("reference to missing record %s", ref))
	}
}

// Missed counts a staging lookup that found nothing.
func (r *Run) Missed() {
	metrics.StagingMisses.WithLabelValues(r.t.Name).Inc()
}

// Resolved counts a reference found in the staging store.
func (r *Run) Resolved() {
	metrics.StagingHits.WithLabelValues(r.t.Name).Inc()
}

// Fallback reports whether dangling references may be named from their
// own surface text.
func (r *Run) Fallback() bool {
	return r.t.Dangling == staging.DanglingFallback
}

// Unlabeled reports, once per URI, that a resource was named from its URI.
func (r *Run) Unlabeled(uri string) {
	if r.unlabeled.Add(uri) {
		r.Note(graph.KindUnlabeledURI, fmt.Sprintf("no label for %s", uri))
	}
}

// Map records the identifier an external URI was normalized to.
func (r *Run) Map(uri string, id nodes.ID) {
	r.mapping.Record(uri, id)
}

// Staged counts a record put into the staging store.
func (r *Run) Staged() {
	r.report.Staged++
}

// Log returns the run's logger.
func (r *Run) Log() *logrus.Entry { return r.log }

// Files expands the job's inputs into the list of files to read.
func (r *Run) Files() ([]string, error) {
	if r.t.Inputs != InputDir {
		return r.job.Inputs, nil
	}

	var match func(string) bool
	if len(r.t.Extensions) > 0 {
		match = records.WithExtensions(r.t.Extensions...)
	}
	return records.Files(r.job.Inputs[0], match)
}

// openStore creates the staging store a transform declared. Transforms
// that did not declare staging get none.
func openStore[R any](run *Run, opts ...staging.Option[R]) (*staging.Store[R], error) {
	if !run.t.Staged {
		return nil, errors.Errorf("%s does not stage records", run.t.Name)
	}
	if run.t.Backend == StageOnDisk {
		return staging.NewTempSQLite[R](run.job.StagingDir, opts...)
	}
	return staging.NewMemory[R](opts...), nil
}

// read drives fn over a record stream, counting records. Per-record decode
// errors are counted and skipped; fn returns only structural errors.
func read[T any](ctx context.Context, run *Run, seq iter.Seq2[records.Record[T], error], fn func(records.Record[T]) error) error {
	return scan(ctx, run, seq, true, fn)
}

// reread is read for a second pass over the same input: records and decode
// errors were already counted by the first pass.
func reread[T any](ctx context.Context, run *Run, seq iter.Seq2[records.Record[T], error], fn func(records.Record[T]) error) error {
	return scan(ctx, run, seq, false, fn)
}

func scan[T any](ctx context.Context, run *Run, seq iter.Seq2[records.Record[T], error], first bool, fn func(records.Record[T]) error) error {
	for rec, err := range seq {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if graph.KindOf(err) == "" {
				return err
			}
			if first {
				run.report.Records++
				metrics.RecordsRead.WithLabelValues(run.t.Name).Inc()
				run.Reject(err)
			}
			continue
		}
		if first {
			run.report.Records++
			metrics.RecordsRead.WithLabelValues(run.t.Name).Inc()
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// eachFile opens every input file in turn.
func eachFile(run *Run, fn func(path string, r io.Reader) error) error {
	files, err := run.Files()
	if err != nil {
		return err
	}
	for _, path := range files {
		f, err := records.Open(path)
		if err != nil {
			return err
		}
		err = fn(path, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
