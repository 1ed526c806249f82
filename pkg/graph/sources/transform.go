// Package sources holds one Transform per knowledge source. A Transform is a
// plain value declaring how a source is read and which policies apply to it;
// Run executes it against a Job.
package sources

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/config"
	"github.com/athapong/kgimport/pkg/graph/metrics"
	"github.com/athapong/kgimport/pkg/graph/reconcile"
	"github.com/athapong/kgimport/pkg/graph/staging"
	"github.com/athapong/kgimport/pkg/graph/storage"
)

// InputKind says what a transform expects as input.
type InputKind int

const (
	// InputFile is exactly one file.
	InputFile InputKind = iota
	// InputFiles is one or more files.
	InputFiles
	// InputDir is exactly one directory.
	InputDir
)

// Backend selects where a staged transform keeps its records.
type Backend int

const (
	// StageInMemory keeps staged records on the heap.
	StageInMemory Backend = iota
	// StageOnDisk keeps staged records in a temporary SQLite file.
	StageOnDisk
)

// RelationRule says what a native relation marker becomes.
type RelationRule struct {
	Rel     graph.Relation
	Reverse bool
	Skip    bool
}

// RelationTable maps native relation markers, compared case-insensitively,
// to rules.
type RelationTable map[string]RelationRule

// newRelationTable builds a table from rules keyed by markers in any case.
func newRelationTable(rules map[string]RelationRule) RelationTable {
	t := make(RelationTable, len(rules))
	for marker, rule := range rules {
		t[strings.ToLower(marker)] = rule
	}
	return t
}

// Lookup finds the rule for marker.
func (t RelationTable) Lookup(marker string) (RelationRule, bool) {
	rule, ok := t[strings.ToLower(strings.TrimSpace(marker))]
	return rule, ok
}

// Job is one invocation of a transform.
type Job struct {
	Inputs     []string
	DB         string
	Output     string
	Mapping    string
	StagingDir string
	Policy     config.SourcePolicy
	Sinks      []graph.Sink
	Logger     *logrus.Logger
}

// Transform declares a source: its input shape, staging need, relation
// table, default weight and mapping artifact.
type Transform struct {
	Name        string
	Description string

	Inputs     InputKind
	Extensions []string

	Staged  bool
	Backend Backend
	// Prepare transforms only stage records into Job.DB and emit no edges.
	Prepare bool
	// NeedsDB transforms read a store prepared by another transform.
	NeedsDB bool
	Mapping bool

	Relations       RelationTable
	DefaultWeight   float64
	Merge           graph.MergePolicy
	Dangling        staging.DanglingPolicy
	DefaultLanguage string

	Dataset string
	License string
	Process string

	drive func(ctx context.Context, run *Run) error
}

// Usage describes the positional arguments of the transform's command.
func (t Transform) Usage() string {
	switch {
	case t.Prepare:
		return "INPUT... DB"
	case t.NeedsDB:
		return "INPUT DB OUTPUT"
	case t.Inputs == InputDir:
		return "INPUT_DIR OUTPUT"
	}
	return "INPUT OUTPUT"
}

func (t Transform) withPolicy(p config.SourcePolicy) (Transform, error) {
	if p.DefaultWeight != nil {
		t.DefaultWeight = *p.DefaultWeight
	}
	if p.Merge != "" {
		m, err := graph.ParseMergePolicy(p.Merge)
		if err != nil {
			return t, err
		}
		t.Merge = m
	}
	if p.Dangling != "" {
		t.Dangling = staging.DanglingPolicy(p.Dangling)
	}
	if p.DefaultLanguage != "" {
		t.DefaultLanguage = p.DefaultLanguage
	}
	return t, nil
}

func (t Transform) validate(job Job) error {
	switch {
	case len(job.Inputs) == 0:
		return errors.Errorf("%s: no input given", t.Name)
	case t.Inputs != InputFiles && len(job.Inputs) != 1:
		return errors.Errorf("%s: expected one input, got %d", t.Name, len(job.Inputs))
	case t.Prepare && job.DB == "":
		return errors.Errorf("%s: a database path is required", t.Name)
	case !t.Prepare && job.Output == "":
		return errors.Errorf("%s: an output path is required", t.Name)
	case job.Mapping != "" && !t.Mapping:
		return errors.Errorf("%s does not produce a URI mapping", t.Name)
	}

	for _, in := range job.Inputs {
		info, err := os.Stat(in)
		if err != nil {
			return errors.Wrapf(err, "%s: input", t.Name)
		}
		if t.Inputs == InputDir && !info.IsDir() {
			return errors.Errorf("%s: %s is not a directory", t.Name, in)
		}
		if t.Inputs != InputDir && info.IsDir() {
			return errors.Errorf("%s: %s is a directory", t.Name, in)
		}
	}
	return nil
}

// Run executes the transform. Per-record problems are counted in the
// returned report; only structural failures are returned as errors, in
// which case no output file is left behind.
func (t Transform) Run(ctx context.Context, job Job) (report *graph.Report, err error) {
	t, err = t.withPolicy(job.Policy)
	if err != nil {
		err = errors.Wrapf(err, "%s policy", t.Name)
	} else {
		err = t.validate(job)
	}
	if err != nil {
		storage.Abort(storage.Tee(job.Sinks...))
		return nil, err
	}

	logger := job.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	report = graph.NewReport(t.Name, uuid.New().String())
	entry := logger.WithFields(logrus.Fields{"source": t.Name, "run_id": report.RunID})
	entry.WithField("inputs", job.Inputs).Info("Starting transform")

	defer func() {
		report.Finish()
		metrics.ObserveRun(report, err)
		if err != nil {
			entry.WithFields(report.Fields()).WithError(err).Error("Transform failed")
		} else {
			entry.WithFields(report.Fields()).Info("Transform finished")
		}
	}()

	sinks := append([]graph.Sink(nil), job.Sinks...)
	if !t.Prepare {
		file, err := storage.Create(job.Output)
		if err != nil {
			storage.Abort(storage.Tee(sinks...))
			return report, err
		}
		sinks = append([]graph.Sink{file}, sinks...)
	}
	sink := storage.Tee(sinks...)

	run := newRun(t, job, sink, report, entry)
	if err := t.drive(ctx, run); err != nil {
		storage.Abort(sink)
		return report, err
	}
	if err := run.pipeline.Flush(ctx); err != nil {
		storage.Abort(sink)
		return report, err
	}
	if err := sink.Close(); err != nil {
		return report, errors.Wrap(err, "close edge output")
	}

	report.Mappings = run.mapping.Len()
	if job.Mapping != "" {
		if err := writeMapping(job.Mapping, run.mapping); err != nil {
			os.Remove(job.Output)
			return report, err
		}
	}
	return report, nil
}

func writeMapping(path string, sink *reconcile.Sink) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create mapping %s", tmp)
	}

	w := reconcile.NewNTriplesWriter(f)
	err = sink.WriteTo(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "write mapping %s", path)
	}
	return errors.Wrapf(os.Rename(tmp, path), "move mapping %s into place", path)
}
