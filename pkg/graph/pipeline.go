package graph

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	pipelineFlushDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kgimport_pipeline_flush_duration_seconds",
			Help: "Time spent writing merged edges to the sink",
		},
		[]string{"source"},
	)

	edgesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_edges_written_total",
			Help: "Total number of edges written to a sink",
		},
		[]string{"source", "relation"},
	)

	recordProblemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_record_problems_total",
			Help: "Total number of rejected records and data-quality advisories",
		},
		[]string{"source", "kind"},
	)
)

func init() {
	prometheus.MustRegister(pipelineFlushDuration)
	prometheus.MustRegister(edgesWrittenTotal)
	prometheus.MustRegister(recordProblemsTotal)
}

// Pipeline carries edge specs through the builder and merger into a sink,
// counting everything it rejects. Only sink failures are returned as errors.
type Pipeline struct {
	source  string
	builder *Builder
	merger  *Merger
	sink    Sink
	report  *Report
	logger  *logrus.Entry
}

// NewPipeline wires the parts of one run together.
func NewPipeline(source string, builder *Builder, merger *Merger, sink Sink, report *Report, logger *logrus.Entry) *Pipeline {
	return &Pipeline{
		source:  source,
		builder: builder,
		merger:  merger,
		sink:    sink,
		report:  report,
		logger:  logger,
	}
}

// Builder returns the pipeline's edge builder.
func (p *Pipeline) Builder() *Builder { return p.builder }

// Report returns the run report the pipeline updates.
func (p *Pipeline) Report() *Report { return p.report }

// Note records a per-record problem or advisory.
func (p *Pipeline) Note(kind Kind, detail string) {
	p.report.Add(kind)
	recordProblemsTotal.WithLabelValues(p.source, string(kind)).Inc()

	entry := p.logger.WithField("kind", string(kind))
	if kind.Advisory() {
		entry.Debug(detail)
	} else {
		entry.Info(detail)
	}
}

// Reject records err, which must be a per-record error. It returns err
// unchanged when it is structural so callers can abort.
func (p *Pipeline) Reject(err error) error {
	kind := KindOf(err)
	if kind == "" {
		return err
	}
	p.Note(kind, err.Error())
	return nil
}

// Emit builds spec and queues or writes the resulting edge.
func (p *Pipeline) Emit(ctx context.Context, spec EdgeSpec) error {
	e, err := p.builder.Build(spec)
	if err != nil {
		return p.Reject(err)
	}

	if !p.merger.Add(e) {
		p.report.Duplicates++
		return nil
	}
	if p.merger.Streaming() {
		return p.write(ctx, e)
	}
	return nil
}

// Flush writes edges held back by the merger. It must be called once, after
// the last Emit.
func (p *Pipeline) Flush(ctx context.Context) error {
	if p.merger.Streaming() {
		return nil
	}

	timer := prometheus.NewTimer(pipelineFlushDuration.WithLabelValues(p.source))
	defer timer.ObserveDuration()

	edges := p.merger.Edges()
	p.logger.WithField("edge_count", len(edges)).Info("Writing merged edges")
	for _, e := range edges {
		if err := p.write(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) write(ctx context.Context, e Edge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.sink.Write(ctx, e); err != nil {
		return errors.Wrapf(err, "write edge %s", e.URI())
	}
	p.report.Edges++
	edgesWrittenTotal.WithLabelValues(p.source, string(e.Rel)).Inc()
	return nil
}
