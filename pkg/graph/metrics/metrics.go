package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/athapong/kgimport/pkg/graph"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kgimport_system_memory_bytes",
		Help: "Current heap allocation of the importer",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kgimport_system_goroutines",
		Help: "Number of goroutines",
	})

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_runs_total",
			Help: "Total number of transform runs by outcome",
		},
		[]string{"source", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgimport_run_duration_seconds",
			Help:    "Wall time of a transform run",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		},
		[]string{"source"},
	)

	RecordsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_records_read_total",
			Help: "Total number of input records read",
		},
		[]string{"source"},
	)

	// Staging metrics
	StagedRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kgimport_staged_records",
			Help: "Number of records staged by the last run",
		},
		[]string{"source"},
	)

	StagingHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_staging_hits_total",
			Help: "Number of cross-references resolved from the staging store",
		},
		[]string{"source"},
	)

	StagingMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgimport_staging_misses_total",
			Help: "Number of cross-references missing from the staging store",
		},
		[]string{"source"},
	)

	// Reconciliation metrics
	MappingPairs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kgimport_mapping_pairs",
			Help: "Number of URI mapping pairs produced by the last run",
		},
		[]string{"source"},
	)
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}

// ObserveRun records the outcome of a finished run.
func ObserveRun(r *graph.Report, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	RunsTotal.WithLabelValues(r.Source, status).Inc()
	if !r.Finished.IsZero() {
		RunDuration.WithLabelValues(r.Source).Observe(r.Finished.Sub(r.Started).Seconds())
	}
	StagedRecords.WithLabelValues(r.Source).Set(float64(r.Staged))
	MappingPairs.WithLabelValues(r.Source).Set(float64(r.Mappings))
	UpdateSystemMetrics()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
