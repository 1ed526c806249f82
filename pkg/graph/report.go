package graph

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Report summarizes one transform run.
type Report struct {
	Source   string
	RunID    string
	Started  time.Time
	Finished time.Time

	Records    int
	Staged     int
	Edges      int
	Duplicates int
	Mappings   int

	mutex    sync.Mutex
	failures map[Kind]int
}

// NewReport starts a report for a run of source.
func NewReport(source, runID string) *Report {
	return &Report{
		Source:   source,
		RunID:    runID,
		Started:  time.Now(),
		failures: make(map[Kind]int),
	}
}

// Add counts one occurrence of kind.
func (r *Report) Add(kind Kind) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.failures[kind]++
}

// Count returns the number of occurrences of kind.
func (r *Report) Count(kind Kind) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.failures[kind]
}

// Failures returns a copy of the per-kind counts.
func (r *Report) Failures() map[Kind]int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make(map[Kind]int, len(r.failures))
	for k, v := range r.failures {
		out[k] = v
	}
	return out
}

// Rejected returns the number of records skipped because of recoverable
// errors.
func (r *Report) Rejected() int {
	n := 0
	for k, v := range r.Failures() {
		if !k.Advisory() {
			n += v
		}
	}
	return n
}

// Advisories returns the number of data-quality notes.
func (r *Report) Advisories() int {
	n := 0
	for k, v := range r.Failures() {
		if k.Advisory() {
			n += v
		}
	}
	return n
}

// Finish stamps the end time.
func (r *Report) Finish() {
	r.Finished = time.Now()
}

// Fields renders the report for structured logging.
func (r *Report) Fields() logrus.Fields {
	fields := logrus.Fields{
		"source":     r.Source,
		"run_id":     r.RunID,
		"records":    r.Records,
		"staged":     r.Staged,
		"edges":      r.Edges,
		"duplicates": r.Duplicates,
		"mappings":   r.Mappings,
	}
	if !r.Finished.IsZero() {
		fields["duration"] = r.Finished.Sub(r.Started).String()
	}

	failures := r.Failures()
	kinds := make([]string, 0, len(failures))
	for k := range failures {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fields["count_"+k] = failures[Kind(k)]
	}
	return fields
}
