package sources

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/config"
)

// BatchOptions are shared by every job of a batch.
type BatchOptions struct {
	Policy     *config.Policy
	StagingDir string
	Logger     *logrus.Logger
	// Sinks, when set, returns extra sinks for one job. Each job gets its
	// own sinks.
	Sinks func(source string) ([]graph.Sink, error)
}

// RunBatch runs the manifest's jobs with at most concurrency running at
// once. Jobs that prepare a store run before all others so a wiktionary job
// can read the store its wiktionary_pre job writes. The first failure
// cancels the jobs still running; reports are returned in manifest order,
// nil for jobs that did not finish.
func RunBatch(ctx context.Context, jobs []config.Job, concurrency int, opts BatchOptions) ([]*graph.Report, error) {
	transforms := make([]Transform, len(jobs))
	for i, j := range jobs {
		t, ok := Lookup(j.Source)
		if !ok {
			return nil, errors.Errorf("job %d: unknown source %q", i+1, j.Source)
		}
		transforms[i] = t
	}

	reports := make([]*graph.Report, len(jobs))
	for _, prepare := range []bool{true, false} {
		g, gctx := errgroup.WithContext(ctx)
		if concurrency > 0 {
			g.SetLimit(concurrency)
		}

		for i, j := range jobs {
			t := transforms[i]
			if t.Prepare != prepare {
				continue
			}
			g.Go(func() error {
				job := Job{
					Inputs:     j.Inputs,
					DB:         j.DB,
					Output:     j.Output,
					Mapping:    j.Mapping,
					StagingDir: opts.StagingDir,
					Policy:     opts.Policy.For(t.Name),
					Logger:     opts.Logger,
				}
				if opts.Sinks != nil {
					sinks, err := opts.Sinks(t.Name)
					if err != nil {
						return errors.Wrapf(err, "job %d (%s)", i+1, t.Name)
					}
					job.Sinks = sinks
				}

				report, err := t.Run(gctx, job)
				reports[i] = report
				if err != nil {
					return errors.Wrapf(err, "job %d (%s)", i+1, t.Name)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return reports, err
		}
	}
	return reports, nil
}
