package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/algorithms"
	"github.com/athapong/kgimport/pkg/graph/config"
	"github.com/athapong/kgimport/pkg/graph/metrics"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/sources"
	"github.com/athapong/kgimport/pkg/graph/storage"
	"github.com/athapong/kgimport/pkg/graph/visualizer"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:], os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kgimport %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: kgimport <command> [flags] args")
	fmt.Fprintln(w, "\ncommands:")
	for _, name := range sources.Names() {
		t, _ := sources.Lookup(name)
		fmt.Fprintf(w, "  %-15s %-18s %s\n", name, t.Usage(), t.Description)
	}
	fmt.Fprintf(w, "  %-15s %-18s %s\n", "batch", "MANIFEST", "run the jobs of a YAML manifest")
	fmt.Fprintf(w, "  %-15s %-18s %s\n", "visualize", "EDGES OUTPUT", "render a sample of an edge file as HTML")
}

// options are the flags every command accepts.
type options struct {
	logLevel   string
	policy     string
	envFile    string
	stagingDir string
	metricsOut string
	neo4j      bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.logLevel, "log-level", "", "Logging level (debug, info, warn, error)")
	fs.StringVar(&o.policy, "policy", "", "Path to the per-source policy YAML")
	fs.StringVar(&o.envFile, "env", ".env", "Path to environment file")
	fs.StringVar(&o.stagingDir, "staging-dir", "", "Directory for temporary staging stores")
	fs.StringVar(&o.metricsOut, "metrics-out", "", "Write prometheus metrics to this file when done")
	fs.BoolVar(&o.neo4j, "neo4j", false, "Also write edges to the Neo4j database named by NEO4J_URI")
}

// env holds what a command needs once flags and environment are merged.
type env struct {
	logger     *logrus.Logger
	policy     *config.Policy
	stagingDir string
	sinks      func(source string) ([]graph.Sink, error)
}

func (o *options) load(stderr io.Writer) (*env, error) {
	vars, err := config.LoadEnv(o.envFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(firstOf(o.logLevel, vars.LogLevel), stderr)
	if err != nil {
		return nil, err
	}

	e := &env{logger: logger, stagingDir: firstOf(o.stagingDir, vars.StagingDir)}
	if path := firstOf(o.policy, vars.PolicyPath); path != "" {
		if e.policy, err = config.LoadPolicy(path); err != nil {
			return nil, err
		}
		logger.WithField("policy", path).Debug("Loaded policy")
	}

	if o.neo4j {
		if !vars.Neo4j.Enabled() {
			return nil, errors.New("-neo4j needs NEO4J_URI")
		}
		cfg := storage.Neo4jConfig{
			URI:      vars.Neo4j.URI,
			Username: vars.Neo4j.Username,
			Password: vars.Neo4j.Password,
			Database: vars.Neo4j.Database,
		}
		e.sinks = func(string) ([]graph.Sink, error) {
			sink, err := storage.NewNeo4jSink(cfg)
			if err != nil {
				return nil, err
			}
			return []graph.Sink{sink}, nil
		}
	}
	return e, nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// run executes one command. Metrics are written even when the command
// fails so a failed run still shows up in the textfile.
func run(ctx context.Context, name string, args []string, stderr io.Writer) (err error) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.register(fs)

	var command func(ctx context.Context, e *env, args []string) error
	switch name {
	case "-h", "-help", "--help", "help":
		usage(stderr)
		return nil
	case "batch":
		concurrency := fs.Int("concurrency", 0, "Jobs to run at once (overrides the manifest)")
		command = func(ctx context.Context, e *env, args []string) error {
			return runBatch(ctx, e, args, *concurrency)
		}
	case "visualize":
		limit := fs.Int("limit", visualizer.DefaultLimit, "Maximum number of edges to draw (0 for all)")
		title := fs.String("title", "", "Page title (defaults to the input file name)")
		focus := fs.String("focus", "", "Only draw edges near this concept, e.g. /c/en/cat")
		depth := fs.Int("depth", 2, "Hops from -focus to include")
		command = func(ctx context.Context, e *env, args []string) error {
			return runVisualize(e, args, *title, *limit, *focus, *depth)
		}
	default:
		t, ok := sources.Lookup(name)
		if !ok {
			usage(stderr)
			return errors.Errorf("unknown command %q", name)
		}
		var mapping string
		if t.Mapping {
			fs.StringVar(&mapping, "mapping", "", "Write owl:sameAs N-Triples for reconciled URIs to this file")
		}
		command = func(ctx context.Context, e *env, args []string) error {
			job, err := jobFromArgs(t, args)
			if err != nil {
				return err
			}
			job.Mapping = mapping
			return runTransform(ctx, e, t, job)
		}
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	e, err := opts.load(stderr)
	if err != nil {
		return err
	}
	if opts.metricsOut != "" {
		defer func() {
			if merr := metrics.WriteTextfile(opts.metricsOut); merr != nil && err == nil {
				err = errors.Wrap(merr, "write metrics")
			}
		}()
	}
	return command(ctx, e, fs.Args())
}

// jobFromArgs maps positional arguments onto a job the way Usage describes
// them. wiktionary also accepts INPUT OUTPUT, staging into a temporary
// store.
func jobFromArgs(t sources.Transform, args []string) (sources.Job, error) {
	bad := errors.Errorf("usage: kgimport %s [flags] %s", t.Name, t.Usage())
	n := len(args)
	switch {
	case t.Prepare:
		if n < 2 {
			return sources.Job{}, bad
		}
		return sources.Job{Inputs: args[:n-1], DB: args[n-1]}, nil
	case t.NeedsDB && n == 3:
		return sources.Job{Inputs: args[:1], DB: args[1], Output: args[2]}, nil
	case n == 2:
		return sources.Job{Inputs: args[:1], Output: args[1]}, nil
	}
	return sources.Job{}, bad
}

func runTransform(ctx context.Context, e *env, t sources.Transform, job sources.Job) error {
	job.StagingDir = e.stagingDir
	job.Policy = e.policy.For(t.Name)
	job.Logger = e.logger
	if e.sinks != nil {
		sinks, err := e.sinks(t.Name)
		if err != nil {
			return err
		}
		job.Sinks = sinks
	}

	report, err := t.Run(ctx, job)
	if err != nil {
		return err
	}
	if !t.Prepare {
		e.logger.Infof("Wrote %d edges to %s", report.Edges, job.Output)
	}
	if job.Mapping != "" {
		e.logger.Infof("Wrote %d mapping pairs to %s", report.Mappings, job.Mapping)
	}
	return nil
}

func runBatch(ctx context.Context, e *env, args []string, concurrency int) error {
	if len(args) != 1 {
		return errors.New("usage: kgimport batch [flags] MANIFEST")
	}
	m, err := config.LoadManifest(args[0])
	if err != nil {
		return err
	}
	if concurrency > 0 {
		m.Concurrency = concurrency
	}

	e.logger.Infof("Running %d jobs, %d at a time", len(m.Jobs), m.Concurrency)
	reports, err := sources.RunBatch(ctx, m.Jobs, m.Concurrency, sources.BatchOptions{
		Policy:     e.policy,
		StagingDir: e.stagingDir,
		Logger:     e.logger,
		Sinks:      e.sinks,
	})
	if err != nil {
		return err
	}

	var edges, rejected int
	for _, r := range reports {
		edges += r.Edges
		rejected += r.Rejected()
	}
	e.logger.WithFields(logrus.Fields{"edges": edges, "rejected": rejected}).Info("Batch finished")
	return nil
}

func runVisualize(e *env, args []string, title string, limit int, focus string, depth int) error {
	if len(args) != 2 {
		return errors.New("usage: kgimport visualize [flags] EDGES OUTPUT")
	}
	in, out := args[0], args[1]
	if title == "" {
		title = filepath.Base(in)
	}

	v := visualizer.NewD3Visualizer(title, limit)
	add := v.Add
	if focus != "" {
		keep, err := neighborhood(in, focus, depth)
		if err != nil {
			return err
		}
		add = func(edge graph.Edge) error {
			if !keep(edge) {
				return nil
			}
			return v.Add(edge)
		}
	}
	if err := storage.ReadFile(in, add); err != nil {
		return err
	}
	if err := v.WriteFile(out); err != nil {
		return err
	}

	g := v.Graph()
	e.logger.Infof("Visualization of %d nodes and %d edges saved to %s", len(g.Nodes), len(g.Edges), out)
	return nil
}

// neighborhood indexes the edge file and returns a filter for edges within
// depth hops of focus.
func neighborhood(path, focus string, depth int) (func(graph.Edge) bool, error) {
	start, err := nodes.Parse(focus)
	if err != nil {
		return nil, errors.Wrap(err, "-focus")
	}

	adj := algorithms.NewAdjacency()
	if err := storage.ReadFile(path, adj.Add); err != nil {
		return nil, err
	}
	near := adj.Neighborhood(start, depth)
	if near.Cardinality() == 0 {
		return nil, errors.Errorf("%s does not occur in %s", focus, path)
	}
	return algorithms.Within(near), nil
}
