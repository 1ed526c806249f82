package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/kgimport/pkg/graph/sources"
)

func TestJobFromArgs(t *testing.T) {
	lookup := func(name string) sources.Transform {
		tr, ok := sources.Lookup(name)
		require.True(t, ok)
		return tr
	}

	job, err := jobFromArgs(lookup("nadya"), []string{"in.csv", "out.msgpack"})
	require.NoError(t, err)
	assert.Equal(t, []string{"in.csv"}, job.Inputs)
	assert.Equal(t, "out.msgpack", job.Output)

	job, err = jobFromArgs(lookup("wiktionary_pre"), []string{"a.jsonl", "b.jsonl", "wiki.db"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jsonl", "b.jsonl"}, job.Inputs)
	assert.Equal(t, "wiki.db", job.DB)

	job, err = jobFromArgs(lookup("wiktionary"), []string{"a.jsonl", "wiki.db", "out.msgpack"})
	require.NoError(t, err)
	assert.Equal(t, "wiki.db", job.DB)
	assert.Equal(t, "out.msgpack", job.Output)

	job, err = jobFromArgs(lookup("wiktionary"), []string{"a.jsonl", "out.msgpack"})
	require.NoError(t, err)
	assert.Empty(t, job.DB)

	_, err = jobFromArgs(lookup("nadya"), []string{"in.csv", "x", "out.msgpack"})
	assert.ErrorContains(t, err, "usage: kgimport nadya")
	_, err = jobFromArgs(lookup("wiktionary_pre"), []string{"wiki.db"})
	assert.Error(t, err)
}

func TestRunTransformThenVisualize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jsonl")
	require.NoError(t, os.WriteFile(in, []byte(`{"start":"dog","end":"animal","rel":"IsA"}`+"\n"), 0o644))
	edges := filepath.Join(dir, "out.msgpack")
	page := filepath.Join(dir, "graph.html")
	prom := filepath.Join(dir, "kgimport.prom")

	var stderr bytes.Buffer
	ctx := context.Background()
	noEnv := "-env=" + filepath.Join(dir, "missing.env")

	require.NoError(t, run(ctx, "conceptnet4", []string{noEnv, "-metrics-out", prom, in, edges}, &stderr))
	assert.FileExists(t, edges)
	assert.Contains(t, stderr.String(), "Wrote 1 edges")

	metricsText, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), "conceptnet4")

	require.NoError(t, run(ctx, "visualize", []string{noEnv, "-title", "dogs", edges, page}, &stderr))
	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "dogs")

	require.NoError(t, run(ctx, "visualize", []string{noEnv, "-focus", "/c/en/dog", "-depth", "1", edges, page}, &stderr))
	assert.ErrorContains(t, run(ctx, "visualize", []string{noEnv, "-focus", "/c/en/cat", edges, page}, &stderr), "does not occur")
	assert.ErrorContains(t, run(ctx, "visualize", []string{noEnv, "-focus", "cat", edges, page}, &stderr), "-focus")
}

func TestRunRejectsBadInvocations(t *testing.T) {
	var stderr bytes.Buffer
	ctx := context.Background()
	noEnv := "-env=" + filepath.Join(t.TempDir(), "missing.env")

	assert.ErrorContains(t, run(ctx, "freebase", nil, &stderr), "unknown command")
	assert.Contains(t, stderr.String(), "wiktionary_pre")

	assert.Error(t, run(ctx, "nadya", []string{noEnv, "only-one"}, &stderr))
	assert.ErrorContains(t, run(ctx, "nadya", []string{noEnv, "-log-level", "loud", "a", "b"}, &stderr), "invalid log level")
	assert.Error(t, run(ctx, "nadya", []string{"-mapping", "m.nt", "a", "b"}, &stderr), "nadya has no -mapping flag")
	assert.ErrorContains(t, run(ctx, "batch", []string{noEnv}, &stderr), "MANIFEST")
	assert.NoError(t, run(ctx, "help", nil, &stderr))
}
