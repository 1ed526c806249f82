package storage

import (
	"context"

	"github.com/athapong/kgimport/pkg/graph"
)

// Aborter is implemented by sinks that can discard a failed run's output.
type Aborter interface {
	Abort() error
}

// Abort discards sink's output when it supports that, and closes it
// otherwise.
func Abort(sink graph.Sink) error {
	if a, ok := sink.(Aborter); ok {
		return a.Abort()
	}
	return sink.Close()
}

// TeeSink copies every edge to several sinks.
type TeeSink struct {
	sinks []graph.Sink
}

// Tee returns a sink writing to all of sinks in order.
func Tee(sinks ...graph.Sink) *TeeSink {
	return &TeeSink{sinks: sinks}
}

func (t *TeeSink) Write(ctx context.Context, e graph.Edge) error {
	for _, s := range t.sinks {
		if err := s.Write(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error.
func (t *TeeSink) Close() error {
	var first error
	for _, s := range t.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Abort aborts every sink and returns the first error.
func (t *TeeSink) Abort() error {
	var first error
	for _, s := range t.sinks {
		if err := Abort(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}
