package staging

import (
	"context"
)

// DanglingPolicy decides what a resolve pass does with a reference to a
// record that was never staged.
type DanglingPolicy string

const (
	// DanglingDrop skips the edge that needed the missing record.
	DanglingDrop DanglingPolicy = "drop"
	// DanglingFallback names the missing record from the reference's own
	// surface text when the source has one.
	DanglingFallback DanglingPolicy = "fallback"
)

// Run drives one store through both passes: stage, Seal, BeginResolve,
// resolve. The store is closed on return whatever happens.
func Run[R any](ctx context.Context, store *Store[R],
	stage func(ctx context.Context, put Putter[R]) error,
	resolve func(ctx context.Context, read Reader[R]) error,
) (err error) {
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if stage != nil {
		if err := stage(ctx, store); err != nil {
			return err
		}
	}
	if err := store.Seal(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.BeginResolve(); err != nil {
		return err
	}
	return resolve(ctx, store)
}
