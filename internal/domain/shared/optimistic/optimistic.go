// Package optimistic implements the apply-then-reconcile update pattern used by
// the order board: a change is applied to local state first, the remote write
// is issued, and the prior snapshot is restored if the write fails.
package optimistic

import "context"

// Result reports the outcome of an optimistic update.
type Result[T any] struct {
	Applied  bool
	Err      error
	Previous T
}

// Failed reports whether the update was rolled back.
func (r Result[T]) Failed() bool {
	return !r.Applied
}

// Apply sets *state to next, then runs commit. When commit fails the previous
// value is written back. Commit is called exactly once and is never retried.
func Apply[T any](ctx context.Context, state *T, next T, commit func(ctx context.Context) error) Result[T] {
	previous := *state
	*state = next

	if err := commit(ctx); err != nil {
		*state = previous
		return Result[T]{Applied: false, Err: err, Previous: previous}
	}
	return Result[T]{Applied: true, Previous: previous}
}
