package numbering

import "context"

// SequenceRepository allocates document numbers against the durable store.
//
// Next must be a single atomic read-modify-write (upsert with RETURNING, or an
// equivalent increment primitive): counting existing documents to derive the
// next number races under concurrent creation and can issue duplicates.
type SequenceRepository interface {
	// Next returns the next unused value (>= 1) for the scope. Two concurrent
	// calls for the same scope never observe the same value. On exhausted
	// retries the allocation fails with ErrSequenceAllocationFailed and the
	// caller must not persist a partially numbered document.
	Next(ctx context.Context, scope Scope) (int64, error)

	// Current returns the last allocated value for the scope, or 0 if the
	// counter does not exist yet.
	Current(ctx context.Context, scope Scope) (int64, error)
}
