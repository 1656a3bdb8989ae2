package seqqueue

import "errors"

var (
	// ErrEmpty is returned when no item is deliverable at the next index,
	// either immediately (TryGet) or within the caller's deadline (Get).
	ErrEmpty = errors.New("seqqueue: no item ready at the next index")

	// ErrFull is returned when an index has no free slot inside the window,
	// either immediately (TryPut) or within the caller's deadline (Put).
	ErrFull = errors.New("seqqueue: no free slot inside the index window")

	// ErrStaleIndex is returned for an index the window has already moved
	// past. The condition is permanent for that index; waiting never helps.
	ErrStaleIndex = errors.New("seqqueue: index is behind the delivery window")

	// ErrDuplicateIndex is returned when an index is already buffered and
	// not yet delivered. The first payload wins; the second is never
	// silently dropped or overwritten.
	ErrDuplicateIndex = errors.New("seqqueue: index is already buffered")
)
