package assign

import "errors"

// Domain errors for the assignment optimizer.
var (
	// ErrSizeMismatch indicates the source and target palettes differ in length.
	ErrSizeMismatch = errors.New("assign: source and target palette sizes differ")

	// ErrNotPerfectSquare indicates a palette length with no integer square root.
	ErrNotPerfectSquare = errors.New("assign: palette length is not a perfect square")

	// ErrIncompleteAssignment indicates the greedy solver did not consume
	// every source index. The reference behavior pads the remainder with an
	// identity fill, which can duplicate indices; this implementation
	// instead fails loudly.
	ErrIncompleteAssignment = errors.New("assign: greedy solver consumed fewer than N source indices")

	// ErrUnknownAlgorithm indicates an unrecognized Settings.Algorithm value.
	ErrUnknownAlgorithm = errors.New("assign: unknown algorithm")

	// ErrCancelled indicates a session ended via cooperative cancellation.
	ErrCancelled = errors.New("assign: session cancelled")
)
