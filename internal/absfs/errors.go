package absfs

import "errors"

// Error variables for the state oracle.
var (
	// ErrDepthExceeded reports a tree deeper than the configured maximum.
	// This is a configuration fault, not a filesystem fault: the trees the
	// oracle summarizes are bounded by test-generation parameters, so
	// exceeding the bound means the walk was pointed at the wrong tree.
	ErrDepthExceeded = errors.New("max traversal depth exceeded")

	// ErrHashEngine reports an update or finalize failure in the hash
	// engine. Surfaced distinctly so a hashing malfunction is never
	// mistaken for a filesystem discrepancy.
	ErrHashEngine = errors.New("hash engine failure")

	// ErrUnknownAlgorithm reports an algorithm identifier outside the
	// supported set.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrFinalized reports an update after the signature was taken.
	ErrFinalized = errors.New("hash context already finalized")

	ErrMaxDepthInvalid = errors.New("max depth must be positive")
	ErrBasepathEmpty   = errors.New("basepath is required")
)
