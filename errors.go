package rasterkit

import "errors"

// Error kinds raised by the library. Callers match them with errors.Is; the
// concrete error wraps a kind with context about the failing call. All errors
// propagate immediately, there is no internal retry.
var (
	// ErrInvalidArgument covers malformed construction parameters:
	// non-contiguous bit masks, offset/bank count mismatches, zero or
	// negative dimensions, and source-equals-destination for operations
	// that forbid running in place.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFormat covers structural incompatibility discovered at operation
	// time, such as a child rectangle outside its parent's bounds or a band
	// subset larger than the available bands.
	ErrFormat = errors.New("incompatible format")

	// ErrMismatchedBands is raised when cooperating raster or filter
	// operands disagree on band count.
	ErrMismatchedBands = errors.New("mismatched band count")

	// ErrOperationFailed means no backend could produce a result.
	ErrOperationFailed = errors.New("operation failed")
)
