// Package errs defines the sentinel error values shared across the dataset,
// matcher, and provider layers.
package errs

import "errors"

var (
	// ErrDatasetFormat is returned when the data file magic number, version,
	// or a region invariant does not match what the reader expects.
	ErrDatasetFormat = errors.New("uasig: dataset format invalid")

	// ErrDatasetDisposed is returned when a dataset or provider is used after
	// Dispose has been called on it.
	ErrDatasetDisposed = errors.New("uasig: dataset disposed")

	// ErrDataFileIO is returned when a read against the underlying source
	// fails.
	ErrDataFileIO = errors.New("uasig: data file i/o error")

	// ErrPoolExhausted is returned by Acquire when a reader pool has a hard
	// capacity configured and it has been reached.
	ErrPoolExhausted = errors.New("uasig: reader pool exhausted")

	// ErrMatchTimeout marks a Match result as best-effort; it is never
	// returned to the caller as a failure, it only appears wrapped in
	// diagnostics.
	ErrMatchTimeout = errors.New("uasig: match exceeded node evaluation budget")

	// ErrInvalidHeaderSize is returned when a fixed-size record is parsed
	// from a byte slice shorter than its declared stride.
	ErrInvalidHeaderSize = errors.New("uasig: invalid header size")

	// ErrOffsetOutOfRange is returned when an entity offset falls outside
	// its declared region.
	ErrOffsetOutOfRange = errors.New("uasig: offset out of range")

	// ErrDuplicateName is returned during dataset Init when two properties
	// (or two values of the same property) share a name.
	ErrDuplicateName = errors.New("uasig: duplicate name")

	// ErrUnsupportedVersion is returned when the header declares a format
	// version other than 3.1 or 3.2.
	ErrUnsupportedVersion = errors.New("uasig: unsupported data file version")

	// ErrSourceClosed is returned when a reader is used after its source has
	// been closed or deleted.
	ErrSourceClosed = errors.New("uasig: source closed")
)
