// Package source provides the byte sources a dataset reads its data file
// from, and the pooled Reader type that decodes primitives out of them.
package source

import "io"

// Source is a random-access byte provider for one open data file. A
// Source is shared by every Reader the pool hands out for that file;
// implementations must be safe for concurrent ReadAt calls.
type Source interface {
	// ReadAt fills buf starting at offset, following io.ReaderAt semantics:
	// it returns an error if and only if fewer than len(buf) bytes were read.
	ReadAt(buf []byte, offset int64) (int, error)

	// Size returns the total addressable length of the source in bytes.
	Size() int64

	// Close releases any resources (file handles, mappings) the source holds.
	Close() error
}

var _ io.ReaderAt = Source(nil)
