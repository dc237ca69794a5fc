package source

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// Reader decodes primitives out of a Source at an explicit byte offset.
// A Reader is cheap to reuse across many reads against the same Source
// (see pool.ReaderPool) but is NOT safe for concurrent use by multiple
// goroutines — callers acquire one Reader per goroutine from the pool.
type Reader struct {
	src     Source
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewReader returns a Reader over src using engine for multi-byte decode.
func NewReader(src Source, engine endian.EndianEngine) *Reader {
	return &Reader{src: src, engine: engine}
}

// Reset rebinds the reader to a different source, letting the pool reuse
// the Reader value (and its scratch buffer) across sources.
func (r *Reader) Reset(src Source, engine endian.EndianEngine) {
	r.src = src
	r.engine = engine
}

// Source returns the reader's current backing source.
func (r *Reader) Source() Source {
	return r.src
}

func (r *Reader) read(n int, offset int64) ([]byte, error) {
	buf := r.scratch[:n]
	if _, err := r.src.ReadAt(buf, offset); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadUint8 reads one unsigned byte at offset.
func (r *Reader) ReadUint8(offset int64) (uint8, error) {
	b, err := r.read(1, offset)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadInt8 reads one signed byte at offset.
func (r *Reader) ReadInt8(offset int64) (int8, error) {
	v, err := r.ReadUint8(offset)
	return int8(v), err //nolint: gosec
}

// ReadUint16 reads a little/big-endian (per engine) uint16 at offset.
func (r *Reader) ReadUint16(offset int64) (uint16, error) {
	b, err := r.read(2, offset)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// ReadInt16 reads a signed 16-bit value at offset.
func (r *Reader) ReadInt16(offset int64) (int16, error) {
	v, err := r.ReadUint16(offset)
	return int16(v), err //nolint: gosec
}

// ReadUint32 reads a uint32 at offset.
func (r *Reader) ReadUint32(offset int64) (uint32, error) {
	b, err := r.read(4, offset)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// ReadInt32 reads a signed 32-bit value at offset.
func (r *Reader) ReadInt32(offset int64) (int32, error) {
	v, err := r.ReadUint32(offset)
	return int32(v), err //nolint: gosec
}

// ReadUint64 reads a uint64 at offset.
func (r *Reader) ReadUint64(offset int64) (uint64, error) {
	b, err := r.read(8, offset)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// ReadInt64 reads a signed 64-bit value at offset.
func (r *Reader) ReadInt64(offset int64) (int64, error) {
	v, err := r.ReadUint64(offset)
	return int64(v), err //nolint: gosec
}

// ReadBytes reads exactly n bytes starting at offset. The returned slice
// is freshly allocated; it is safe to retain past the next read.
func (r *Reader) ReadBytes(offset int64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if _, err := r.src.ReadAt(buf, offset); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadCString reads a NUL-terminated byte run starting at offset, up to
// maxLen bytes, and returns the bytes before the terminator.
func (r *Reader) ReadCString(offset int64, maxLen int) ([]byte, error) {
	buf := make([]byte, maxLen)
	n, err := r.src.ReadAt(buf, offset)
	if err != nil && n == 0 {
		return nil, err
	}
	buf = buf[:n]

	for i, b := range buf {
		if b == 0 {
			return buf[:i], nil
		}
	}

	return nil, errs.ErrOffsetOutOfRange
}
