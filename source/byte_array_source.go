package source

import "github.com/corvidlabs/uasig/errs"

// ByteArraySource is an in-process Source backed by a plain []byte. It is
// used for data files decompressed up front into memory (see
// entity.Open's handling of a non-None header.Compression) and in tests.
type ByteArraySource struct {
	data   []byte
	closed bool
}

// NewByteArraySource wraps data as a Source. data is not copied; callers
// must not mutate it while the source is in use.
func NewByteArraySource(data []byte) *ByteArraySource {
	return &ByteArraySource{data: data}
}

func (s *ByteArraySource) ReadAt(buf []byte, offset int64) (int, error) {
	if s.closed {
		return 0, errs.ErrSourceClosed
	}
	if offset < 0 || offset > int64(len(s.data)) {
		return 0, errs.ErrOffsetOutOfRange
	}

	n := copy(buf, s.data[offset:])
	if n < len(buf) {
		return n, errs.ErrOffsetOutOfRange
	}

	return n, nil
}

func (s *ByteArraySource) Size() int64 {
	return int64(len(s.data))
}

func (s *ByteArraySource) Close() error {
	s.closed = true
	return nil
}
