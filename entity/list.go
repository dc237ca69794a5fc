// Package entity provides typed views over a dataset's binary regions:
// strings, properties, values, profiles, components, nodes, signatures,
// the ranked-signature index, and maps. Every view is built lazily from
// a byte range and memoised thereafter; cross-entity references resolve
// back through the owning Dataset rather than through pointers, so the
// graph has no cycles to manage at the Go level even though the
// underlying data does (profiles reference signatures, signatures
// reference profiles and nodes, nodes reference parent nodes).
package entity

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/internal/cache"
	"github.com/corvidlabs/uasig/internal/pool"
)

// FixedList is a component-D style list: every record occupies the same
// stride, so Get(index) is one multiplication and one read.
type FixedList[T any] struct {
	readers    *pool.ReaderPool
	engine     endian.EndianEngine
	baseOffset int64
	stride     int
	count      int
	cache      *cache.Generational[int, T]
	parse      func([]byte, endian.EndianEngine) (T, error)
}

// NewFixedList builds a fixed-stride list over count records of the given
// stride starting at baseOffset, with a cache of the given capacity.
func NewFixedList[T any](readers *pool.ReaderPool, engine endian.EndianEngine, baseOffset int64, stride, count, cacheCapacity int, parse func([]byte, endian.EndianEngine) (T, error)) *FixedList[T] {
	return &FixedList[T]{
		readers:    readers,
		engine:     engine,
		baseOffset: baseOffset,
		stride:     stride,
		count:      count,
		cache:      cache.NewGenerational[int, T](cacheCapacity),
		parse:      parse,
	}
}

// Count returns the number of records in the list.
func (l *FixedList[T]) Count() int {
	return l.count
}

// Get returns the record at the given logical index.
func (l *FixedList[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= l.count {
		return zero, errs.ErrOffsetOutOfRange
	}

	if v, ok := l.cache.Get(index); ok {
		return v, nil
	}

	r, err := l.readers.Acquire()
	if err != nil {
		return zero, err
	}
	defer l.readers.Release(r)

	data, err := r.ReadBytes(l.baseOffset+int64(index)*int64(l.stride), l.stride)
	if err != nil {
		return zero, errs.ErrDataFileIO
	}

	v, err := l.parse(data, l.engine)
	if err != nil {
		return zero, err
	}

	l.cache.Set(index, v)

	return v, nil
}

// GetByIndex is an alias for Get, so FixedList and VariableList satisfy
// the same by-index lookup shape where both exist for an entity kind
// (v3.1's fixed-stride signatures vs v3.2's variable ones).
func (l *FixedList[T]) GetByIndex(index int) (T, error) {
	return l.Get(index)
}

// CacheStats exposes the list's cache counters for diagnostics/metrics.
func (l *FixedList[T]) CacheStats() (requests, misses, switches int64) {
	return l.cache.Requests(), l.cache.Misses(), l.cache.Switches()
}

// VariableList is a component-C style list: records vary in size, so the
// list is keyed by byte offset and a companion index→offset table (built
// once, eagerly, by walking the region sequentially) supports lookup by
// logical index too.
type VariableList[T any] struct {
	readers    *pool.ReaderPool
	engine     endian.EndianEngine
	baseOffset int64
	regionSize int64
	cache      *cache.Generational[int64, T]
	peekSize   func([]byte, endian.EndianEngine) (int, error)
	parse      func([]byte, endian.EndianEngine) (T, error)

	indexToOffset  []int64
	peekHeaderSize int
}

// NewVariableList builds a variable-size list over the byte range
// [baseOffset, baseOffset+regionSize). peekSize reads just enough of a
// record's header to learn its total size; parse decodes the full
// record once that size is known.
func NewVariableList[T any](readers *pool.ReaderPool, engine endian.EndianEngine, baseOffset, regionSize int64, cacheCapacity int, peekSize func([]byte, endian.EndianEngine) (int, error), parse func([]byte, endian.EndianEngine) (T, error)) *VariableList[T] {
	return &VariableList[T]{
		readers:    readers,
		engine:     engine,
		baseOffset: baseOffset,
		regionSize: regionSize,
		cache:      cache.NewGenerational[int64, T](cacheCapacity),
		peekSize:   peekSize,
		parse:      parse,
	}
}

// BuildIndex walks the region once, sequentially, recording the byte
// offset of each record in order. It must be called during dataset Init
// before any GetByIndex call.
//
// expectedCount, when positive, stops the scan after that many records:
// data files may pad a region past its last record, and the declared
// count is authoritative. Zero means scan to the end of the region.
func (l *VariableList[T]) BuildIndex(maxPeekHeader, expectedCount int) error {
	r, err := l.readers.Acquire()
	if err != nil {
		return err
	}
	defer l.readers.Release(r)

	l.peekHeaderSize = maxPeekHeader

	// The scan below re-reads a maxPeekHeader-sized header once per
	// record purely to learn its length; a region with many records
	// would otherwise allocate one throwaway slice per record. One
	// pooled buffer, reused and read into directly, carries the whole
	// scan instead.
	peekBuf := pool.GetPeekBuffer()
	defer pool.PutPeekBuffer(peekBuf)
	peekBuf.SetLength(0)
	peekBuf.ExtendOrGrow(maxPeekHeader)

	var offsets []int64
	cursor := l.baseOffset
	end := l.baseOffset + l.regionSize
	for cursor < end {
		if expectedCount > 0 && len(offsets) == expectedCount {
			break
		}

		// The final record's peek window may extend past the region end;
		// a record header never does, so clamp rather than over-read.
		peek := peekBuf.Bytes()
		if remaining := end - cursor; remaining < int64(len(peek)) {
			peek = peek[:remaining]
		}
		if _, err := r.Source().ReadAt(peek, cursor); err != nil {
			return errs.ErrDataFileIO
		}
		size, err := l.peekSize(peek, l.engine)
		if err != nil {
			return err
		}
		if size <= 0 {
			return errs.ErrDatasetFormat
		}

		offsets = append(offsets, cursor)
		cursor += int64(size)
	}

	if expectedCount > 0 && len(offsets) < expectedCount {
		return errs.ErrDatasetFormat
	}

	l.indexToOffset = offsets

	return nil
}

// Count returns the number of records discovered by BuildIndex.
func (l *VariableList[T]) Count() int {
	return len(l.indexToOffset)
}

// GetByOffset decodes the record starting at the given absolute byte
// offset, which must fall within the list's region.
func (l *VariableList[T]) GetByOffset(offset int64) (T, error) {
	var zero T
	if offset < l.baseOffset || offset >= l.baseOffset+l.regionSize {
		return zero, errs.ErrOffsetOutOfRange
	}

	if v, ok := l.cache.Get(offset); ok {
		return v, nil
	}

	r, err := l.readers.Acquire()
	if err != nil {
		return zero, err
	}
	defer l.readers.Release(r)

	peekLen := l.peekHeaderSize
	if remaining := l.baseOffset + l.regionSize - offset; remaining < int64(peekLen) {
		peekLen = int(remaining)
	}
	header, err := r.ReadBytes(offset, peekLen)
	if err != nil {
		return zero, errs.ErrDataFileIO
	}

	size, err := l.peekSize(header, l.engine)
	if err != nil {
		return zero, err
	}

	data, err := r.ReadBytes(offset, size)
	if err != nil {
		return zero, errs.ErrDataFileIO
	}

	v, err := l.parse(data, l.engine)
	if err != nil {
		return zero, err
	}

	l.cache.Set(offset, v)

	return v, nil
}

// GetByIndex resolves a logical index to its byte offset via the index
// built by BuildIndex, then decodes it.
func (l *VariableList[T]) GetByIndex(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(l.indexToOffset) {
		return zero, errs.ErrOffsetOutOfRange
	}

	return l.GetByOffset(l.indexToOffset[index])
}

// OffsetOf returns the byte offset of the record at the given logical
// index, without decoding it.
func (l *VariableList[T]) OffsetOf(index int) (int64, error) {
	if index < 0 || index >= len(l.indexToOffset) {
		return 0, errs.ErrOffsetOutOfRange
	}

	return l.indexToOffset[index], nil
}

// CacheStats exposes the list's cache counters for diagnostics/metrics.
func (l *VariableList[T]) CacheStats() (requests, misses, switches int64) {
	return l.cache.Requests(), l.cache.Misses(), l.cache.Switches()
}
