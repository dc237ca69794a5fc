package pool

import "sync"

// Peek-buffer sizing. A variable-size record scan reads one fixed-width
// peek header per record to learn its length; the widest peek header in
// either file format is under 32 bytes, so the default comfortably covers
// every record kind with room for format growth. Buffers that were grown
// past the threshold (a scan that read whole records, not just headers)
// are not worth retaining.
const (
	PeekBufferDefaultSize  = 256
	PeekBufferMaxThreshold = 64 * 1024
)

// RecordBuffer is a reusable scratch buffer for record scans. The zero
// length / retained capacity split mirrors bytes.Buffer but exposes the
// underlying slice directly so ReadAt-style calls can fill it in place.
type RecordBuffer struct {
	B []byte
}

// NewRecordBuffer creates a buffer with the given initial capacity.
func NewRecordBuffer(capacity int) *RecordBuffer {
	return &RecordBuffer{
		B: make([]byte, 0, capacity),
	}
}

// Bytes returns the underlying byte slice.
func (rb *RecordBuffer) Bytes() []byte {
	return rb.B
}

// Reset empties the buffer, retaining its capacity for reuse.
func (rb *RecordBuffer) Reset() {
	rb.B = rb.B[:0]
}

// Len returns the current length of the buffer.
func (rb *RecordBuffer) Len() int {
	return len(rb.B)
}

// Cap returns the capacity of the buffer.
func (rb *RecordBuffer) Cap() int {
	return cap(rb.B)
}

// SetLength resizes the buffer to n within its current capacity.
// Panics if n is negative or exceeds the capacity.
func (rb *RecordBuffer) SetLength(n int) {
	if n < 0 || n > cap(rb.B) {
		panic("SetLength: invalid length")
	}
	rb.B = rb.B[:n]
}

// Extend lengthens the buffer by n bytes if capacity allows, reporting
// whether it did.
func (rb *RecordBuffer) Extend(n int) bool {
	curLen := len(rb.B)
	if cap(rb.B)-curLen < n {
		return false
	}

	rb.B = rb.B[:curLen+n]

	return true
}

// ExtendOrGrow lengthens the buffer by n bytes, reallocating when the
// current capacity is insufficient.
func (rb *RecordBuffer) ExtendOrGrow(n int) {
	if rb.Extend(n) {
		return
	}

	start := len(rb.B)
	rb.Grow(n)
	rb.B = rb.B[:start+n]
}

// Grow ensures the buffer can take n more bytes without reallocating.
// Record scans grow in small, per-record steps, so doubling (with the
// default size as a floor) keeps reallocation count logarithmic without
// over-reserving for buffers that only ever hold a peek header.
func (rb *RecordBuffer) Grow(n int) {
	if cap(rb.B)-len(rb.B) >= n {
		return
	}

	growBy := cap(rb.B)
	if growBy < PeekBufferDefaultSize {
		growBy = PeekBufferDefaultSize
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(rb.B), len(rb.B)+growBy)
	copy(newBuf, rb.B)
	rb.B = newBuf
}

// RecordBufferPool recycles RecordBuffers across record scans.
//
// A sync.Pool holds the buffers; maxThreshold, when positive, drops
// buffers whose capacity outgrew it rather than letting one oversized
// scan pin memory for the life of the process.
type RecordBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewRecordBufferPool creates a pool whose buffers start at defaultSize
// and are discarded on Put once their capacity exceeds maxThreshold
// (zero disables the threshold).
func NewRecordBufferPool(defaultSize int, maxThreshold int) *RecordBufferPool {
	return &RecordBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewRecordBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a buffer from the pool. The buffer is empty.
func (p *RecordBufferPool) Get() *RecordBuffer {
	rb, _ := p.pool.Get().(*RecordBuffer)
	return rb
}

// Put returns a buffer to the pool, discarding it when it grew past the
// pool's threshold.
func (p *RecordBufferPool) Put(rb *RecordBuffer) {
	if rb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(rb.B) > p.maxThreshold {
		return
	}

	rb.Reset()
	p.pool.Put(rb)
}

var peekDefaultPool = NewRecordBufferPool(PeekBufferDefaultSize, PeekBufferMaxThreshold)

// GetPeekBuffer retrieves a buffer from the shared peek-header pool.
func GetPeekBuffer() *RecordBuffer {
	return peekDefaultPool.Get()
}

// PutPeekBuffer returns a buffer to the shared peek-header pool.
func PutPeekBuffer(rb *RecordBuffer) {
	peekDefaultPool.Put(rb)
}
