package pool

import (
	"sync"
	"sync/atomic"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/source"
)

// ReaderPool is an elastic sync.Pool-backed queue of source.Reader values
// bound to a single source.Source: a dataset opens one ReaderPool per
// data file and every Match call Acquires and Releases a Reader from it
// rather than allocating its own.
//
// A zero MaxReaders means unbounded: Acquire always succeeds, growing the
// pool as needed. A positive MaxReaders caps the number of readers
// outstanding at once; Acquire beyond the cap returns ErrPoolExhausted
// instead of blocking, so a caller under memory pressure fails fast.
type ReaderPool struct {
	pool   sync.Pool
	src    source.Source
	engine endian.EndianEngine

	maxReaders int32
	outNow     atomic.Int32
	created    atomic.Int64
	queued     atomic.Int64
}

// NewReaderPool creates a pool of readers over src. maxReaders <= 0 means
// unbounded.
func NewReaderPool(src source.Source, engine endian.EndianEngine, maxReaders int) *ReaderPool {
	p := &ReaderPool{
		src:        src,
		engine:     engine,
		maxReaders: int32(maxReaders), //nolint: gosec
	}
	p.pool.New = func() any {
		p.created.Add(1)
		return source.NewReader(src, engine)
	}

	return p
}

// Acquire returns a Reader bound to the pool's source, creating one if
// none is idle. It returns ErrPoolExhausted if the pool has a hard cap
// and it has been reached.
func (p *ReaderPool) Acquire() (*source.Reader, error) {
	if p.maxReaders > 0 {
		if p.outNow.Add(1) > p.maxReaders {
			p.outNow.Add(-1)
			return nil, errs.ErrPoolExhausted
		}
	}

	r, _ := p.pool.Get().(*source.Reader)
	r.Reset(p.src, p.engine)

	return r, nil
}

// Release returns r to the pool for reuse.
func (p *ReaderPool) Release(r *source.Reader) {
	if r == nil {
		return
	}

	if p.maxReaders > 0 {
		p.outNow.Add(-1)
	}
	p.queued.Add(1)
	p.pool.Put(r)
}

// ReadersCreated returns the total number of Reader values ever allocated
// by this pool (a low, stable number relative to Acquire call volume
// indicates the pool is doing its job).
func (p *ReaderPool) ReadersCreated() int64 {
	return p.created.Load()
}

// ReadersQueued returns the total number of Release calls observed, i.e.
// how many times a reader was returned for reuse.
func (p *ReaderPool) ReadersQueued() int64 {
	return p.queued.Load()
}

// InUse returns the current number of readers outstanding (acquired but
// not yet released). It is only tracked when MaxReaders is set.
func (p *ReaderPool) InUse() int32 {
	return p.outNow.Load()
}
