package cache

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a persistent Cache backed by an embedded badger key-value
// store, so an embedding application's match cache survives process
// restarts instead of starting cold every time. It satisfies the same
// Cache[K, V] interface as Generational, so a provider can be pointed at
// either one without any change to matcher code — only Provider
// construction picks which cache backs a dataset.
//
// Keys are fixed at uint64 (the xxhash fingerprint the provider derives
// from a User-Agent string); values are serialized through the encode/
// decode functions supplied at construction, since badger only stores
// raw bytes.
type Badger[V any] struct {
	db     *badger.DB
	encode func(V) ([]byte, error)
	decode func([]byte) (V, error)

	requests atomic.Int64
	misses   atomic.Int64
}

// OpenBadger opens (or creates) a badger database at dir as a persistent
// match cache.
func OpenBadger[V any](dir string, encode func(V) ([]byte, error), decode func([]byte) (V, error)) (*Badger[V], error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Badger[V]{db: db, encode: encode, decode: decode}, nil
}

func badgerKey(key uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, key)
	return b
}

// Get looks up key, returning its decoded value on a hit.
func (c *Badger[V]) Get(key uint64) (V, bool) {
	c.requests.Add(1)

	var zero V
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		c.misses.Add(1)
		return zero, false
	}

	v, err := c.decode(raw)
	if err != nil {
		c.misses.Add(1)
		return zero, false
	}

	return v, true
}

// Set stores value under key.
func (c *Badger[V]) Set(key uint64, value V) {
	raw, err := c.encode(value)
	if err != nil {
		return
	}

	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), raw)
	})
}

// Len counts the entries currently stored. It walks the key space, so it
// is meant for diagnostics, not a hot path.
func (c *Badger[V]) Len() int {
	n := 0
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})

	return n
}

// Requests returns the total number of Get calls observed.
func (c *Badger[V]) Requests() int64 {
	return c.requests.Load()
}

// Misses returns the number of Get calls that found nothing or failed to
// decode.
func (c *Badger[V]) Misses() int64 {
	return c.misses.Load()
}

// Switches always reports zero: badger evicts via its own LSM
// compaction, not generation rotation.
func (c *Badger[V]) Switches() int64 {
	return 0
}

// Close flushes and closes the underlying badger database.
func (c *Badger[V]) Close() error {
	return c.db.Close()
}
