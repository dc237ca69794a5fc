// Package cache provides the match-result cache used by the provider to
// avoid re-running the matcher for User-Agent strings it has already
// resolved. Two implementations satisfy the same Cache interface: an
// in-memory two-generation approximate-LRU, and an optional badger-backed
// persistent store, so the provider can swap one for the other without
// any change to matcher or provider code.
package cache

// Cache is the interface the provider's match cache is programmed
// against. K is the lookup key (a xxhash fingerprint of the User-Agent),
// V is the cached value (a serialized match result).
type Cache[K comparable, V any] interface {
	// Get returns the cached value for key, if present.
	Get(key K) (V, bool)

	// Set stores value under key, evicting per the implementation's
	// policy if it is at capacity.
	Set(key K, value V)

	// Len reports the number of entries currently resident.
	Len() int

	// Requests returns the total number of Get calls observed.
	Requests() int64

	// Misses returns the number of Get calls that found nothing.
	Misses() int64

	// Switches returns the number of generation rotations the cache has
	// performed; always zero for implementations without generations.
	Switches() int64

	// Close releases any resources the cache holds (file handles for a
	// persistent backing store; a no-op for the in-memory cache).
	Close() error
}
