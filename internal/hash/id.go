// Package hash provides the fingerprinting primitive used to key the
// Match cache: a fast, non-cryptographic hash over a User-Agent string.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the 64-bit xxhash fingerprint of data. It is used to derive
// cache keys from User-Agent strings without retaining the strings
// themselves, keeping the cache's backing arrays fixed-size.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
