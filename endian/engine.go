// Package endian pins the byte order used by the signature database and
// trie file formats.
//
// Both formats declare every multi-byte integer little-endian, so the
// module only ever constructs the little-endian engine. Record codecs
// still accept the EndianEngine interface rather than calling
// binary.LittleEndian directly: the wire logic stays order-agnostic, and
// the synthetic-dataset test helpers encode with the same engine the
// decoders read with, so an ordering mistake surfaces as a parse failure
// instead of silently round-tripping.
package endian

import "encoding/binary"

// EndianEngine is the byte-order surface the record codecs use: fixed
// width Uint16/Uint32/Uint64 reads for parsing, and the Put* forms for
// encoding records when building a data file.
type EndianEngine interface {
	binary.ByteOrder
}

// GetLittleEndianEngine returns the engine matching the on-disk formats.
// The returned engine is stateless and safe for concurrent use.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
