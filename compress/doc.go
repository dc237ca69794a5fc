// Package compress provides the codecs used to store a signature
// database's on-disk regions (strings, nodes, signatures) more
// compactly.
//
// Vendors that ship these data files commonly compress everything after
// the header; entity.Open reads the header's compression-type byte and
// uses this package to restore the payload before any region list is
// built. Four codecs are registered under format.CompressionType:
//
//   - None: pass-through, for uncompressed distributions
//   - Zstd: best ratio, for cold-storage / CDN-hosted distributions
//   - S2:   Snappy-family, fast in both directions
//   - LZ4:  fastest decompression, moderate ratio
//
// GetCodec selects an implementation by format.CompressionType.
package compress
