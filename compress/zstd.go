package compress

// ZstdCompressor provides Zstandard compression, the best-ratio option
// for data file distribution. Vendors hosting large signature databases
// on a CDN favour it: a strings-plus-nodes payload typically shrinks
// 3:1 to 8:1, and the decompression cost is paid once per dataset open,
// not per match.
//
// Two implementations exist behind the gozstd build tag: the default
// pure-Go decoder (klauspost/compress/zstd) and a cgo-backed one
// (valyala/gozstd) for deployments that accept a cgo dependency in
// exchange for faster opens.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
