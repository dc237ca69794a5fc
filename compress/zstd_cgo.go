//go:build gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses a region at gozstd's level 3, matching the
// pure-Go path's default ratio/speed balance.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a region via the cgo-backed decoder.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
