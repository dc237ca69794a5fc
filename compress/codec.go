package compress

import (
	"fmt"

	"github.com/corvidlabs/uasig/format"
)

// Compressor compresses one complete data file region. Region contents
// differ sharply in compressibility: strings and node character runs are
// highly repetitive and compress well, signature and profile offset
// arrays less so. Implementations never modify the input; the returned
// slice may alias it (the NoOp codec returns its input unchanged).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a region compressed by the matching Compressor.
// The input must have been produced by the same algorithm; corrupted or
// mismatched payloads return an error. Implementations must be safe for
// concurrent use: two datasets may be opened on different goroutines at
// once during a hot swap.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Dataset opening only needs the
// Decompressor half; the Compressor half exists for tooling that builds
// compressed data files.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec selects the built-in Codec for the compression type declared
// in a data file header. The built-in codecs are stateless or internally
// pooled, so the shared instances are safe to hand out.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
