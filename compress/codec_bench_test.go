package compress

import (
	"fmt"
	"testing"
)

// Benchmarks model the one hot path this package has: decompressing a
// full region payload once per dataset open.

func benchPayload() []byte {
	// Roughly 1MB of strings-region-shaped data.
	return stringsRegionFixture(4096)
}

func BenchmarkCompress(b *testing.B) {
	payload := benchPayload()

	for name, codec := range realCodecs() {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := codec.Compress(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	payload := benchPayload()

	for name, codec := range realCodecs() {
		compressed, err := codec.Compress(payload)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("%s/ratio=%.2f", name, float64(len(compressed))/float64(len(payload))), func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := codec.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
