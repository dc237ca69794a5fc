package compress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/corvidlabs/uasig/format"
	"github.com/stretchr/testify/require"
)

// stringsRegionFixture builds a payload shaped like a data file's
// strings region: length-prefixed User-Agent fragments with heavy
// repetition, the best case for every real codec.
func stringsRegionFixture(repeats int) []byte {
	fragments := []string{
		"Mozilla/5.0 (Linux; Android 5.0; SAMSUNG SM-G900F Build/LRX21T)",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 9_0 like Mac OS X)",
		"AppleWebKit/537.36 (KHTML, like Gecko)",
		"Chrome/39.0.2171.95 Mobile Safari/537.36",
		"SmartPhone",
		"Samsung",
		"SM-G900F",
	}

	var buf bytes.Buffer
	for range repeats {
		for _, f := range fragments {
			buf.WriteByte(byte(len(f)))
			buf.WriteString(f)
		}
	}

	return buf.Bytes()
}

// offsetsRegionFixture builds a payload shaped like a signatures region:
// dense 32-bit offsets with little repetition, the worst case.
func offsetsRegionFixture(count int) []byte {
	buf := make([]byte, 0, count*4)
	for i := range count {
		v := uint32(i*7919 + 13)
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}

	return buf
}

func realCodecs() map[string]Codec {
	return map[string]Codec{
		"zstd": NewZstdCompressor(),
		"s2":   NewS2Compressor(),
		"lz4":  NewLZ4Compressor(),
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"strings region": stringsRegionFixture(64),
		"offsets region": offsetsRegionFixture(4096),
		"single byte":    {0x42},
	}

	for codecName, codec := range realCodecs() {
		for payloadName, payload := range payloads {
			t.Run(codecName+"/"+payloadName, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)
				require.NotEmpty(t, compressed)

				restored, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, payload, restored)
			})
		}
	}
}

func TestCodecCompressesRepetitiveRegions(t *testing.T) {
	payload := stringsRegionFixture(256)

	for name, codec := range realCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(payload),
				"a strings region must shrink under %s", name)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for name, codec := range realCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestCodecRejectsForeignPayload(t *testing.T) {
	// S2 output is not valid zstd and vice versa; feeding one codec's
	// output to another must fail, not return garbage.
	payload := stringsRegionFixture(16)

	s2Compressed, err := NewS2Compressor().Compress(payload)
	require.NoError(t, err)

	_, err = NewZstdCompressor().Decompress(s2Compressed)
	require.Error(t, err)
}

func TestNoOpCompressorAliases(t *testing.T) {
	codec := NewNoOpCompressor()
	payload := []byte("Mozilla/5.0 (ShortUA)")

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)
	require.Same(t, &payload[0], &compressed[0], "no-op must not copy")

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestLZ4DecompressGrowsBuffer(t *testing.T) {
	// A long run of one character compresses far below a quarter of its
	// original size, forcing Decompress past its initial 4x buffer.
	payload := []byte(strings.Repeat("a", 1<<16))

	codec := NewLZ4Compressor()
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Less(t, len(compressed)*4, len(payload))

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestGetCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		require.NoError(t, err, "type %s", ct)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0xEE))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported compression type")
}

func TestGetCodecSharesInstances(t *testing.T) {
	a, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	b, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
