package section

import (
	"time"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/format"
)

// Header is the fixed-size region at the start of every data file. It
// records the format version, publish/update dates, minimum User-Agent
// length, per-entity counts, and the byte offset of each region.
//
// Layout (version 3.1, 116 bytes):
//
//	0:4    Magic
//	4:5    Version
//	5:6    Compression
//	6:8    reserved
//	8:16   PublishDate  (unix micros)
//	16:24  NextUpdateDate (unix micros)
//	24:28  CopyrightOffset
//	28:32  Age
//	32:36  MinUserAgentLength
//	36:40  ComponentCount
//	40:44  PropertyCount
//	44:48  ValueCount
//	48:52  ProfileCount
//	52:56  SignatureCount
//	56:60  NodeCount
//	60:64  MapCount
//	64:68  ComponentsOffset
//	68:72  MapsOffset
//	72:76  PropertiesOffset
//	76:80  ValuesOffset
//	80:84  ProfilesOffset
//	84:88  SignaturesOffset
//	88:92  NodesOffset
//	92:96  StringsOffset
//	96:100 ComponentPropertyIndicesOffset
//	100:104 MapPropertyIndicesOffset
//	104:108 ComponentPropertyIndexCount
//	108:112 MapPropertyIndexCount
//	112:116 SignatureNodeSlotsV31
//
// Version 3.2 (132 bytes) inserts StringCount and RankedSignatureCount
// right after MapCount (pushing everything above down by 8 bytes) and
// appends RankedSignaturesOffset, ValueRangesOffset after
// SignatureNodeSlotsV31.
type Header struct {
	Version              format.Version
	Compression          format.CompressionType
	PublishDate          int64
	NextUpdateDate       int64
	CopyrightOffset      uint32
	Age                  uint32
	MinUserAgentLength   uint32
	ComponentCount       uint32
	PropertyCount        uint32
	ValueCount           uint32
	ProfileCount         uint32
	SignatureCount       uint32
	NodeCount            uint32
	MapCount             uint32
	StringCount          uint32
	RankedSignatureCount uint32

	ComponentsOffset              uint32
	MapsOffset                    uint32
	PropertiesOffset              uint32
	ValuesOffset                  uint32
	ProfilesOffset                uint32
	SignaturesOffset              uint32
	NodesOffset                   uint32
	StringsOffset                 uint32
	ComponentPropertyIndicesOffset uint32
	MapPropertyIndicesOffset      uint32
	ComponentPropertyIndexCount   uint32
	MapPropertyIndexCount         uint32

	// SignatureNodeSlotsV31 is the fixed number of node-offset slots every
	// v3.1 signature record reserves; v3.1 has no per-record length prefix, so a
	// reader needs this width up front to compute the record stride. Zero
	// for v3.2 datasets, which size each signature record individually.
	SignatureNodeSlotsV31 uint32

	RankedSignaturesOffset uint32
	ValueRangesOffset      uint32 // v3.2 only: FirstValueIndex/LastValueIndex table
}

// Size returns the on-disk byte size of the header for its version.
func (h *Header) Size() int {
	if h.Version == format.Version31 {
		return HeaderSizeV31
	}

	return HeaderSizeV32
}

// Parse decodes a Header from its fixed-size region. data must hold at
// least HeaderSizeV31 bytes for a v3.1 file and HeaderSizeV32 bytes for a
// v3.2 file; shorter input returns errs.ErrInvalidHeaderSize.
func Parse(data []byte, engine endian.EndianEngine) (*Header, error) {
	if len(data) < HeaderSizeV31 {
		return nil, errs.ErrInvalidHeaderSize
	}

	magic := engine.Uint32(data[0:4])
	if magic != MagicNumber {
		return nil, errs.ErrDatasetFormat
	}

	h := &Header{}
	switch data[4] {
	case byte(format.Version31):
		h.Version = format.Version31
	case byte(format.Version32):
		h.Version = format.Version32
	default:
		return nil, errs.ErrUnsupportedVersion
	}

	if h.Version == format.Version32 && len(data) < HeaderSizeV32 {
		return nil, errs.ErrInvalidHeaderSize
	}

	h.Compression = format.CompressionType(data[5])
	if h.Compression == 0 {
		// Files built before the compression extension leave the byte
		// zeroed; all v3.1 files qualify.
		h.Compression = DefaultCompression
	}
	h.PublishDate = int64(engine.Uint64(data[8:16]))     //nolint: gosec
	h.NextUpdateDate = int64(engine.Uint64(data[16:24])) //nolint: gosec
	h.CopyrightOffset = engine.Uint32(data[24:28])
	h.Age = engine.Uint32(data[28:32])
	h.MinUserAgentLength = engine.Uint32(data[32:36])

	h.ComponentCount = engine.Uint32(data[36:40])
	h.PropertyCount = engine.Uint32(data[40:44])
	h.ValueCount = engine.Uint32(data[44:48])
	h.ProfileCount = engine.Uint32(data[48:52])
	h.SignatureCount = engine.Uint32(data[52:56])
	h.NodeCount = engine.Uint32(data[56:60])
	h.MapCount = engine.Uint32(data[60:64])

	offsets := data[64:]
	if h.Version == format.Version32 {
		h.StringCount = engine.Uint32(data[64:68])
		h.RankedSignatureCount = engine.Uint32(data[68:72])
		offsets = data[72:]
	}

	h.ComponentsOffset = engine.Uint32(offsets[0:4])
	h.MapsOffset = engine.Uint32(offsets[4:8])
	h.PropertiesOffset = engine.Uint32(offsets[8:12])
	h.ValuesOffset = engine.Uint32(offsets[12:16])
	h.ProfilesOffset = engine.Uint32(offsets[16:20])
	h.SignaturesOffset = engine.Uint32(offsets[20:24])
	h.NodesOffset = engine.Uint32(offsets[24:28])
	h.StringsOffset = engine.Uint32(offsets[28:32])
	h.ComponentPropertyIndicesOffset = engine.Uint32(offsets[32:36])
	h.MapPropertyIndicesOffset = engine.Uint32(offsets[36:40])
	h.ComponentPropertyIndexCount = engine.Uint32(offsets[40:44])
	h.MapPropertyIndexCount = engine.Uint32(offsets[44:48])
	h.SignatureNodeSlotsV31 = engine.Uint32(offsets[48:52])

	if h.Version == format.Version32 {
		h.RankedSignaturesOffset = engine.Uint32(offsets[52:56])
		h.ValueRangesOffset = engine.Uint32(offsets[56:60])
	}

	return h, nil
}

// PublishTime returns PublishDate as a time.Time.
func (h *Header) PublishTime() time.Time {
	return time.UnixMicro(h.PublishDate).UTC()
}

// NextUpdateTime returns NextUpdateDate as a time.Time.
func (h *Header) NextUpdateTime() time.Time {
	return time.UnixMicro(h.NextUpdateDate).UTC()
}

// Bytes serializes the header back to its fixed-size on-disk form. Used by
// tests that round-trip a synthetic dataset.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	size := h.Size()
	b := make([]byte, size)

	engine.PutUint32(b[0:4], MagicNumber)
	b[4] = byte(h.Version)
	b[5] = byte(h.Compression)
	engine.PutUint64(b[8:16], uint64(h.PublishDate))     //nolint: gosec
	engine.PutUint64(b[16:24], uint64(h.NextUpdateDate)) //nolint: gosec
	engine.PutUint32(b[24:28], h.CopyrightOffset)
	engine.PutUint32(b[28:32], h.Age)
	engine.PutUint32(b[32:36], h.MinUserAgentLength)
	engine.PutUint32(b[36:40], h.ComponentCount)
	engine.PutUint32(b[40:44], h.PropertyCount)
	engine.PutUint32(b[44:48], h.ValueCount)
	engine.PutUint32(b[48:52], h.ProfileCount)
	engine.PutUint32(b[52:56], h.SignatureCount)
	engine.PutUint32(b[56:60], h.NodeCount)
	engine.PutUint32(b[60:64], h.MapCount)

	offsets := b[64:]
	if h.Version == format.Version32 {
		engine.PutUint32(b[64:68], h.StringCount)
		engine.PutUint32(b[68:72], h.RankedSignatureCount)
		offsets = b[72:]
	}

	engine.PutUint32(offsets[0:4], h.ComponentsOffset)
	engine.PutUint32(offsets[4:8], h.MapsOffset)
	engine.PutUint32(offsets[8:12], h.PropertiesOffset)
	engine.PutUint32(offsets[12:16], h.ValuesOffset)
	engine.PutUint32(offsets[16:20], h.ProfilesOffset)
	engine.PutUint32(offsets[20:24], h.SignaturesOffset)
	engine.PutUint32(offsets[24:28], h.NodesOffset)
	engine.PutUint32(offsets[28:32], h.StringsOffset)
	engine.PutUint32(offsets[32:36], h.ComponentPropertyIndicesOffset)
	engine.PutUint32(offsets[36:40], h.MapPropertyIndicesOffset)
	engine.PutUint32(offsets[40:44], h.ComponentPropertyIndexCount)
	engine.PutUint32(offsets[44:48], h.MapPropertyIndexCount)
	engine.PutUint32(offsets[48:52], h.SignatureNodeSlotsV31)

	if h.Version == format.Version32 {
		engine.PutUint32(offsets[52:56], h.RankedSignaturesOffset)
		engine.PutUint32(offsets[56:60], h.ValueRangesOffset)
	}

	return b
}
