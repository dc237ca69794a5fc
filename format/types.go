// Package format defines the small value types shared across the binary
// reader, compression codecs, entity graph, and provider: the data file
// compression type, format version, property value type, and the
// stream-vs-memory open mode.
package format

// CompressionType identifies how a data file's payload region is
// compressed on disk. The header itself is always read uncompressed;
// compression, when declared, applies to every region after it.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Version identifies which of the two supported data file formats a
// dataset was built with. Node numeric-range children and variable-size
// signature records only exist in Version32.
type Version uint8

const (
	Version31 Version = 1
	Version32 Version = 2
)

func (v Version) String() string {
	switch v {
	case Version31:
		return "3.1"
	case Version32:
		return "3.2"
	default:
		return "unknown"
	}
}

// ValueType identifies how a Property's Values should be interpreted by a
// caller.
type ValueType uint8

const (
	ValueTypeString ValueType = iota
	ValueTypeInt
	ValueTypeDouble
	ValueTypeBool
	ValueTypeJavaScript
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeString:
		return "String"
	case ValueTypeInt:
		return "Int"
	case ValueTypeDouble:
		return "Double"
	case ValueTypeBool:
		return "Bool"
	case ValueTypeJavaScript:
		return "JavaScript"
	default:
		return "Unknown"
	}
}


// OpenMode selects whether a dataset keeps its source as a pooled stream of
// file readers or loads the entire data file into memory up front.
type OpenMode uint8

const (
	ModeStream OpenMode = iota
	ModeMemory
)
