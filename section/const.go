package section

import "github.com/corvidlabs/uasig/format"

// Region layout constants for the signature database binary format. All
// multi-byte integers are little-endian; Header.Parse dispatches on the
// version field before interpreting the rest of the stream.
const (
	// MagicNumber identifies a valid data file, regardless of version.
	MagicNumber uint32 = 0x35314446 // "51DF" — signature database file

	// HeaderSizeV31 is the fixed byte size of the version 3.1 header.
	HeaderSizeV31 = 116
	// HeaderSizeV32 is the fixed byte size of the version 3.2 header; it
	// carries the same fields as 3.1 plus the string/ranked-signature
	// counts and the ranked-signature/value-range region offsets.
	HeaderSizeV32 = 132

	// PropertyRecordSize is the fixed stride of a Property record.
	PropertyRecordSize = 48
	// ValueRecordSize is the fixed stride of a Value record.
	ValueRecordSize = 16
	// ComponentRecordHeaderSize is the fixed stride of a Component record;
	// its property indices live in the shared component-property-index
	// array, not in the record.
	ComponentRecordHeaderSize = 16
	// MapRecordSize is the fixed stride of a Map record.
	MapRecordSize = 16
	// RankedSignatureIndexSize is the stride of one entry in the
	// RankedSignatureIndexes region (a plain uint32 logical signature
	// index, ordered by ascending rank).
	RankedSignatureIndexSize = 4
	// SignatureRecordSizeV31 is the fixed stride of a v3.1 signature
	// record (profile-offset array length is dataset-wide and constant).
	SignatureRecordSizeV31 = 0 // computed per-dataset; see Header.ComponentCount

	// NodeNumericChildSize is the stride of one numeric-child range entry
	// appended to a v3.2 node record.
	NodeNumericChildSize = 8
)

// DefaultCompression is assumed for data files with no extended
// compression byte (all v3.1 files, and v3.2 files built before the
// compression extension existed).
const DefaultCompression = format.CompressionNone
