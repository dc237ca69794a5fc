// Package trie implements the alternative byte-indexed decision-tree
// provider: a latency-critical path that walks one UA byte per trie
// node instead of the primary format's per-character signature trie,
// terminating in a device index it resolves against a packed devices
// block.
package trie

const (
	// MagicNumber identifies a valid trie file, distinct from the
	// primary signature-database MagicNumber so the two formats are
	// never confused when auto-detecting a data file.
	MagicNumber uint32 = 0x33314654 // "TF13"

	// HeaderSize is the fixed byte size of the trie file header.
	HeaderSize = 56

	// PropertyRecordSize is the stride of one entry in the Properties
	// region: a single string offset naming the property.
	PropertyRecordSize = 4

	// NoChildOrdinal marks a lookup-table entry as having no valid child
	// for that byte.
	NoChildOrdinal = 0xFF
)

// OffsetWidth selects the byte width of a node's child-offset table.
type OffsetWidth uint8

const (
	OffsetWidth16 OffsetWidth = iota
	OffsetWidth32
	OffsetWidth64
)

// Size returns the byte width in bytes for the given offset width.
func (w OffsetWidth) Size() int {
	switch w {
	case OffsetWidth16:
		return 2
	case OffsetWidth32:
		return 4
	default:
		return 8
	}
}
