package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// NodeHeaderSize is the fixed portion of a NodeRecord preceding its
// children, numeric-children, and character-run payloads.
const NodeHeaderSize = 20

// NodeChildSize is the stride of one ordered child entry: a leading byte
// for binary search, followed by the child node's offset.
const NodeChildSize = 5

// RootNodeOffset marks a Node with no parent (the trie's root set).
const RootNodeOffset = 0xFFFFFFFF

// NodeChild is one entry in a Node's ordered children array, looked up by
// binary search on FirstByte; children are ordered by leading byte.
type NodeChild struct {
	FirstByte byte
	Offset    uint32
}

// NumericChild is one entry in a Node's numeric-children array (v3.2
// only), used by the Numeric matching strategy to enumerate nearby
// numeric substrings at a node's position.
type NumericChild struct {
	Low    uint16
	High   uint16
	Offset uint32
}

// NodeRecord is the variable-size on-disk record for a Node: a position
// in the per-character trie.
//
// Layout:
//
//	0:4   ParentOffset
//	4:6   Position                  (NextCharacterPosition)
//	6:8   CharacterLength
//	8:10  ChildCount
//	10:12 NumericChildCount         (v3.2 only; reads as 0 for v3.1)
//	12:16 RankedSignatureCount
//	16:20 FirstRankedSignatureIndex
//
// followed by ChildCount NodeChild entries (5 bytes each, ordered by
// FirstByte), then NumericChildCount NumericChild entries (8 bytes each,
// v3.2 only), then CharacterLength raw bytes — the literal run this node
// represents, empty for branch-only nodes.
//
// FirstRankedSignatureIndex, together with RankedSignatureCount, selects
// this node's slice of the dataset-wide RankedSignatureIndex array (the
// same shared-flat-array device ComponentRecord and MapRecord use for
// their property indices): the slice lists, in ascending rank order,
// every signature that references this node, letting the Nearest
// strategy break ties by popularity without re-ranking candidates.
type NodeRecord struct {
	ParentOffset              uint32
	Position                  uint16
	Characters                []byte
	Children                  []NodeChild
	NumericChildren           []NumericChild
	RankedSignatureCount      uint32
	FirstRankedSignatureIndex uint32
	Size                      int
}

// PeekNodeHeader reports a node record's total size without fully
// decoding it. hasNumericChildren must be false for v3.1 datasets.
func PeekNodeHeader(data []byte, engine endian.EndianEngine, hasNumericChildren bool) (int, error) {
	if len(data) < NodeHeaderSize {
		return 0, errs.ErrInvalidHeaderSize
	}

	charLen := int(engine.Uint16(data[6:8]))
	childCount := int(engine.Uint16(data[8:10]))
	numericCount := 0
	if hasNumericChildren {
		numericCount = int(engine.Uint16(data[10:12]))
	}

	size := NodeHeaderSize + childCount*NodeChildSize + charLen
	if hasNumericChildren {
		size += numericCount * NodeNumericChildSize
	}

	return size, nil
}

// ParseNodeRecord decodes a full NodeRecord.
func ParseNodeRecord(data []byte, engine endian.EndianEngine, hasNumericChildren bool) (NodeRecord, error) {
	size, err := PeekNodeHeader(data, engine, hasNumericChildren)
	if err != nil {
		return NodeRecord{}, err
	}
	if len(data) < size {
		return NodeRecord{}, errs.ErrInvalidHeaderSize
	}

	charLen := int(engine.Uint16(data[6:8]))
	childCount := int(engine.Uint16(data[8:10]))
	numericCount := 0
	if hasNumericChildren {
		numericCount = int(engine.Uint16(data[10:12]))
	}

	n := NodeRecord{
		ParentOffset:              engine.Uint32(data[0:4]),
		Position:                  engine.Uint16(data[4:6]),
		RankedSignatureCount:      engine.Uint32(data[12:16]),
		FirstRankedSignatureIndex: engine.Uint32(data[16:20]),
		Size:                      size,
	}

	offset := NodeHeaderSize
	if childCount > 0 {
		n.Children = make([]NodeChild, childCount)
		for i := 0; i < childCount; i++ {
			n.Children[i] = NodeChild{
				FirstByte: data[offset],
				Offset:    engine.Uint32(data[offset+1 : offset+5]),
			}
			offset += NodeChildSize
		}
	}

	if hasNumericChildren && numericCount > 0 {
		n.NumericChildren = make([]NumericChild, numericCount)
		for i := 0; i < numericCount; i++ {
			n.NumericChildren[i] = NumericChild{
				Low:    engine.Uint16(data[offset : offset+2]),
				High:   engine.Uint16(data[offset+2 : offset+4]),
				Offset: engine.Uint32(data[offset+4 : offset+8]),
			}
			offset += NodeNumericChildSize
		}
	}

	if charLen > 0 {
		n.Characters = append([]byte(nil), data[offset:offset+charLen]...)
		offset += charLen
	}

	return n, nil
}

// Bytes serializes the record back to its on-disk form.
func (n NodeRecord) Bytes(engine endian.EndianEngine, hasNumericChildren bool) []byte {
	size := NodeHeaderSize + len(n.Children)*NodeChildSize + len(n.Characters)
	if hasNumericChildren {
		size += len(n.NumericChildren) * NodeNumericChildSize
	}
	b := make([]byte, size)

	engine.PutUint32(b[0:4], n.ParentOffset)
	engine.PutUint16(b[4:6], n.Position)
	engine.PutUint16(b[6:8], uint16(len(n.Characters))) //nolint: gosec
	engine.PutUint16(b[8:10], uint16(len(n.Children)))  //nolint: gosec
	if hasNumericChildren {
		engine.PutUint16(b[10:12], uint16(len(n.NumericChildren))) //nolint: gosec
	}
	engine.PutUint32(b[12:16], n.RankedSignatureCount)
	engine.PutUint32(b[16:20], n.FirstRankedSignatureIndex)

	offset := NodeHeaderSize
	for _, c := range n.Children {
		b[offset] = c.FirstByte
		engine.PutUint32(b[offset+1:offset+5], c.Offset)
		offset += NodeChildSize
	}
	if hasNumericChildren {
		for _, c := range n.NumericChildren {
			engine.PutUint16(b[offset:offset+2], c.Low)
			engine.PutUint16(b[offset+2:offset+4], c.High)
			engine.PutUint32(b[offset+4:offset+8], c.Offset)
			offset += NodeNumericChildSize
		}
	}
	copy(b[offset:], n.Characters)

	return b
}
