package trie

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// nodeOwnDeviceFlag is the sign bit of a node's 4-byte lookup field: set
// means the node carries its own DeviceIndex, clear means it inherits
// the parent's.
const nodeOwnDeviceFlag = 0x80000000

// nodeFixedHeaderSize is the portion of a NodeRecord always present: the
// 4-byte lookup field, 2-byte child count, 1-byte offset width.
const nodeFixedHeaderSize = 7

// NodeRecord is the variable-size on-disk record for one trie node.
//
// Layout:
//
//	0:4            LookupOffset field (top bit = HasOwnDeviceIndex)
//	[4:8]          DeviceIndex           (present only if HasOwnDeviceIndex)
//	next 2 bytes   ChildCount
//	next 1 byte    OffsetWidth
//	next N*width   Children, N = ChildCount, offsets packed at
//	               OffsetWidth.Size() bytes each, stored relative to the
//	               trie's NodesOffset (ParseNodeRecord makes them absolute).
type NodeRecord struct {
	LookupOffset      uint32
	HasOwnDeviceIndex bool
	DeviceIndex       uint32
	OffsetWidth       OffsetWidth
	Children          []uint32 // absolute offsets, already de-based
	Size              int
}

// PeekNodeHeader reports a node record's total size. maxPeek bytes must
// cover the fixed header plus the optional device index (12 bytes is
// always enough); this function re-derives the variable children-block
// size from ChildCount and OffsetWidth once it knows whether the device
// index is present.
func PeekNodeHeader(data []byte, engine endian.EndianEngine) (int, error) {
	if len(data) < 4 {
		return 0, errs.ErrInvalidHeaderSize
	}

	field := engine.Uint32(data[0:4])
	hasOwn := field&nodeOwnDeviceFlag != 0

	offset := 4
	if hasOwn {
		offset += 4
	}
	if len(data) < offset+3 {
		return 0, errs.ErrInvalidHeaderSize
	}

	childCount := int(engine.Uint16(data[offset : offset+2]))
	width := OffsetWidth(data[offset+2])
	offset += 3

	return offset + childCount*width.Size(), nil
}

// ParseNodeRecord decodes a full NodeRecord. nodesOffset is the trie's
// Header.NodesOffset, added to every decoded child offset so callers
// always work with absolute file offsets.
func ParseNodeRecord(data []byte, engine endian.EndianEngine, nodesOffset uint32) (NodeRecord, error) {
	size, err := PeekNodeHeader(data, engine)
	if err != nil {
		return NodeRecord{}, err
	}
	if len(data) < size {
		return NodeRecord{}, errs.ErrInvalidHeaderSize
	}

	field := engine.Uint32(data[0:4])
	n := NodeRecord{
		HasOwnDeviceIndex: field&nodeOwnDeviceFlag != 0,
		LookupOffset:      field &^ nodeOwnDeviceFlag,
		Size:              size,
	}

	offset := 4
	if n.HasOwnDeviceIndex {
		n.DeviceIndex = engine.Uint32(data[offset : offset+4])
		offset += 4
	}

	childCount := int(engine.Uint16(data[offset : offset+2]))
	n.OffsetWidth = OffsetWidth(data[offset+2])
	offset += 3

	n.Children = make([]uint32, childCount)
	width := n.OffsetWidth.Size()
	for i := 0; i < childCount; i++ {
		switch n.OffsetWidth {
		case OffsetWidth16:
			n.Children[i] = nodesOffset + uint32(engine.Uint16(data[offset:offset+2]))
		case OffsetWidth32:
			n.Children[i] = nodesOffset + engine.Uint32(data[offset:offset+4])
		default:
			n.Children[i] = nodesOffset + uint32(engine.Uint64(data[offset:offset+8])) //nolint: gosec
		}
		offset += width
	}

	return n, nil
}

// Bytes serializes the record back to its on-disk form.
func (n NodeRecord) Bytes(engine endian.EndianEngine, nodesOffset uint32) []byte {
	width := n.OffsetWidth.Size()
	size := nodeFixedHeaderSize + len(n.Children)*width
	if n.HasOwnDeviceIndex {
		size += 4
	}
	b := make([]byte, size)

	field := n.LookupOffset
	if n.HasOwnDeviceIndex {
		field |= nodeOwnDeviceFlag
	}
	engine.PutUint32(b[0:4], field)

	offset := 4
	if n.HasOwnDeviceIndex {
		engine.PutUint32(b[offset:offset+4], n.DeviceIndex)
		offset += 4
	}

	engine.PutUint16(b[offset:offset+2], uint16(len(n.Children))) //nolint: gosec
	b[offset+2] = byte(n.OffsetWidth)
	offset += 3

	for _, child := range n.Children {
		rel := child - nodesOffset
		switch n.OffsetWidth {
		case OffsetWidth16:
			engine.PutUint16(b[offset:offset+2], uint16(rel)) //nolint: gosec
		case OffsetWidth32:
			engine.PutUint32(b[offset:offset+4], rel)
		default:
			engine.PutUint64(b[offset:offset+8], uint64(rel))
		}
		offset += width
	}

	return b
}
