package trie

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// Header is the fixed-size region at the start of a trie file.
//
// Layout (56 bytes):
//
//	0:4   Magic
//	4:5   Version
//	5:8   reserved
//	8:12  CopyrightOffset
//	12:16 PropertyCount
//	16:20 DeviceCount
//	20:24 StringsOffset
//	24:28 StringsSize
//	28:32 PropertiesOffset
//	32:36 DevicesOffset
//	36:40 LookupListOffset
//	40:44 LookupListSize
//	44:48 NodesOffset
//	48:56 NodesLength (uint64)
type Header struct {
	Version          uint8
	CopyrightOffset  uint32
	PropertyCount    uint32
	DeviceCount      uint32
	StringsOffset    uint32
	StringsSize      uint32
	PropertiesOffset uint32
	DevicesOffset    uint32
	LookupListOffset uint32
	LookupListSize   uint32
	NodesOffset      uint32
	NodesLength      uint64
}

// DeviceStride returns the fixed byte stride of one DeviceRecord: one
// string offset per property.
func (h *Header) DeviceStride() int {
	return int(h.PropertyCount) * 4
}

// Parse decodes a Header from its fixed-size region.
func Parse(data []byte, engine endian.EndianEngine) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, errs.ErrInvalidHeaderSize
	}

	if engine.Uint32(data[0:4]) != MagicNumber {
		return nil, errs.ErrDatasetFormat
	}

	h := &Header{
		Version:          data[4],
		CopyrightOffset:  engine.Uint32(data[8:12]),
		PropertyCount:    engine.Uint32(data[12:16]),
		DeviceCount:      engine.Uint32(data[16:20]),
		StringsOffset:    engine.Uint32(data[20:24]),
		StringsSize:      engine.Uint32(data[24:28]),
		PropertiesOffset: engine.Uint32(data[28:32]),
		DevicesOffset:    engine.Uint32(data[32:36]),
		LookupListOffset: engine.Uint32(data[36:40]),
		LookupListSize:   engine.Uint32(data[40:44]),
		NodesOffset:      engine.Uint32(data[44:48]),
		NodesLength:      engine.Uint64(data[48:56]),
	}

	return h, nil
}

// Bytes serializes the header back to its fixed-size on-disk form. Used
// by tests that round-trip a synthetic trie file.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HeaderSize)

	engine.PutUint32(b[0:4], MagicNumber)
	b[4] = h.Version
	engine.PutUint32(b[8:12], h.CopyrightOffset)
	engine.PutUint32(b[12:16], h.PropertyCount)
	engine.PutUint32(b[16:20], h.DeviceCount)
	engine.PutUint32(b[20:24], h.StringsOffset)
	engine.PutUint32(b[24:28], h.StringsSize)
	engine.PutUint32(b[28:32], h.PropertiesOffset)
	engine.PutUint32(b[32:36], h.DevicesOffset)
	engine.PutUint32(b[36:40], h.LookupListOffset)
	engine.PutUint32(b[40:44], h.LookupListSize)
	engine.PutUint32(b[44:48], h.NodesOffset)
	engine.PutUint64(b[48:56], h.NodesLength)

	return b
}
