package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// ComponentRecord is the fixed 16-byte on-disk record for a Component:
// an axis of the device such as Hardware, Software, Browser, or Crawler.
//
// The component's property indices are not stored inline — that would
// make the record variable-size and break O(1) stride access over the
// components region. They live in a single flat uint32 array
// shared by all components, and FirstPropertyIndex/PropertyCount select
// this component's slice of it.
type ComponentRecord struct {
	ComponentId          uint8
	PropertyCount        uint16
	NameOffset           uint32
	DefaultProfileOffset uint32
	FirstPropertyIndex   uint32
}

// ParseComponentRecord decodes a ComponentRecord from its fixed-stride slice.
func ParseComponentRecord(data []byte, engine endian.EndianEngine) (ComponentRecord, error) {
	if len(data) < ComponentRecordHeaderSize {
		return ComponentRecord{}, errs.ErrInvalidHeaderSize
	}

	return ComponentRecord{
		ComponentId:          data[0],
		PropertyCount:        engine.Uint16(data[2:4]),
		NameOffset:           engine.Uint32(data[4:8]),
		DefaultProfileOffset: engine.Uint32(data[8:12]),
		FirstPropertyIndex:   engine.Uint32(data[12:16]),
	}, nil
}

// Bytes serializes the record back to its on-disk form.
func (c ComponentRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, ComponentRecordHeaderSize)
	b[0] = c.ComponentId
	engine.PutUint16(b[2:4], c.PropertyCount)
	engine.PutUint32(b[4:8], c.NameOffset)
	engine.PutUint32(b[8:12], c.DefaultProfileOffset)
	engine.PutUint32(b[12:16], c.FirstPropertyIndex)

	return b
}
