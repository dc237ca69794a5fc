package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// ValueRecord is the fixed 16-byte on-disk record for a Value: a name
// and description (string refs), a URL (string ref), and the index of
// the Property it belongs to.
type ValueRecord struct {
	NameOffset        uint32
	DescriptionOffset uint32
	URLOffset         uint32
	PropertyIndex     uint32
}

// ParseValueRecord decodes a ValueRecord from its fixed-stride slice.
func ParseValueRecord(data []byte, engine endian.EndianEngine) (ValueRecord, error) {
	if len(data) < ValueRecordSize {
		return ValueRecord{}, errs.ErrInvalidHeaderSize
	}

	return ValueRecord{
		NameOffset:        engine.Uint32(data[0:4]),
		DescriptionOffset: engine.Uint32(data[4:8]),
		URLOffset:         engine.Uint32(data[8:12]),
		PropertyIndex:     engine.Uint32(data[12:16]),
	}, nil
}

// Bytes serializes the record back to its on-disk form.
func (v ValueRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, ValueRecordSize)
	engine.PutUint32(b[0:4], v.NameOffset)
	engine.PutUint32(b[4:8], v.DescriptionOffset)
	engine.PutUint32(b[8:12], v.URLOffset)
	engine.PutUint32(b[12:16], v.PropertyIndex)

	return b
}
