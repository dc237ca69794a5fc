package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// MapRecord is the fixed 16-byte on-disk record for a Map: it
// associates a data-file region name (e.g. "Lite", "Premium",
// "Enterprise") with the slice of properties belonging to that tier,
// stored in the same shared property-index array as ComponentRecord.
type MapRecord struct {
	NameOffset         uint32
	FirstPropertyIndex uint32
	PropertyCount      uint32
}

// ParseMapRecord decodes a MapRecord from its fixed-stride slice.
func ParseMapRecord(data []byte, engine endian.EndianEngine) (MapRecord, error) {
	if len(data) < MapRecordSize {
		return MapRecord{}, errs.ErrInvalidHeaderSize
	}

	return MapRecord{
		NameOffset:         engine.Uint32(data[0:4]),
		FirstPropertyIndex: engine.Uint32(data[4:8]),
		PropertyCount:      engine.Uint32(data[8:12]),
	}, nil
}

// Bytes serializes the record back to its on-disk form.
func (m MapRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, MapRecordSize)
	engine.PutUint32(b[0:4], m.NameOffset)
	engine.PutUint32(b[4:8], m.FirstPropertyIndex)
	engine.PutUint32(b[8:12], m.PropertyCount)

	return b
}
