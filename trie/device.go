package trie

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// DeviceRecord is one packed record in the Devices region: a fixed
// PropertyCount-long array of string offsets, index-aligned with the
// Properties region, one entry per property's value for this device.
type DeviceRecord struct {
	ValueOffsets []uint32
}

// ParseDeviceRecord decodes one DeviceRecord from a stride-sized slice.
func ParseDeviceRecord(data []byte, engine endian.EndianEngine) (DeviceRecord, error) {
	if len(data)%4 != 0 {
		return DeviceRecord{}, errs.ErrInvalidHeaderSize
	}

	offsets := make([]uint32, len(data)/4)
	for i := range offsets {
		offsets[i] = engine.Uint32(data[i*4 : i*4+4])
	}

	return DeviceRecord{ValueOffsets: offsets}, nil
}

// Bytes serializes the record back to its on-disk form.
func (d DeviceRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, len(d.ValueOffsets)*4)
	for i, off := range d.ValueOffsets {
		engine.PutUint32(b[i*4:i*4+4], off)
	}
	return b
}
