package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// ProfileHeaderSize is the fixed portion of a ProfileRecord that precedes
// its two packed index arrays.
const ProfileHeaderSize = 12

// ProfileRecord is the variable-size on-disk record for a Profile: a
// bundle of values for one component, plus the signatures that
// reference it.
//
// Layout: ComponentId(1) reserved(1) ProfileId(4) ValueIndexCount(2)
// SignatureIndexCount(2) reserved(2), then ValueIndexCount uint32 value
// indices, then SignatureIndexCount uint32 signature indices.
type ProfileRecord struct {
	ComponentId      uint8
	ProfileId        uint32
	ValueIndices     []uint32
	SignatureIndices []uint32
	// Size is the total number of bytes this record occupies on disk.
	Size int
}

// PeekProfileHeader reads just enough of data to determine the record's
// total size, so the caller can re-read the full record in one shot
// instead of growing a buffer incrementally.
func PeekProfileHeader(data []byte, engine endian.EndianEngine) (totalSize int, err error) {
	if len(data) < ProfileHeaderSize {
		return 0, errs.ErrInvalidHeaderSize
	}

	valueCount := int(engine.Uint16(data[6:8]))
	sigCount := int(engine.Uint16(data[8:10]))

	return ProfileHeaderSize + (valueCount+sigCount)*4, nil
}

// ParseProfileRecord decodes a full ProfileRecord. data must contain at
// least the number of bytes PeekProfileHeader reported.
func ParseProfileRecord(data []byte, engine endian.EndianEngine) (ProfileRecord, error) {
	size, err := PeekProfileHeader(data, engine)
	if err != nil {
		return ProfileRecord{}, err
	}
	if len(data) < size {
		return ProfileRecord{}, errs.ErrInvalidHeaderSize
	}

	valueCount := int(engine.Uint16(data[6:8]))
	sigCount := int(engine.Uint16(data[8:10]))

	p := ProfileRecord{
		ComponentId: data[0],
		ProfileId:   engine.Uint32(data[2:6]),
		Size:        size,
	}

	offset := ProfileHeaderSize
	if valueCount > 0 {
		p.ValueIndices = make([]uint32, valueCount)
		for i := 0; i < valueCount; i++ {
			p.ValueIndices[i] = engine.Uint32(data[offset : offset+4])
			offset += 4
		}
	}
	if sigCount > 0 {
		p.SignatureIndices = make([]uint32, sigCount)
		for i := 0; i < sigCount; i++ {
			p.SignatureIndices[i] = engine.Uint32(data[offset : offset+4])
			offset += 4
		}
	}

	return p, nil
}

// Bytes serializes the record back to its on-disk form.
func (p ProfileRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, ProfileHeaderSize+(len(p.ValueIndices)+len(p.SignatureIndices))*4)
	b[0] = p.ComponentId
	engine.PutUint32(b[2:6], p.ProfileId)
	engine.PutUint16(b[6:8], uint16(len(p.ValueIndices)))      //nolint: gosec
	engine.PutUint16(b[8:10], uint16(len(p.SignatureIndices))) //nolint: gosec

	offset := ProfileHeaderSize
	for _, v := range p.ValueIndices {
		engine.PutUint32(b[offset:offset+4], v)
		offset += 4
	}
	for _, s := range p.SignatureIndices {
		engine.PutUint32(b[offset:offset+4], s)
		offset += 4
	}

	return b
}
