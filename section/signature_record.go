package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// SignatureHeaderSize is the fixed portion of a v3.2 SignatureRecord that
// precedes its two packed offset arrays.
const SignatureHeaderSize = 8

// SignatureRecord is the on-disk record for a Signature: a set of
// profile references (one per component present) and node references
// (the (position, characters) fragments that must all match), plus its
// popularity Rank.
//
// v3.2 layout: Rank(4) ProfileCount(2) NodeCount(2), then ProfileCount
// uint32 profile offsets (sorted ascending by ComponentId), then NodeCount
// uint32 node offsets (sorted ascending by UA position).
//
// v3.1 stores the same two arrays but at a dataset-wide fixed stride: the
// profile-offset array always has Header.ComponentCount entries and the
// node-offset array always has a fixed width recorded in the dataset
// (entity.Dataset.sigNodeSlotsV31), so a v3.1 signature record never
// needs its own counts — ParseSignatureRecordV31 takes them as
// parameters instead of reading them from the stream.
type SignatureRecord struct {
	Rank           uint32
	ProfileOffsets []uint32
	NodeOffsets    []uint32
	Size           int
}

// PeekSignatureHeader reports a v3.2 signature record's total size without
// fully decoding it.
func PeekSignatureHeader(data []byte, engine endian.EndianEngine) (totalSize int, err error) {
	if len(data) < SignatureHeaderSize {
		return 0, errs.ErrInvalidHeaderSize
	}

	profileCount := int(engine.Uint16(data[4:6]))
	nodeCount := int(engine.Uint16(data[6:8]))

	return SignatureHeaderSize + (profileCount+nodeCount)*4, nil
}

// ParseSignatureRecord decodes a full v3.2 SignatureRecord.
func ParseSignatureRecord(data []byte, engine endian.EndianEngine) (SignatureRecord, error) {
	size, err := PeekSignatureHeader(data, engine)
	if err != nil {
		return SignatureRecord{}, err
	}
	if len(data) < size {
		return SignatureRecord{}, errs.ErrInvalidHeaderSize
	}

	profileCount := int(engine.Uint16(data[4:6]))
	nodeCount := int(engine.Uint16(data[6:8]))

	s := SignatureRecord{
		Rank: engine.Uint32(data[0:4]),
		Size: size,
	}

	offset := SignatureHeaderSize
	s.ProfileOffsets = make([]uint32, profileCount)
	for i := 0; i < profileCount; i++ {
		s.ProfileOffsets[i] = engine.Uint32(data[offset : offset+4])
		offset += 4
	}
	s.NodeOffsets = make([]uint32, nodeCount)
	for i := 0; i < nodeCount; i++ {
		s.NodeOffsets[i] = engine.Uint32(data[offset : offset+4])
		offset += 4
	}

	return s, nil
}

// Bytes serializes a v3.2 record back to its on-disk form.
func (s SignatureRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, SignatureHeaderSize+(len(s.ProfileOffsets)+len(s.NodeOffsets))*4)
	engine.PutUint32(b[0:4], s.Rank)
	engine.PutUint16(b[4:6], uint16(len(s.ProfileOffsets))) //nolint: gosec
	engine.PutUint16(b[6:8], uint16(len(s.NodeOffsets)))    //nolint: gosec

	offset := SignatureHeaderSize
	for _, v := range s.ProfileOffsets {
		engine.PutUint32(b[offset:offset+4], v)
		offset += 4
	}
	for _, v := range s.NodeOffsets {
		engine.PutUint32(b[offset:offset+4], v)
		offset += 4
	}

	return b
}

// ParseSignatureRecordV31 decodes a fixed-stride v3.1 signature record.
// componentCount and nodeSlots are dataset-wide constants; trailing zero
// node offsets (when a signature uses fewer than nodeSlots fragments) are
// trimmed from the result.
func ParseSignatureRecordV31(data []byte, engine endian.EndianEngine, componentCount, nodeSlots int) (SignatureRecord, error) {
	size := 4 + (componentCount+nodeSlots)*4
	if len(data) < size {
		return SignatureRecord{}, errs.ErrInvalidHeaderSize
	}

	s := SignatureRecord{Rank: engine.Uint32(data[0:4]), Size: size}
	offset := 4
	s.ProfileOffsets = make([]uint32, componentCount)
	for i := 0; i < componentCount; i++ {
		s.ProfileOffsets[i] = engine.Uint32(data[offset : offset+4])
		offset += 4
	}

	s.NodeOffsets = make([]uint32, 0, nodeSlots)
	for i := 0; i < nodeSlots; i++ {
		v := engine.Uint32(data[offset : offset+4])
		offset += 4
		if v == 0 && i > 0 {
			break
		}
		s.NodeOffsets = append(s.NodeOffsets, v)
	}

	return s, nil
}
