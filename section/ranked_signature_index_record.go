package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// RankedSignatureIndexRecord is one entry of the fixed 32-bit
// RankedSignatureIndexes region: a signature's logical index, placed at
// a position in this region that reflects the signature's popularity
// rank among the signatures that share a node.
type RankedSignatureIndexRecord struct {
	SignatureIndex uint32
}

// ParseRankedSignatureIndexRecord decodes one entry.
func ParseRankedSignatureIndexRecord(data []byte, engine endian.EndianEngine) (RankedSignatureIndexRecord, error) {
	if len(data) < RankedSignatureIndexSize {
		return RankedSignatureIndexRecord{}, errs.ErrInvalidHeaderSize
	}

	return RankedSignatureIndexRecord{SignatureIndex: engine.Uint32(data[0:4])}, nil
}

// Bytes serializes the entry back to its on-disk form.
func (r RankedSignatureIndexRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, RankedSignatureIndexSize)
	engine.PutUint32(b[0:4], r.SignatureIndex)

	return b
}
