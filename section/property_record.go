package section

import (
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/format"
)

// PropertyRecord is the fixed 48-byte on-disk record for a Property.
// String fields are stored as offsets into the strings region and
// resolved lazily by the entity graph.
//
// Layout:
//
//	0:4   NameOffset
//	4:8   DescriptionOffset
//	8:12  CategoryOffset
//	12:16 URLOffset
//	16:20 DisplayOrder (int32)
//	20    IsList (bool)
//	21    IsMandatory (bool)
//	22    IsObsolete (bool)
//	23    ShowValues (bool)
//	24    ValueType
//	25    ComponentId
//	26:28 reserved
//	28:32 DefaultValueIndex
//	32:34 MapCount
//	34:36 FirstMapIndex
//	36:40 FirstValueIndex
//	40:44 LastValueIndex
//	44:48 JavaScriptNameOffset
type PropertyRecord struct {
	NameOffset           uint32
	DescriptionOffset    uint32
	CategoryOffset       uint32
	URLOffset            uint32
	DisplayOrder         int32
	IsList               bool
	IsMandatory          bool
	IsObsolete           bool
	ShowValues           bool
	ValueType            format.ValueType
	ComponentId          uint8
	DefaultValueIndex    uint32
	MapCount             uint16
	FirstMapIndex        uint16
	FirstValueIndex      uint32
	LastValueIndex       uint32
	JavaScriptNameOffset uint32
}

// ParsePropertyRecord decodes a PropertyRecord from its fixed-stride slice.
func ParsePropertyRecord(data []byte, engine endian.EndianEngine) (PropertyRecord, error) {
	if len(data) < PropertyRecordSize {
		return PropertyRecord{}, errs.ErrInvalidHeaderSize
	}

	return PropertyRecord{
		NameOffset:           engine.Uint32(data[0:4]),
		DescriptionOffset:    engine.Uint32(data[4:8]),
		CategoryOffset:       engine.Uint32(data[8:12]),
		URLOffset:            engine.Uint32(data[12:16]),
		DisplayOrder:         int32(engine.Uint32(data[16:20])), //nolint: gosec
		IsList:               data[20] != 0,
		IsMandatory:          data[21] != 0,
		IsObsolete:           data[22] != 0,
		ShowValues:           data[23] != 0,
		ValueType:            format.ValueType(data[24]),
		ComponentId:          data[25],
		DefaultValueIndex:    engine.Uint32(data[28:32]),
		MapCount:             engine.Uint16(data[32:34]),
		FirstMapIndex:        engine.Uint16(data[34:36]),
		FirstValueIndex:      engine.Uint32(data[36:40]),
		LastValueIndex:       engine.Uint32(data[40:44]),
		JavaScriptNameOffset: engine.Uint32(data[44:48]),
	}, nil
}

// Bytes serializes the record back to its 48-byte on-disk form.
func (p PropertyRecord) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, PropertyRecordSize)
	engine.PutUint32(b[0:4], p.NameOffset)
	engine.PutUint32(b[4:8], p.DescriptionOffset)
	engine.PutUint32(b[8:12], p.CategoryOffset)
	engine.PutUint32(b[12:16], p.URLOffset)
	engine.PutUint32(b[16:20], uint32(p.DisplayOrder)) //nolint: gosec
	putBool(b, 20, p.IsList)
	putBool(b, 21, p.IsMandatory)
	putBool(b, 22, p.IsObsolete)
	putBool(b, 23, p.ShowValues)
	b[24] = byte(p.ValueType)
	b[25] = p.ComponentId
	engine.PutUint32(b[28:32], p.DefaultValueIndex)
	engine.PutUint16(b[32:34], p.MapCount)
	engine.PutUint16(b[34:36], p.FirstMapIndex)
	engine.PutUint32(b[36:40], p.FirstValueIndex)
	engine.PutUint32(b[40:44], p.LastValueIndex)
	engine.PutUint32(b[44:48], p.JavaScriptNameOffset)

	return b
}

func putBool(b []byte, idx int, v bool) {
	if v {
		b[idx] = 1
	}
}
