package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/format"
)

func TestPropertyRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	p := PropertyRecord{
		NameOffset:           10,
		DescriptionOffset:    20,
		CategoryOffset:       30,
		URLOffset:            40,
		DisplayOrder:         -5,
		IsList:               true,
		IsMandatory:          false,
		IsObsolete:           true,
		ShowValues:           true,
		ValueType:            format.ValueTypeString,
		ComponentId:          2,
		DefaultValueIndex:    7,
		MapCount:             3,
		FirstMapIndex:        1,
		FirstValueIndex:      100,
		LastValueIndex:       110,
		JavaScriptNameOffset: 50,
	}

	got, err := ParsePropertyRecord(p.Bytes(engine), engine)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValueRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	v := ValueRecord{NameOffset: 1, DescriptionOffset: 2, URLOffset: 3, PropertyIndex: 4}

	got, err := ParseValueRecord(v.Bytes(engine), engine)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestComponentRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := ComponentRecord{ComponentId: 1, PropertyCount: 12, NameOffset: 5, DefaultProfileOffset: 99, FirstPropertyIndex: 3}

	got, err := ParseComponentRecord(c.Bytes(engine), engine)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestMapRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	m := MapRecord{NameOffset: 7, FirstPropertyIndex: 2, PropertyCount: 9}

	got, err := ParseMapRecord(m.Bytes(engine), engine)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestProfileRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	p := ProfileRecord{
		ComponentId:      1,
		ProfileId:        42,
		ValueIndices:     []uint32{1, 2, 3},
		SignatureIndices: []uint32{10, 20},
	}

	data := p.Bytes(engine)
	got, err := ParseProfileRecord(data, engine)
	require.NoError(t, err)
	assert.Equal(t, p.ComponentId, got.ComponentId)
	assert.Equal(t, p.ProfileId, got.ProfileId)
	assert.Equal(t, p.ValueIndices, got.ValueIndices)
	assert.Equal(t, p.SignatureIndices, got.SignatureIndices)
	assert.Equal(t, len(data), got.Size)
}

func TestSignatureRecord_RoundTrip_V32(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	s := SignatureRecord{
		Rank:           5,
		ProfileOffsets: []uint32{1, 2, 3, 4},
		NodeOffsets:    []uint32{10, 20, 30},
	}

	data := s.Bytes(engine)
	got, err := ParseSignatureRecord(data, engine)
	require.NoError(t, err)
	assert.Equal(t, s.Rank, got.Rank)
	assert.Equal(t, s.ProfileOffsets, got.ProfileOffsets)
	assert.Equal(t, s.NodeOffsets, got.NodeOffsets)
}

func TestSignatureRecordV31_TrimsTrailingZeros(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := make([]byte, 4+(4+3)*4)
	engine.PutUint32(data[0:4], 9)
	// 4 profile offsets
	for i := 0; i < 4; i++ {
		engine.PutUint32(data[4+i*4:8+i*4], uint32(i+1)) //nolint: gosec
	}
	// 3 node slots, only first populated
	engine.PutUint32(data[20:24], 100)

	got, err := ParseSignatureRecordV31(data, engine, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), got.Rank)
	assert.Equal(t, []uint32{1, 2, 3, 4}, got.ProfileOffsets)
	assert.Equal(t, []uint32{100}, got.NodeOffsets)
}

func TestNodeRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	n := NodeRecord{
		ParentOffset:              RootNodeOffset,
		Position:                  12,
		Characters:                []byte("abc"),
		Children:                  []NodeChild{{FirstByte: 'a', Offset: 100}, {FirstByte: 'z', Offset: 200}},
		NumericChildren:           []NumericChild{{Low: 1, High: 9, Offset: 300}},
		RankedSignatureCount:      5,
		FirstRankedSignatureIndex: 42,
	}

	data := n.Bytes(engine, true)
	got, err := ParseNodeRecord(data, engine, true)
	require.NoError(t, err)
	assert.Equal(t, n.ParentOffset, got.ParentOffset)
	assert.Equal(t, n.Position, got.Position)
	assert.Equal(t, n.Characters, got.Characters)
	assert.Equal(t, n.Children, got.Children)
	assert.Equal(t, n.NumericChildren, got.NumericChildren)
	assert.Equal(t, n.RankedSignatureCount, got.RankedSignatureCount)
	assert.Equal(t, n.FirstRankedSignatureIndex, got.FirstRankedSignatureIndex)
	assert.Equal(t, len(data), got.Size)
}

func TestNodeRecord_V31_NoNumericChildren(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	n := NodeRecord{ParentOffset: 5, Position: 1, Characters: []byte("x")}

	data := n.Bytes(engine, false)
	got, err := ParseNodeRecord(data, engine, false)
	require.NoError(t, err)
	assert.Nil(t, got.NumericChildren)
}

func TestStringRecord_RoundTrip_ASCII(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := make([]byte, 3+5)
	engine.PutUint16(data[0:2], 5)
	copy(data[3:], "hello")

	got, err := ParseStringRecord(data, engine)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Value)
	assert.Equal(t, 8, got.Size)
}

func TestStringRecord_Latin1Flag(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	// 0xA9 in Windows-1252 is the copyright sign (U+00A9), 2 bytes in UTF-8.
	data := []byte{1, 0, stringFlagLatin1, 0xA9}

	got, err := ParseStringRecord(data, engine)
	require.NoError(t, err)
	assert.Equal(t, "©", got.Value)
}

func TestRankedSignatureIndexRecord_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	r := RankedSignatureIndexRecord{SignatureIndex: 777}

	got, err := ParseRankedSignatureIndexRecord(r.Bytes(engine), engine)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}
