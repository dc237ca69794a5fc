package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/entity"
	"github.com/corvidlabs/uasig/format"
	"github.com/corvidlabs/uasig/section"
	"github.com/corvidlabs/uasig/source"
)

// buildBranchingDataset assembles a v3.2 data file with a small trie:
// root -['A']-> nodeA -['B']-> nodeB
//
//	\-['C']-> nodeC
//
// Signature 0 covers [nodeA, nodeB] ("AB"), rank 0.
// Signature 1 covers [nodeA, nodeC] ("AC"), rank 1.
// Both are referenced from nodeA's ranked-signature slice, so a UA that
// stops at nodeA (matching neither B nor C) exercises the Nearest
// strategy with a real tie-break.
func buildBranchingDataset(t *testing.T) *entity.Dataset {
	t.Helper()

	engine := endian.GetLittleEndianEngine()
	const headerSize = section.HeaderSizeV32

	var buf []byte
	place := func(data []byte) uint32 {
		off := uint32(headerSize + len(buf)) //nolint: gosec
		buf = append(buf, data...)
		return off
	}
	encodeString := func(s string) []byte {
		b := make([]byte, 3+len(s))
		engine.PutUint16(b[0:2], uint16(len(s))) //nolint: gosec
		copy(b[3:], s)
		return b
	}

	stringsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	propNameOffset := place(encodeString("DeviceName"))
	valFooOffset := place(encodeString("Foo"))
	valBarOffset := place(encodeString("Bar"))
	componentNameOffset := place(encodeString("Hardware"))
	mapNameOffset := place(encodeString("Lite"))

	propertiesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	property := section.PropertyRecord{
		NameOffset:           propNameOffset,
		DescriptionOffset:    entity.NoStringOffset,
		CategoryOffset:       entity.NoStringOffset,
		URLOffset:            entity.NoStringOffset,
		JavaScriptNameOffset: entity.NoStringOffset,
		ShowValues:           true,
		ValueType:            format.ValueTypeString,
		ComponentId:          0,
		DefaultValueIndex:    0,
		MapCount:             1,
		FirstMapIndex:        0,
		FirstValueIndex:      0,
		LastValueIndex:       1,
	}
	place(property.Bytes(engine))

	valuesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	valueFoo := section.ValueRecord{NameOffset: valFooOffset, DescriptionOffset: entity.NoStringOffset, URLOffset: entity.NoStringOffset, PropertyIndex: 0}
	valueBar := section.ValueRecord{NameOffset: valBarOffset, DescriptionOffset: entity.NoStringOffset, URLOffset: entity.NoStringOffset, PropertyIndex: 0}
	place(valueFoo.Bytes(engine))
	place(valueBar.Bytes(engine))

	// Nodes region: nodeB, nodeC, nodeA, root, in that order. Offsets are
	// computed analytically up front since children reference parents
	// and vice versa.
	nodesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	nodeBSize := section.NodeHeaderSize + len("B")
	nodeCSize := section.NodeHeaderSize + len("C")
	nodeASize := section.NodeHeaderSize + 2*section.NodeChildSize + len("A")

	nodeBOffset := nodesOffset
	nodeCOffset := nodeBOffset + uint32(nodeBSize)  //nolint: gosec
	nodeAOffset := nodeCOffset + uint32(nodeCSize)  //nolint: gosec
	rootOffset := nodeAOffset + uint32(nodeASize)   //nolint: gosec

	nodeB := section.NodeRecord{
		ParentOffset:              nodeAOffset,
		Position:                  1,
		Characters:                []byte("B"),
		RankedSignatureCount:      1,
		FirstRankedSignatureIndex: 0,
	}
	place(nodeB.Bytes(engine, true))

	nodeC := section.NodeRecord{
		ParentOffset:              nodeAOffset,
		Position:                  1,
		Characters:                []byte("C"),
		RankedSignatureCount:      1,
		FirstRankedSignatureIndex: 1,
	}
	place(nodeC.Bytes(engine, true))

	nodeA := section.NodeRecord{
		ParentOffset:              rootOffset,
		Position:                  0,
		Characters:                []byte("A"),
		Children:                  []section.NodeChild{{FirstByte: 'B', Offset: nodeBOffset}, {FirstByte: 'C', Offset: nodeCOffset}},
		RankedSignatureCount:      2,
		FirstRankedSignatureIndex: 0,
	}
	place(nodeA.Bytes(engine, true))

	root := section.NodeRecord{
		ParentOffset: section.RootNodeOffset,
		Position:     0,
		Children:     []section.NodeChild{{FirstByte: 'A', Offset: nodeAOffset}},
	}
	place(root.Bytes(engine, true))

	profilesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	profileFoo := section.ProfileRecord{ComponentId: 0, ProfileId: 1, ValueIndices: []uint32{0}, SignatureIndices: []uint32{0}}
	profileFooOffset := place(profileFoo.Bytes(engine))
	profileBar := section.ProfileRecord{ComponentId: 0, ProfileId: 2, ValueIndices: []uint32{1}, SignatureIndices: []uint32{1}}
	profileBarOffset := place(profileBar.Bytes(engine))

	signaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	sigAB := section.SignatureRecord{Rank: 0, ProfileOffsets: []uint32{profileFooOffset}, NodeOffsets: []uint32{nodeAOffset, nodeBOffset}}
	place(sigAB.Bytes(engine))
	sigAC := section.SignatureRecord{Rank: 1, ProfileOffsets: []uint32{profileBarOffset}, NodeOffsets: []uint32{nodeAOffset, nodeCOffset}}
	place(sigAC.Bytes(engine))

	componentsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	component := section.ComponentRecord{
		ComponentId:          0,
		PropertyCount:        1,
		NameOffset:           componentNameOffset,
		DefaultProfileOffset: profileFooOffset,
		FirstPropertyIndex:   0,
	}
	place(component.Bytes(engine))

	mapsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mapRecord := section.MapRecord{NameOffset: mapNameOffset, FirstPropertyIndex: 0, PropertyCount: 1}
	place(mapRecord.Bytes(engine))

	componentPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	cpi := make([]byte, 4)
	engine.PutUint32(cpi, 0)
	place(cpi)

	mapPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mpi := make([]byte, 4)
	engine.PutUint32(mpi, 0)
	place(mpi)

	rankedSignaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	rsi0 := section.RankedSignatureIndexRecord{SignatureIndex: 0}
	place(rsi0.Bytes(engine))
	rsi1 := section.RankedSignatureIndexRecord{SignatureIndex: 1}
	place(rsi1.Bytes(engine))

	header := &section.Header{
		Version:                        format.Version32,
		Compression:                    format.CompressionNone,
		MinUserAgentLength:             1,
		ComponentCount:                 1,
		PropertyCount:                  1,
		ValueCount:                     2,
		ProfileCount:                   2,
		SignatureCount:                 2,
		NodeCount:                      4,
		MapCount:                       1,
		StringCount:                    5,
		RankedSignatureCount:           2,
		ComponentsOffset:               componentsOffset,
		MapsOffset:                     mapsOffset,
		PropertiesOffset:               propertiesOffset,
		ValuesOffset:                   valuesOffset,
		ProfilesOffset:                 profilesOffset,
		SignaturesOffset:               signaturesOffset,
		NodesOffset:                    nodesOffset,
		StringsOffset:                  stringsOffset,
		ComponentPropertyIndicesOffset: componentPropertyIndicesOffset,
		MapPropertyIndicesOffset:       mapPropertyIndicesOffset,
		ComponentPropertyIndexCount:    1,
		MapPropertyIndexCount:          1,
		RankedSignaturesOffset:         rankedSignaturesOffset,
	}

	full := append(header.Bytes(engine), buf...)

	src := source.NewByteArraySource(full)
	ds, err := entity.Open(src, engine, entity.CacheCapacities{}, 0)
	require.NoError(t, err)

	return ds
}

func TestMatcher_ExactStrategy(t *testing.T) {
	ds := buildBranchingDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("AB"))
	require.NoError(t, err)

	assert.Equal(t, Exact, res.Strategy)
	assert.Equal(t, 0, res.Difference)
	require.NotNil(t, res.Signature)
	assert.Equal(t, uint32(0), res.Signature.Rank())
	assert.True(t, res.IsComplete)

	deviceId, err := res.DeviceId()
	require.NoError(t, err)
	assert.Equal(t, "1", deviceId)

	values, err := res.Values("DeviceName")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo"}, values)
}

func TestMatcher_NearestStrategy_TieBreaksByRank(t *testing.T) {
	ds := buildBranchingDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("AZ"))
	require.NoError(t, err)

	assert.Equal(t, Nearest, res.Strategy)
	assert.Equal(t, 1, res.LowestScore)
	require.NotNil(t, res.Signature)
	assert.Equal(t, 0, res.Signature.Index)
	assert.Equal(t, uint32(0), res.Signature.Rank())
}

func TestMatcher_NoneStrategy_NoNodeDiscovered(t *testing.T) {
	ds := buildBranchingDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("ZZZ"))
	require.NoError(t, err)

	assert.Equal(t, None, res.Strategy)
	assert.Equal(t, 3, res.Difference)
	assert.Nil(t, res.Signature)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, uint32(1), res.Profiles[0].ProfileId())
}

func TestMatcher_NonASCIIBytesNormalised(t *testing.T) {
	ds := buildBranchingDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte{'A', 'B', 0xFF})
	require.NoError(t, err)

	assert.Equal(t, Exact, res.Strategy)
}

// buildNumericDataset assembles a v3.2 data file whose trie carries a
// numeric-range child: root -['A']-> nodeA, and nodeA has one numeric
// child covering versions 5-9 (nodeN, position right after "A"). One
// signature ties [nodeA, nodeN] to a profile, so a UA like "A7" only
// resolves through the numeric splice.
func buildNumericDataset(t *testing.T) *entity.Dataset {
	t.Helper()

	engine := endian.GetLittleEndianEngine()
	const headerSize = section.HeaderSizeV32

	var buf []byte
	place := func(data []byte) uint32 {
		off := uint32(headerSize + len(buf)) //nolint: gosec
		buf = append(buf, data...)
		return off
	}
	encodeString := func(s string) []byte {
		b := make([]byte, 3+len(s))
		engine.PutUint16(b[0:2], uint16(len(s))) //nolint: gosec
		copy(b[3:], s)
		return b
	}

	stringsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	propNameOffset := place(encodeString("OSVersion"))
	valSevenOffset := place(encodeString("7"))
	componentNameOffset := place(encodeString("Software"))
	mapNameOffset := place(encodeString("Lite"))

	propertiesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	property := section.PropertyRecord{
		NameOffset:           propNameOffset,
		DescriptionOffset:    entity.NoStringOffset,
		CategoryOffset:       entity.NoStringOffset,
		URLOffset:            entity.NoStringOffset,
		JavaScriptNameOffset: entity.NoStringOffset,
		ShowValues:           true,
		ValueType:            format.ValueTypeString,
		MapCount:             1,
	}
	place(property.Bytes(engine))

	valuesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	valueSeven := section.ValueRecord{NameOffset: valSevenOffset, DescriptionOffset: entity.NoStringOffset, URLOffset: entity.NoStringOffset, PropertyIndex: 0}
	place(valueSeven.Bytes(engine))

	nodesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	nodeNSize := section.NodeHeaderSize + len("7")
	nodeASize := section.NodeHeaderSize + section.NodeNumericChildSize + len("A")

	nodeNOffset := nodesOffset
	nodeAOffset := nodeNOffset + uint32(nodeNSize) //nolint: gosec
	rootOffset := nodeAOffset + uint32(nodeASize)  //nolint: gosec

	nodeN := section.NodeRecord{
		ParentOffset:         nodeAOffset,
		Position:             1,
		Characters:           []byte("7"),
		RankedSignatureCount: 1,
	}
	place(nodeN.Bytes(engine, true))

	nodeA := section.NodeRecord{
		ParentOffset:         rootOffset,
		Position:             0,
		Characters:           []byte("A"),
		NumericChildren:      []section.NumericChild{{Low: 5, High: 9, Offset: nodeNOffset}},
		RankedSignatureCount: 1,
	}
	place(nodeA.Bytes(engine, true))

	root := section.NodeRecord{
		ParentOffset: section.RootNodeOffset,
		Children:     []section.NodeChild{{FirstByte: 'A', Offset: nodeAOffset}},
	}
	place(root.Bytes(engine, true))

	profilesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	profile := section.ProfileRecord{ProfileId: 7, ValueIndices: []uint32{0}, SignatureIndices: []uint32{0}}
	profileOffset := place(profile.Bytes(engine))

	signaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	sig := section.SignatureRecord{Rank: 0, ProfileOffsets: []uint32{profileOffset}, NodeOffsets: []uint32{nodeAOffset, nodeNOffset}}
	place(sig.Bytes(engine))

	componentsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	component := section.ComponentRecord{
		PropertyCount:        1,
		NameOffset:           componentNameOffset,
		DefaultProfileOffset: profileOffset,
	}
	place(component.Bytes(engine))

	mapsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mapRecord := section.MapRecord{NameOffset: mapNameOffset, PropertyCount: 1}
	place(mapRecord.Bytes(engine))

	componentPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	cpi := make([]byte, 4)
	place(cpi)

	mapPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mpi := make([]byte, 4)
	place(mpi)

	rankedSignaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	rsi := section.RankedSignatureIndexRecord{SignatureIndex: 0}
	place(rsi.Bytes(engine))

	header := &section.Header{
		Version:                        format.Version32,
		Compression:                    format.CompressionNone,
		MinUserAgentLength:             1,
		ComponentCount:                 1,
		PropertyCount:                  1,
		ValueCount:                     1,
		ProfileCount:                   1,
		SignatureCount:                 1,
		NodeCount:                      3,
		MapCount:                       1,
		StringCount:                    4,
		RankedSignatureCount:           1,
		ComponentsOffset:               componentsOffset,
		MapsOffset:                     mapsOffset,
		PropertiesOffset:               propertiesOffset,
		ValuesOffset:                   valuesOffset,
		ProfilesOffset:                 profilesOffset,
		SignaturesOffset:               signaturesOffset,
		NodesOffset:                    nodesOffset,
		StringsOffset:                  stringsOffset,
		ComponentPropertyIndicesOffset: componentPropertyIndicesOffset,
		MapPropertyIndicesOffset:       mapPropertyIndicesOffset,
		ComponentPropertyIndexCount:    1,
		MapPropertyIndexCount:          1,
		RankedSignaturesOffset:         rankedSignaturesOffset,
	}

	full := append(header.Bytes(engine), buf...)

	src := source.NewByteArraySource(full)
	ds, err := entity.Open(src, engine, entity.CacheCapacities{}, 0)
	require.NoError(t, err)

	return ds
}

func TestMatcher_NumericStrategy_InRange(t *testing.T) {
	ds := buildNumericDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("A7"))
	require.NoError(t, err)

	assert.Equal(t, Numeric, res.Strategy)
	assert.Equal(t, 0, res.Difference, "7 falls inside the 5-9 range")
	require.NotNil(t, res.Signature)

	deviceId, err := res.DeviceId()
	require.NoError(t, err)
	assert.Equal(t, "7", deviceId)
}

func TestMatcher_NumericStrategy_NearestRange(t *testing.T) {
	ds := buildNumericDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("A3"))
	require.NoError(t, err)

	assert.Equal(t, Numeric, res.Strategy)
	assert.Equal(t, 2, res.Difference, "3 is 2 below the 5-9 range")
}

// buildClosestDataset assembles a v3.2 data file where the discovered
// node set overlaps no signature, forcing the pipeline past Nearest.
// The trie is root -['X']-> nodeX, and nodeX is referenced by no
// signature at all. Three signatures exist over unreachable nodes:
//
//	sig 0: "AB" (rank 2) — mismatches the UA at the covered position
//	sig 1: "XZ" (rank 1) — distance 0 against "XY" at covered positions
//	sig 2: "XW" (rank 0) — also distance 0; rank must break the tie
func buildClosestDataset(t *testing.T) *entity.Dataset {
	t.Helper()

	engine := endian.GetLittleEndianEngine()
	const headerSize = section.HeaderSizeV32

	var buf []byte
	place := func(data []byte) uint32 {
		off := uint32(headerSize + len(buf)) //nolint: gosec
		buf = append(buf, data...)
		return off
	}
	encodeString := func(s string) []byte {
		b := make([]byte, 3+len(s))
		engine.PutUint16(b[0:2], uint16(len(s))) //nolint: gosec
		copy(b[3:], s)
		return b
	}

	stringsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	propNameOffset := place(encodeString("DeviceName"))
	valGenericOffset := place(encodeString("Generic"))
	componentNameOffset := place(encodeString("Hardware"))
	mapNameOffset := place(encodeString("Lite"))

	propertiesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	property := section.PropertyRecord{
		NameOffset:           propNameOffset,
		DescriptionOffset:    entity.NoStringOffset,
		CategoryOffset:       entity.NoStringOffset,
		URLOffset:            entity.NoStringOffset,
		JavaScriptNameOffset: entity.NoStringOffset,
		ShowValues:           true,
		ValueType:            format.ValueTypeString,
		MapCount:             1,
	}
	place(property.Bytes(engine))

	valuesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	valueGeneric := section.ValueRecord{NameOffset: valGenericOffset, DescriptionOffset: entity.NoStringOffset, URLOffset: entity.NoStringOffset, PropertyIndex: 0}
	place(valueGeneric.Bytes(engine))

	// Nodes region: the three signature-backing nodes first (ascending
	// offsets keep the signature list sorted by node-offset vector),
	// then nodeX, then the root.
	nodesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	nodeABSize := section.NodeHeaderSize + len("AB")
	nodeXZSize := section.NodeHeaderSize + len("XZ")
	nodeXWSize := section.NodeHeaderSize + len("XW")
	nodeXSize := section.NodeHeaderSize + len("X")

	nodeABOffset := nodesOffset
	nodeXZOffset := nodeABOffset + uint32(nodeABSize) //nolint: gosec
	nodeXWOffset := nodeXZOffset + uint32(nodeXZSize) //nolint: gosec
	nodeXOffset := nodeXWOffset + uint32(nodeXWSize)  //nolint: gosec
	rootOffset := nodeXOffset + uint32(nodeXSize)     //nolint: gosec

	nodeAB := section.NodeRecord{
		ParentOffset:         rootOffset,
		Characters:           []byte("AB"),
		RankedSignatureCount: 1,
	}
	place(nodeAB.Bytes(engine, true))

	nodeXZ := section.NodeRecord{
		ParentOffset:              rootOffset,
		Characters:                []byte("XZ"),
		RankedSignatureCount:      1,
		FirstRankedSignatureIndex: 1,
	}
	place(nodeXZ.Bytes(engine, true))

	nodeXW := section.NodeRecord{
		ParentOffset:              rootOffset,
		Characters:                []byte("XW"),
		RankedSignatureCount:      1,
		FirstRankedSignatureIndex: 2,
	}
	place(nodeXW.Bytes(engine, true))

	nodeX := section.NodeRecord{
		ParentOffset: rootOffset,
		Characters:   []byte("X"),
	}
	place(nodeX.Bytes(engine, true))

	root := section.NodeRecord{
		ParentOffset: section.RootNodeOffset,
		Children:     []section.NodeChild{{FirstByte: 'X', Offset: nodeXOffset}},
	}
	place(root.Bytes(engine, true))

	profilesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	profile := section.ProfileRecord{ProfileId: 9, ValueIndices: []uint32{0}, SignatureIndices: []uint32{0, 1, 2}}
	profileOffset := place(profile.Bytes(engine))

	signaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	sigAB := section.SignatureRecord{Rank: 2, ProfileOffsets: []uint32{profileOffset}, NodeOffsets: []uint32{nodeABOffset}}
	place(sigAB.Bytes(engine))
	sigXZ := section.SignatureRecord{Rank: 1, ProfileOffsets: []uint32{profileOffset}, NodeOffsets: []uint32{nodeXZOffset}}
	place(sigXZ.Bytes(engine))
	sigXW := section.SignatureRecord{Rank: 0, ProfileOffsets: []uint32{profileOffset}, NodeOffsets: []uint32{nodeXWOffset}}
	place(sigXW.Bytes(engine))

	componentsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	component := section.ComponentRecord{
		PropertyCount:        1,
		NameOffset:           componentNameOffset,
		DefaultProfileOffset: profileOffset,
	}
	place(component.Bytes(engine))

	mapsOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mapRecord := section.MapRecord{NameOffset: mapNameOffset, PropertyCount: 1}
	place(mapRecord.Bytes(engine))

	componentPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	cpi := make([]byte, 4)
	place(cpi)

	mapPropertyIndicesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	mpi := make([]byte, 4)
	place(mpi)

	rankedSignaturesOffset := uint32(headerSize + len(buf)) //nolint: gosec
	for i := 0; i < 3; i++ {
		rsi := section.RankedSignatureIndexRecord{SignatureIndex: uint32(i)} //nolint: gosec
		place(rsi.Bytes(engine))
	}

	header := &section.Header{
		Version:                        format.Version32,
		Compression:                    format.CompressionNone,
		MinUserAgentLength:             1,
		ComponentCount:                 1,
		PropertyCount:                  1,
		ValueCount:                     1,
		ProfileCount:                   1,
		SignatureCount:                 3,
		NodeCount:                      5,
		MapCount:                       1,
		StringCount:                    4,
		RankedSignatureCount:           3,
		ComponentsOffset:               componentsOffset,
		MapsOffset:                     mapsOffset,
		PropertiesOffset:               propertiesOffset,
		ValuesOffset:                   valuesOffset,
		ProfilesOffset:                 profilesOffset,
		SignaturesOffset:               signaturesOffset,
		NodesOffset:                    nodesOffset,
		StringsOffset:                  stringsOffset,
		ComponentPropertyIndicesOffset: componentPropertyIndicesOffset,
		MapPropertyIndicesOffset:       mapPropertyIndicesOffset,
		ComponentPropertyIndexCount:    1,
		MapPropertyIndexCount:          1,
		RankedSignaturesOffset:         rankedSignaturesOffset,
	}

	full := append(header.Bytes(engine), buf...)

	src := source.NewByteArraySource(full)
	ds, err := entity.Open(src, engine, entity.CacheCapacities{}, 0)
	require.NoError(t, err)

	return ds
}

func TestMatcher_ClosestStrategy_DistanceThenRankTieBreak(t *testing.T) {
	ds := buildClosestDataset(t)
	m := New(0)

	res, err := m.Match(ds, []byte("XY"))
	require.NoError(t, err)

	assert.Equal(t, Closest, res.Strategy)
	assert.Equal(t, 0, res.LowestScore, "XZ and XW both match the UA at every covered position")
	require.NotNil(t, res.Signature)
	assert.Equal(t, uint32(0), res.Signature.Rank(), "equal distance resolves by rank")
	assert.Equal(t, 2, res.Signature.Index)
	assert.Greater(t, res.SignaturesCompared, 0)
}

func TestMatcher_NodeEvaluationBudget_DegradedResult(t *testing.T) {
	ds := buildBranchingDataset(t)
	m := New(1)

	res, err := m.Match(ds, []byte("AB"))
	require.NoError(t, err)

	assert.False(t, res.IsComplete, "budget exhaustion must be reported")
	assert.Equal(t, 1, res.NodesEvaluated, "the walk stops at the budget")
	assert.Equal(t, Nearest, res.Strategy,
		"Exact would have applied, but the degraded path skips straight to Nearest")
	require.NotNil(t, res.Signature)
	assert.Equal(t, uint32(0), res.Signature.Rank())
}
