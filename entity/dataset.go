package entity

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/corvidlabs/uasig/compress"
	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/format"
	"github.com/corvidlabs/uasig/internal/cache"
	"github.com/corvidlabs/uasig/internal/collision"
	"github.com/corvidlabs/uasig/internal/pool"
	"github.com/corvidlabs/uasig/section"
	"github.com/corvidlabs/uasig/source"
)

// datasetState tracks the dataset lifecycle: Created → Initialised →
// Disposed, one-way only.
type datasetState int32

const (
	stateCreated datasetState = iota
	stateInitialised
	stateDisposed
)

// SignatureList abstracts over the two on-disk signature representations:
// a fixed-stride list of v3.1's constant-width records, or a
// variable-size list of v3.2's. Matcher and entity code program against
// this interface so the version split never leaks past Init.
type SignatureList interface {
	Count() int
	GetByIndex(index int) (*Signature, error)
}

// NodeList abstracts Nodes over its one real shape (they are always
// variable-size) so entity code never reaches for the raw VariableList
// directly and risks skipping the *Node wrapping step.
type NodeList interface {
	Count() int
	GetByOffset(offset int64) (*Node, error)
	GetByIndex(index int) (*Node, error)
}

// ProfileList mirrors NodeList for Profiles.
type ProfileList interface {
	Count() int
	GetByOffset(offset int64) (*Profile, error)
	GetByIndex(index int) (*Profile, error)
}

// CacheCapacities configures the per-list two-generation cache size; zero
// fields fall back to cache.DefaultGenerationCapacity.
type CacheCapacities struct {
	Properties int
	Values     int
	Components int
	Maps       int
	Profiles   int
	Signatures int
	Nodes      int
	Strings    int
}

// Dataset owns one open data file: its header, reader pool, and every
// entity list built from its regions. It is immutable after Init
// completes; the only mutable state afterward is memoisation inside
// individual entity views and the per-list caches.
type Dataset struct {
	Header *section.Header
	engine endian.EndianEngine
	src    source.Source
	pool   *pool.ReaderPool

	state    atomic.Int32
	refCount atomic.Int32

	Strings                *VariableList[section.StringRecord]
	Properties             *propertyList
	Values                 *valueList
	Components             *componentList
	Maps                   *mapList
	Profiles               ProfileList
	Signatures             SignatureList
	Nodes                  NodeList
	RankedSignatureIndexes *FixedList[section.RankedSignatureIndexRecord]

	componentPropertyIndices []uint32
	mapPropertyIndices       []uint32

	propertyNames       []string // sorted ascending, parallel to propertyIndexByName
	propertyIndexByName []int

	sigNodeSlotsV31 int // dataset-wide node-slot width for v3.1 signature records

	rootsOnce sync.Once
	roots     []*Node
	rootsErr  error
}

// Open reads the header from src, builds every entity list, and runs
// the cross-reference Init phase. maxReaders <= 0 means an unbounded
// reader pool.
func Open(src source.Source, engine endian.EndianEngine, caps CacheCapacities, maxReaders int) (*Dataset, error) {
	bootstrapPool := pool.NewReaderPool(src, engine, maxReaders)
	r, err := bootstrapPool.Acquire()
	if err != nil {
		return nil, err
	}

	headerBytes, err := r.ReadBytes(0, section.HeaderSizeV32)
	if err != nil {
		bootstrapPool.Release(r)
		return nil, errs.ErrDataFileIO
	}

	header, err := section.Parse(headerBytes, engine)
	if err != nil {
		bootstrapPool.Release(r)
		return nil, err
	}

	if header.Compression == format.CompressionNone {
		bootstrapPool.Release(r)
	} else {
		decompressed, err := decompressRegions(r, src, header, engine)
		bootstrapPool.Release(r)
		if err != nil {
			return nil, err
		}
		if err := src.Close(); err != nil {
			return nil, err
		}

		src = source.NewByteArraySource(decompressed)
		bootstrapPool = pool.NewReaderPool(src, engine, maxReaders)
	}

	ds := &Dataset{
		Header: header,
		engine: engine,
		src:    src,
		pool:   bootstrapPool,
	}

	if err := ds.init(caps); err != nil {
		src.Close()
		return nil, err
	}

	ds.state.Store(int32(stateInitialised))

	return ds, nil
}

// decompressRegions reads everything after the header — the header
// itself is always stored uncompressed; compression, when declared,
// applies to every region after it — and decompresses it with
// the codec header.Compression names, returning a full file image — the
// re-serialized header followed by the decompressed regions — that every
// downstream offset in header still addresses correctly, since region
// offsets are unaffected by compression.
func decompressRegions(r *source.Reader, src source.Source, header *section.Header, engine endian.EndianEngine) ([]byte, error) {
	bodySize := src.Size() - int64(header.Size())
	if bodySize < 0 {
		return nil, errs.ErrDatasetFormat
	}

	compressed, err := r.ReadBytes(int64(header.Size()), int(bodySize))
	if err != nil {
		return nil, errs.ErrDataFileIO
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, errs.ErrDatasetFormat
	}

	body, err := codec.Decompress(compressed)
	if err != nil {
		return nil, errs.ErrDatasetFormat
	}

	return append(header.Bytes(engine), body...), nil
}

func cap0(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func (ds *Dataset) init(caps CacheCapacities) error {
	h := ds.Header
	def := cache.DefaultGenerationCapacity

	ds.Strings = NewVariableList[section.StringRecord](
		ds.pool, ds.engine, int64(h.StringsOffset), ds.regionSize(h.StringsOffset),
		cap0(caps.Strings, def), section.PeekStringHeader, section.ParseStringRecord,
	)
	// StringCount is zero on v3.1 files, which never declared one; the
	// scan then runs to the end of the region.
	if err := ds.Strings.BuildIndex(2, int(h.StringCount)); err != nil {
		return err
	}

	ds.Properties = &propertyList{ds: ds, raw: NewFixedList(
		ds.pool, ds.engine, int64(h.PropertiesOffset), section.PropertyRecordSize,
		int(h.PropertyCount), cap0(caps.Properties, def), section.ParsePropertyRecord,
	)}
	ds.Values = &valueList{ds: ds, raw: NewFixedList(
		ds.pool, ds.engine, int64(h.ValuesOffset), section.ValueRecordSize,
		int(h.ValueCount), cap0(caps.Values, def), section.ParseValueRecord,
	)}
	ds.Components = &componentList{ds: ds, raw: NewFixedList(
		ds.pool, ds.engine, int64(h.ComponentsOffset), section.ComponentRecordHeaderSize,
		int(h.ComponentCount), cap0(caps.Components, def), section.ParseComponentRecord,
	)}
	ds.Maps = &mapList{ds: ds, raw: NewFixedList(
		ds.pool, ds.engine, int64(h.MapsOffset), section.MapRecordSize,
		int(h.MapCount), cap0(caps.Maps, def), section.ParseMapRecord,
	)}

	if err := ds.loadSharedIndexArrays(); err != nil {
		return err
	}

	rawProfiles := NewVariableList[section.ProfileRecord](
		ds.pool, ds.engine, int64(h.ProfilesOffset), ds.regionSize(h.ProfilesOffset),
		cap0(caps.Profiles, def), section.PeekProfileHeader, section.ParseProfileRecord,
	)
	if err := rawProfiles.BuildIndex(section.ProfileHeaderSize, int(h.ProfileCount)); err != nil {
		return err
	}
	ds.Profiles = &profileList{ds: ds, raw: rawProfiles}

	hasNumeric := h.Version == format.Version32
	nodeParse := func(data []byte, engine endian.EndianEngine) (section.NodeRecord, error) {
		return section.ParseNodeRecord(data, engine, hasNumeric)
	}
	nodePeek := func(data []byte, engine endian.EndianEngine) (int, error) {
		return section.PeekNodeHeader(data, engine, hasNumeric)
	}
	rawNodes := NewVariableList[section.NodeRecord](
		ds.pool, ds.engine, int64(h.NodesOffset), ds.regionSize(h.NodesOffset),
		cap0(caps.Nodes, def), nodePeek, nodeParse,
	)
	if err := rawNodes.BuildIndex(section.NodeHeaderSize, int(h.NodeCount)); err != nil {
		return err
	}
	ds.Nodes = &nodeList{ds: ds, raw: rawNodes}

	if h.Version == format.Version31 {
		ds.sigNodeSlotsV31 = int(h.SignatureNodeSlotsV31)
		stride := 4 + (int(h.ComponentCount)+ds.sigNodeSlotsV31)*4
		rawSigs := NewFixedList[section.SignatureRecord](
			ds.pool, ds.engine, int64(h.SignaturesOffset), stride,
			int(h.SignatureCount), cap0(caps.Signatures, def),
			func(data []byte, engine endian.EndianEngine) (section.SignatureRecord, error) {
				return section.ParseSignatureRecordV31(data, engine, int(h.ComponentCount), ds.sigNodeSlotsV31)
			},
		)
		ds.Signatures = &fixedSignatureList{ds: ds, raw: rawSigs, stride: int64(stride), baseOffset: int64(h.SignaturesOffset)}
	} else {
		rawSigs := NewVariableList[section.SignatureRecord](
			ds.pool, ds.engine, int64(h.SignaturesOffset), ds.regionSize(h.SignaturesOffset),
			cap0(caps.Signatures, def), section.PeekSignatureHeader, section.ParseSignatureRecord,
		)
		if err := rawSigs.BuildIndex(section.SignatureHeaderSize, int(h.SignatureCount)); err != nil {
			return err
		}
		ds.Signatures = &variableSignatureList{ds: ds, raw: rawSigs}
	}

	ds.RankedSignatureIndexes = NewFixedList(
		ds.pool, ds.engine, int64(h.RankedSignaturesOffset), section.RankedSignatureIndexSize,
		int(h.RankedSignatureCount), def, section.ParseRankedSignatureIndexRecord,
	)

	return ds.buildPropertyNameIndex()
}

// regionSize computes the byte size of the region starting at start. The
// header records where each region begins but not how long it is; since
// regions are laid out contiguously, a region runs until the nearest
// region start beyond it, or the end of the file for the physically last
// one.
func (ds *Dataset) regionSize(start uint32) int64 {
	h := ds.Header
	starts := []uint32{
		h.ComponentsOffset, h.MapsOffset, h.PropertiesOffset, h.ValuesOffset,
		h.ProfilesOffset, h.SignaturesOffset, h.NodesOffset, h.StringsOffset,
		h.ComponentPropertyIndicesOffset, h.MapPropertyIndicesOffset,
	}
	if h.Version == format.Version32 {
		starts = append(starts, h.RankedSignaturesOffset, h.ValueRangesOffset)
	}

	end := ds.src.Size()
	for _, s := range starts {
		if s > start && int64(s) < end {
			end = int64(s)
		}
	}

	return end - int64(start)
}

func (ds *Dataset) loadSharedIndexArrays() error {
	r, err := ds.pool.Acquire()
	if err != nil {
		return err
	}
	defer ds.pool.Release(r)

	ds.componentPropertyIndices = make([]uint32, ds.Header.ComponentPropertyIndexCount)
	for i := range ds.componentPropertyIndices {
		v, err := r.ReadUint32(int64(ds.Header.ComponentPropertyIndicesOffset) + int64(i)*4)
		if err != nil {
			return errs.ErrDataFileIO
		}
		ds.componentPropertyIndices[i] = v
	}

	ds.mapPropertyIndices = make([]uint32, ds.Header.MapPropertyIndexCount)
	for i := range ds.mapPropertyIndices {
		v, err := r.ReadUint32(int64(ds.Header.MapPropertyIndicesOffset) + int64(i)*4)
		if err != nil {
			return errs.ErrDataFileIO
		}
		ds.mapPropertyIndices[i] = v
	}

	return nil
}

func (ds *Dataset) componentPropertyIndex(i int) (int, error) {
	if i < 0 || i >= len(ds.componentPropertyIndices) {
		return 0, errs.ErrOffsetOutOfRange
	}
	return int(ds.componentPropertyIndices[i]), nil
}

func (ds *Dataset) mapPropertyIndex(i int) (int, error) {
	if i < 0 || i >= len(ds.mapPropertyIndices) {
		return 0, errs.ErrOffsetOutOfRange
	}
	return int(ds.mapPropertyIndices[i]), nil
}

// buildPropertyNameIndex rejects duplicate property names, and duplicate
// value names within a property, and builds the sorted name→index array
// PropertyByName binary-searches against.
func (ds *Dataset) buildPropertyNameIndex() error {
	tracker := collision.NewTracker(ds.Properties.Count())

	type entry struct {
		name  string
		index int
	}
	entries := make([]entry, 0, ds.Properties.Count())

	for i := 0; i < ds.Properties.Count(); i++ {
		p, err := ds.Properties.GetByIndex(i)
		if err != nil {
			return err
		}
		name, err := p.Name()
		if err != nil {
			return err
		}
		if err := tracker.Track(name); err != nil {
			return err
		}
		values, err := p.Values()
		if err != nil {
			return err
		}
		valueNames := collision.NewTracker(len(values))
		for _, v := range values {
			vn, err := v.Name()
			if err != nil {
				return err
			}
			if err := valueNames.Track(vn); err != nil {
				return err
			}
		}
		entries = append(entries, entry{name: name, index: i})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	ds.propertyNames = make([]string, len(entries))
	ds.propertyIndexByName = make([]int, len(entries))
	for i, e := range entries {
		ds.propertyNames[i] = e.name
		ds.propertyIndexByName[i] = e.index
	}

	return nil
}

// PropertyByName resolves a Property by its name via sorted-array
// binary search; a missing name returns (nil, nil) rather than an
// error.
func (ds *Dataset) PropertyByName(name string) (*Property, error) {
	i := sort.SearchStrings(ds.propertyNames, name)
	if i == len(ds.propertyNames) || ds.propertyNames[i] != name {
		return nil, nil
	}

	return ds.Properties.GetByIndex(ds.propertyIndexByName[i])
}

// RootNodes returns every Node with no parent: the entry points the
// matcher's node-discovery pass starts walking from. The set is
// discovered once, by scanning the Nodes region, and memoised.
func (ds *Dataset) RootNodes() ([]*Node, error) {
	ds.rootsOnce.Do(func() {
		for i := 0; i < ds.Nodes.Count(); i++ {
			n, err := ds.Nodes.GetByIndex(i)
			if err != nil {
				ds.rootsErr = err
				return
			}
			if n.IsRoot() {
				ds.roots = append(ds.roots, n)
			}
		}
	})

	return ds.roots, ds.rootsErr
}

// PoolStats reports the reader pool's lifetime counters: readers
// allocated, and readers returned for reuse. Exposed for the metrics
// collector; a low created count relative to match volume means the
// pool is recycling readers as intended.
func (ds *Dataset) PoolStats() (created, queued int64) {
	return ds.pool.ReadersCreated(), ds.pool.ReadersQueued()
}

// Acquire increments the dataset's in-flight reference count, used by
// the watcher to know when it is safe to dispose a superseded dataset.
func (ds *Dataset) Acquire() { ds.refCount.Add(1) }

// Release decrements the in-flight reference count.
func (ds *Dataset) Release() { ds.refCount.Add(-1) }

// InFlight reports the number of callers currently holding a reference.
func (ds *Dataset) InFlight() int32 { return ds.refCount.Load() }

// IsDisposed reports whether Dispose has completed.
func (ds *Dataset) IsDisposed() bool {
	return datasetState(ds.state.Load()) == stateDisposed
}

// Dispose marks the dataset disposed and closes its source. It does not
// drain the reader pool and does not clear the per-list record caches:
// records already cached are still served afterward, while any read that
// reaches the closed source fails.
func (ds *Dataset) Dispose() error {
	if !ds.state.CompareAndSwap(int32(stateInitialised), int32(stateDisposed)) {
		return nil
	}

	return ds.src.Close()
}

// --- wrapper lists: adapt raw section-record lists to entity pointer types ---

type propertyList struct {
	ds  *Dataset
	raw *FixedList[section.PropertyRecord]
}

func (l *propertyList) Count() int { return l.raw.Count() }

func (l *propertyList) GetByIndex(i int) (*Property, error) {
	rec, err := l.raw.Get(i)
	if err != nil {
		return nil, err
	}
	return newProperty(l.ds, i, rec), nil
}

type valueList struct {
	ds  *Dataset
	raw *FixedList[section.ValueRecord]
}

func (l *valueList) Count() int { return l.raw.Count() }

func (l *valueList) GetByIndex(i int) (*Value, error) {
	rec, err := l.raw.Get(i)
	if err != nil {
		return nil, err
	}
	return newValue(l.ds, i, rec), nil
}

type componentList struct {
	ds  *Dataset
	raw *FixedList[section.ComponentRecord]
}

func (l *componentList) Count() int { return l.raw.Count() }

func (l *componentList) GetByIndex(i int) (*Component, error) {
	rec, err := l.raw.Get(i)
	if err != nil {
		return nil, err
	}
	return newComponent(l.ds, i, rec), nil
}

type mapList struct {
	ds  *Dataset
	raw *FixedList[section.MapRecord]
}

func (l *mapList) Count() int { return l.raw.Count() }

func (l *mapList) GetByIndex(i int) (*Map, error) {
	rec, err := l.raw.Get(i)
	if err != nil {
		return nil, err
	}
	return newMap(l.ds, i, rec), nil
}

type profileList struct {
	ds  *Dataset
	raw *VariableList[section.ProfileRecord]
}

func (l *profileList) Count() int { return l.raw.Count() }

func (l *profileList) GetByOffset(offset int64) (*Profile, error) {
	rec, err := l.raw.GetByOffset(offset)
	if err != nil {
		return nil, err
	}
	return newProfile(l.ds, offset, rec), nil
}

func (l *profileList) GetByIndex(i int) (*Profile, error) {
	offset, err := l.raw.OffsetOf(i)
	if err != nil {
		return nil, err
	}
	return l.GetByOffset(offset)
}

type nodeList struct {
	ds  *Dataset
	raw *VariableList[section.NodeRecord]
}

func (l *nodeList) Count() int { return l.raw.Count() }

func (l *nodeList) GetByOffset(offset int64) (*Node, error) {
	rec, err := l.raw.GetByOffset(offset)
	if err != nil {
		return nil, err
	}
	return newNode(l.ds, offset, rec), nil
}

func (l *nodeList) GetByIndex(i int) (*Node, error) {
	offset, err := l.raw.OffsetOf(i)
	if err != nil {
		return nil, err
	}
	return l.GetByOffset(offset)
}

// fixedSignatureList wraps a v3.1 FixedList[SignatureRecord]. Signature
// offsets, for v3.1, are synthetic: the record's own byte offset within
// the Signatures region, since v3.1 never cross-references signatures by
// offset (only profiles and ranked-signature indices reference them, both
// by logical index).
type fixedSignatureList struct {
	ds         *Dataset
	raw        *FixedList[section.SignatureRecord]
	stride     int64
	baseOffset int64
}

func (l *fixedSignatureList) Count() int { return l.raw.Count() }

func (l *fixedSignatureList) GetByIndex(i int) (*Signature, error) {
	rec, err := l.raw.Get(i)
	if err != nil {
		return nil, err
	}
	offset := l.baseOffset + int64(i)*l.stride
	return newSignature(l.ds, i, offset, rec), nil
}

type variableSignatureList struct {
	ds  *Dataset
	raw *VariableList[section.SignatureRecord]
}

func (l *variableSignatureList) Count() int { return l.raw.Count() }

func (l *variableSignatureList) GetByIndex(i int) (*Signature, error) {
	offset, err := l.raw.OffsetOf(i)
	if err != nil {
		return nil, err
	}
	rec, err := l.raw.GetByOffset(offset)
	if err != nil {
		return nil, err
	}
	return newSignature(l.ds, i, offset, rec), nil
}
