package trie

import (
	"sync"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/entity"
	"github.com/corvidlabs/uasig/errs"
	"github.com/corvidlabs/uasig/internal/pool"
	"github.com/corvidlabs/uasig/section"
	"github.com/corvidlabs/uasig/source"
)

// Dataset owns one open trie file: its header, reader pool, and the
// three regions the byte-walk matcher needs (strings, devices, nodes).
// It reuses entity's generic FixedList/VariableList abstractions rather
// than re-implementing offset-indexed and stride-indexed record access.
type Dataset struct {
	Header *Header
	engine endian.EndianEngine
	src    source.Source
	pool   *pool.ReaderPool

	Strings *entity.VariableList[section.StringRecord]
	Devices *entity.FixedList[DeviceRecord]
	Nodes   *entity.VariableList[NodeRecord]

	propertyNames []string // index-aligned with DeviceRecord.ValueOffsets

	disposeOnce sync.Once
}

// Open reads the header from src and builds the strings, devices, and
// nodes regions.
func Open(src source.Source, engine endian.EndianEngine, maxReaders int) (*Dataset, error) {
	readers := pool.NewReaderPool(src, engine, maxReaders)

	r, err := readers.Acquire()
	if err != nil {
		return nil, err
	}
	headerBytes, err := r.ReadBytes(0, HeaderSize)
	readers.Release(r)
	if err != nil {
		return nil, errs.ErrDataFileIO
	}

	header, err := Parse(headerBytes, engine)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Header: header, engine: engine, src: src, pool: readers}

	if err := ds.init(); err != nil {
		return nil, err
	}

	return ds, nil
}

func (ds *Dataset) init() error {
	h := ds.Header

	ds.Strings = entity.NewVariableList[section.StringRecord](
		ds.pool, ds.engine, int64(h.StringsOffset), int64(h.StringsSize),
		0, section.PeekStringHeader, section.ParseStringRecord,
	)
	if err := ds.Strings.BuildIndex(2, 0); err != nil {
		return err
	}

	ds.Devices = entity.NewFixedList[DeviceRecord](
		ds.pool, ds.engine, int64(h.DevicesOffset), h.DeviceStride(),
		int(h.DeviceCount), 0, ParseDeviceRecord,
	)

	nodesOffset := h.NodesOffset
	peek := func(data []byte, engine endian.EndianEngine) (int, error) {
		return PeekNodeHeader(data, engine)
	}
	parse := func(data []byte, engine endian.EndianEngine) (NodeRecord, error) {
		return ParseNodeRecord(data, engine, nodesOffset)
	}
	ds.Nodes = entity.NewVariableList[NodeRecord](
		ds.pool, ds.engine, int64(h.NodesOffset), int64(h.NodesLength),
		0, peek, parse,
	)
	if err := ds.Nodes.BuildIndex(12, 0); err != nil {
		return err
	}

	return ds.loadPropertyNames()
}

func (ds *Dataset) loadPropertyNames() error {
	ds.propertyNames = make([]string, ds.Header.PropertyCount)

	r, err := ds.pool.Acquire()
	if err != nil {
		return err
	}
	defer ds.pool.Release(r)

	for i := 0; i < int(ds.Header.PropertyCount); i++ {
		nameOffset, err := r.ReadUint32(int64(ds.Header.PropertiesOffset) + int64(i)*PropertyRecordSize)
		if err != nil {
			return errs.ErrDataFileIO
		}
		name, err := ds.stringAt(nameOffset)
		if err != nil {
			return err
		}
		ds.propertyNames[i] = name
	}

	return nil
}

func (ds *Dataset) stringAt(offset uint32) (string, error) {
	if offset == entity.NoStringOffset {
		return "", nil
	}

	rec, err := ds.Strings.GetByOffset(int64(offset))
	if err != nil {
		return "", err
	}

	return rec.Value, nil
}

// propertyIndex returns the index of name in the Properties region, or -1.
func (ds *Dataset) propertyIndex(name string) int {
	for i, n := range ds.propertyNames {
		if n == name {
			return i
		}
	}
	return -1
}

// lookupOrdinal reads the [Low, High] bound and ordinal table for the
// lookup-list entry at offset, returning the child ordinal for byte b, or
// ok=false if b falls outside the range or resolves to NoChildOrdinal.
func (ds *Dataset) lookupOrdinal(offset uint32, b byte) (int, bool, error) {
	r, err := ds.pool.Acquire()
	if err != nil {
		return 0, false, err
	}
	defer ds.pool.Release(r)

	low, err := r.ReadUint8(int64(offset))
	if err != nil {
		return 0, false, errs.ErrDataFileIO
	}
	high, err := r.ReadUint8(int64(offset) + 1)
	if err != nil {
		return 0, false, errs.ErrDataFileIO
	}
	if b < low || b > high {
		return 0, false, nil
	}

	ordinal, err := r.ReadUint8(int64(offset) + 2 + int64(b-low))
	if err != nil {
		return 0, false, errs.ErrDataFileIO
	}
	if ordinal == NoChildOrdinal {
		return 0, false, nil
	}

	return int(ordinal), true, nil
}

// Match walks the trie one UA byte at a time, resolving the device
// index that best identifies the User-Agent. It always returns a device
// index: the root node's own DeviceIndex (or the deepest inherited one
// reached) is the terminal fallback when the walk runs out of matching
// children before the UA is exhausted.
func (ds *Dataset) Match(userAgent []byte) (int, error) {
	node, err := ds.Nodes.GetByOffset(int64(ds.Header.NodesOffset))
	if err != nil {
		return 0, err
	}

	deviceIndex := -1
	if node.HasOwnDeviceIndex {
		deviceIndex = int(node.DeviceIndex)
	}

	for pos := 0; pos < len(userAgent); pos++ {
		b := userAgent[pos]
		if b >= 0x80 {
			b = ' '
		}

		ordinal, ok, err := ds.lookupOrdinal(node.LookupOffset, b)
		if err != nil {
			return 0, err
		}
		if !ok || ordinal >= len(node.Children) {
			break
		}

		child, err := ds.Nodes.GetByOffset(int64(node.Children[ordinal]))
		if err != nil {
			return 0, err
		}
		if child.HasOwnDeviceIndex {
			deviceIndex = int(child.DeviceIndex)
		}
		node = child
	}

	if deviceIndex < 0 {
		return 0, errs.ErrDatasetFormat
	}

	return deviceIndex, nil
}

// PropertyValue resolves the named property's value for a device index
// returned by Match. A device with no value set for the property (a
// NoStringOffset entry) resolves to "", nil rather than an error; an
// unknown property name resolves the same way.
func (ds *Dataset) PropertyValue(deviceIndex int, propertyName string) (string, error) {
	idx := ds.propertyIndex(propertyName)
	if idx < 0 {
		return "", nil
	}

	device, err := ds.Devices.Get(deviceIndex)
	if err != nil {
		return "", err
	}
	if idx >= len(device.ValueOffsets) {
		return "", nil
	}

	return ds.stringAt(device.ValueOffsets[idx])
}

// PropertyNames returns every property name in Properties-region order,
// matching the index alignment of DeviceRecord.ValueOffsets.
func (ds *Dataset) PropertyNames() []string {
	return ds.propertyNames
}

// Copyright resolves the file's copyright string.
func (ds *Dataset) Copyright() (string, error) {
	return ds.stringAt(ds.Header.CopyrightOffset)
}

// Dispose closes the underlying source. Safe to call more than once.
func (ds *Dataset) Dispose() error {
	var err error
	ds.disposeOnce.Do(func() {
		err = ds.src.Close()
	})
	return err
}
