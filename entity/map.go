package entity

import (
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Map is a typed view over a MapRecord: a data-file region name (Lite,
// Premium, Enterprise) and the properties published in it.
type Map struct {
	ds    *Dataset
	Index int
	rec   section.MapRecord

	once       sync.Once
	name       string
	resolveErr error
}

func newMap(ds *Dataset, index int, rec section.MapRecord) *Map {
	return &Map{ds: ds, Index: index, rec: rec}
}

func (m *Map) resolve() {
	m.once.Do(func() {
		m.name, m.resolveErr = m.ds.stringAt(m.rec.NameOffset)
	})
}

// Name returns the map's name, e.g. "Lite".
func (m *Map) Name() (string, error) {
	m.resolve()
	return m.name, m.resolveErr
}

// Properties returns every Property published in this map tier.
func (m *Map) Properties() ([]*Property, error) {
	out := make([]*Property, 0, m.rec.PropertyCount)
	for i := 0; i < int(m.rec.PropertyCount); i++ {
		idx, err := m.ds.mapPropertyIndex(int(m.rec.FirstPropertyIndex) + i)
		if err != nil {
			return nil, err
		}
		p, err := m.ds.Properties.GetByIndex(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}
