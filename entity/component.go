package entity

import (
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Component is a typed view over a ComponentRecord: an axis of the
// device (Hardware, Software, Browser, Crawler) that profiles are
// defined against.
type Component struct {
	ds    *Dataset
	Index int
	rec   section.ComponentRecord

	once       sync.Once
	name       string
	resolveErr error
}

func newComponent(ds *Dataset, index int, rec section.ComponentRecord) *Component {
	return &Component{ds: ds, Index: index, rec: rec}
}

func (c *Component) resolve() {
	c.once.Do(func() {
		c.name, c.resolveErr = c.ds.stringAt(c.rec.NameOffset)
	})
}

// Name returns the component's name, e.g. "Hardware".
func (c *Component) Name() (string, error) {
	c.resolve()
	return c.name, c.resolveErr
}

// ComponentId returns the component's stable numeric id.
func (c *Component) ComponentId() uint8 { return c.rec.ComponentId }

// Properties returns every Property belonging to this component, drawn
// from the dataset's shared flat property-index array.
func (c *Component) Properties() ([]*Property, error) {
	out := make([]*Property, 0, c.rec.PropertyCount)
	for i := 0; i < int(c.rec.PropertyCount); i++ {
		idx, err := c.ds.componentPropertyIndex(int(c.rec.FirstPropertyIndex) + i)
		if err != nil {
			return nil, err
		}
		p, err := c.ds.Properties.GetByIndex(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

// DefaultProfile resolves this component's default Profile, used when a
// matcher falls back to strategy None.
func (c *Component) DefaultProfile() (*Profile, error) {
	return c.ds.Profiles.GetByOffset(int64(c.rec.DefaultProfileOffset))
}
