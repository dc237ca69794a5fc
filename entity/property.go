package entity

import (
	"sync"

	"github.com/corvidlabs/uasig/format"
	"github.com/corvidlabs/uasig/section"
)

// Property is a typed view over a PropertyRecord: one named characteristic
// a dataset reports values for (e.g. IsMobile, HardwareModel).
type Property struct {
	ds    *Dataset
	Index int
	rec   section.PropertyRecord

	once           sync.Once
	name           string
	description    string
	category       string
	url            string
	javaScriptName string
	resolveErr     error
}

func newProperty(ds *Dataset, index int, rec section.PropertyRecord) *Property {
	return &Property{ds: ds, Index: index, rec: rec}
}

func (p *Property) resolve() {
	p.once.Do(func() {
		if p.name, p.resolveErr = p.ds.stringAt(p.rec.NameOffset); p.resolveErr != nil {
			return
		}
		if p.description, p.resolveErr = p.ds.stringAt(p.rec.DescriptionOffset); p.resolveErr != nil {
			return
		}
		if p.category, p.resolveErr = p.ds.stringAt(p.rec.CategoryOffset); p.resolveErr != nil {
			return
		}
		if p.url, p.resolveErr = p.ds.stringAt(p.rec.URLOffset); p.resolveErr != nil {
			return
		}
		p.javaScriptName, p.resolveErr = p.ds.stringAt(p.rec.JavaScriptNameOffset)
	})
}

// Name returns the property's name, e.g. "IsMobile".
func (p *Property) Name() (string, error) {
	p.resolve()
	return p.name, p.resolveErr
}

// Description returns the property's human-readable description.
func (p *Property) Description() (string, error) {
	p.resolve()
	return p.description, p.resolveErr
}

// Category returns the property's grouping category.
func (p *Property) Category() (string, error) {
	p.resolve()
	return p.category, p.resolveErr
}

// URL returns a documentation link for the property, if any.
func (p *Property) URL() (string, error) {
	p.resolve()
	return p.url, p.resolveErr
}

// JavaScriptName returns the property's name as exposed to generated
// client-side JavaScript, if distinct from Name.
func (p *Property) JavaScriptName() (string, error) {
	p.resolve()
	return p.javaScriptName, p.resolveErr
}

// ValueType reports the Go-facing type values of this property decode to.
func (p *Property) ValueType() format.ValueType {
	return p.rec.ValueType
}

// IsList reports whether the property can hold more than one value.
func (p *Property) IsList() bool { return p.rec.IsList }

// IsMandatory reports whether every profile must supply this property.
func (p *Property) IsMandatory() bool { return p.rec.IsMandatory }

// IsObsolete reports whether the property is retained only for
// backward-compatible reads of older profiles.
func (p *Property) IsObsolete() bool { return p.rec.IsObsolete }

// ShowValues reports whether the property's values should be rendered
// in UI contexts (vs. treated as internal bookkeeping).
func (p *Property) ShowValues() bool { return p.rec.ShowValues }

// ComponentId returns the axis (Hardware/Software/Browser/Crawler) this
// property belongs to.
func (p *Property) ComponentId() uint8 { return p.rec.ComponentId }

// DefaultValue resolves the property's default Value.
func (p *Property) DefaultValue() (*Value, error) {
	return p.ds.Values.GetByIndex(int(p.rec.DefaultValueIndex))
}

// Values returns every Value belonging to this property, in
// FirstValueIndex..LastValueIndex order.
func (p *Property) Values() ([]*Value, error) {
	if p.rec.LastValueIndex < p.rec.FirstValueIndex {
		return nil, nil
	}

	out := make([]*Value, 0, int(p.rec.LastValueIndex)-int(p.rec.FirstValueIndex)+1)
	for i := int(p.rec.FirstValueIndex); i <= int(p.rec.LastValueIndex); i++ {
		v, err := p.ds.Values.GetByIndex(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// Maps returns the data-file region tiers (Lite/Premium/Enterprise) this
// property is published in.
func (p *Property) Maps() ([]*Map, error) {
	out := make([]*Map, 0, p.rec.MapCount)
	for i := 0; i < int(p.rec.MapCount); i++ {
		m, err := p.ds.Maps.GetByIndex(int(p.rec.FirstMapIndex) + i)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}
