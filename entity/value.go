package entity

import (
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Value is a typed view over a ValueRecord: one concrete value a Property
// can take (e.g. Property "HardwareVendor", Value "Samsung").
type Value struct {
	ds    *Dataset
	Index int
	rec   section.ValueRecord

	once        sync.Once
	name        string
	description string
	url         string
	resolveErr  error
}

func newValue(ds *Dataset, index int, rec section.ValueRecord) *Value {
	return &Value{ds: ds, Index: index, rec: rec}
}

func (v *Value) resolve() {
	v.once.Do(func() {
		if v.name, v.resolveErr = v.ds.stringAt(v.rec.NameOffset); v.resolveErr != nil {
			return
		}
		if v.description, v.resolveErr = v.ds.stringAt(v.rec.DescriptionOffset); v.resolveErr != nil {
			return
		}
		v.url, v.resolveErr = v.ds.stringAt(v.rec.URLOffset)
	})
}

// Name returns the value's string form, e.g. "Samsung".
func (v *Value) Name() (string, error) {
	v.resolve()
	return v.name, v.resolveErr
}

// Description returns the value's human-readable description.
func (v *Value) Description() (string, error) {
	v.resolve()
	return v.description, v.resolveErr
}

// URL returns a documentation link for the value, if any.
func (v *Value) URL() (string, error) {
	v.resolve()
	return v.url, v.resolveErr
}

// Property resolves the Property this value belongs to.
func (v *Value) Property() (*Property, error) {
	return v.ds.Properties.GetByIndex(int(v.rec.PropertyIndex))
}
