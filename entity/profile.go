package entity

import (
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Profile is a typed view over a ProfileRecord: a bundle of values for
// one component, plus the signatures that reference it.
type Profile struct {
	ds     *Dataset
	Offset int64
	rec    section.ProfileRecord

	once        sync.Once
	values      []*Value
	signatures  []*Signature
	resolveErr  error
}

func newProfile(ds *Dataset, offset int64, rec section.ProfileRecord) *Profile {
	return &Profile{ds: ds, Offset: offset, rec: rec}
}

func (p *Profile) resolve() {
	p.once.Do(func() {
		p.values = make([]*Value, 0, len(p.rec.ValueIndices))
		for _, idx := range p.rec.ValueIndices {
			v, err := p.ds.Values.GetByIndex(int(idx))
			if err != nil {
				p.resolveErr = err
				return
			}
			p.values = append(p.values, v)
		}

		p.signatures = make([]*Signature, 0, len(p.rec.SignatureIndices))
		for _, idx := range p.rec.SignatureIndices {
			s, err := p.ds.Signatures.GetByIndex(int(idx))
			if err != nil {
				p.resolveErr = err
				return
			}
			p.signatures = append(p.signatures, s)
		}
	})
}

// ComponentId returns the axis this profile bundles values for.
func (p *Profile) ComponentId() uint8 { return p.rec.ComponentId }

// ProfileId returns the profile's stable cross-release identifier.
func (p *Profile) ProfileId() uint32 { return p.rec.ProfileId }

// Values resolves every Value this profile bundles.
func (p *Profile) Values() ([]*Value, error) {
	p.resolve()
	return p.values, p.resolveErr
}

// Signatures resolves every Signature that references this profile.
func (p *Profile) Signatures() ([]*Signature, error) {
	p.resolve()
	return p.signatures, p.resolveErr
}

// ValueByPropertyName looks up this profile's value for a named property,
// returning (nil, nil) if the profile does not carry that property.
func (p *Profile) ValueByPropertyName(name string) (*Value, error) {
	values, err := p.Values()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		prop, err := v.Property()
		if err != nil {
			return nil, err
		}
		propName, err := prop.Name()
		if err != nil {
			return nil, err
		}
		if propName == name {
			return v, nil
		}
	}

	return nil, nil
}
