package entity

import (
	"strconv"
	"strings"
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Signature is a typed view over a SignatureRecord: a set of
// (position, characters) node fragments that must all match a candidate
// User-Agent for the signature to apply, plus the profiles (one per
// component) it resolves to.
type Signature struct {
	ds     *Dataset
	Index  int
	Offset int64
	rec    section.SignatureRecord

	once       sync.Once
	profiles   []*Profile
	nodes      []*Node
	deviceId   string
	length     int
	resolveErr error
}

func newSignature(ds *Dataset, index int, offset int64, rec section.SignatureRecord) *Signature {
	return &Signature{ds: ds, Index: index, Offset: offset, rec: rec}
}

func (s *Signature) resolve() {
	s.once.Do(func() {
		s.profiles = make([]*Profile, 0, len(s.rec.ProfileOffsets))
		ids := make([]string, 0, len(s.rec.ProfileOffsets))
		for _, off := range s.rec.ProfileOffsets {
			p, err := s.ds.Profiles.GetByOffset(int64(off))
			if err != nil {
				s.resolveErr = err
				return
			}
			s.profiles = append(s.profiles, p)
			ids = append(ids, formatProfileId(p.ProfileId()))
		}
		s.deviceId = strings.Join(ids, "-")

		s.nodes = make([]*Node, 0, len(s.rec.NodeOffsets))
		maxEnd := 0
		for _, off := range s.rec.NodeOffsets {
			n, err := s.ds.Nodes.GetByOffset(int64(off))
			if err != nil {
				s.resolveErr = err
				return
			}
			s.nodes = append(s.nodes, n)
			end := int(n.Position()) + len(n.Characters())
			if end > maxEnd {
				maxEnd = end
			}
		}
		s.length = maxEnd
	})
}

// Rank is the signature's popularity rank; lower is more popular.
func (s *Signature) Rank() uint32 { return s.rec.Rank }

// NodeOffsets returns the signature's raw node offsets, in the ascending
// order the file format requires of a signature's node references.
func (s *Signature) NodeOffsets() []uint32 { return s.rec.NodeOffsets }

// Profiles resolves the signature's one-profile-per-component set.
func (s *Signature) Profiles() ([]*Profile, error) {
	s.resolve()
	return s.profiles, s.resolveErr
}

// Nodes resolves the signature's node fragments, in ascending position
// order.
func (s *Signature) Nodes() ([]*Node, error) {
	s.resolve()
	return s.nodes, s.resolveErr
}

// DeviceId returns the '-'-joined ProfileIds of the signature's
// profiles in ascending ComponentId order. It is stable across dataset
// rebuilds so long as a device's component composition is unchanged.
func (s *Signature) DeviceId() (string, error) {
	s.resolve()
	return s.deviceId, s.resolveErr
}

// Length returns one past the highest UA byte position covered by any of
// the signature's node fragments (the largest Position+len(Characters)).
func (s *Signature) Length() (int, error) {
	s.resolve()
	return s.length, s.resolveErr
}

// CompareTo orders two signatures by their node-offset vectors
// lexicographically; a strict prefix is lesser than the longer vector
// that extends it.
func (s *Signature) CompareTo(other *Signature) int {
	a, b := s.rec.NodeOffsets, other.rec.NodeOffsets
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// StartsWith reports whether the signature's first len(nodeOffsets) node
// offsets equal nodeOffsets in order.
func (s *Signature) StartsWith(nodeOffsets []uint32) bool {
	if len(nodeOffsets) > len(s.rec.NodeOffsets) {
		return false
	}
	for i, off := range nodeOffsets {
		if s.rec.NodeOffsets[i] != off {
			return false
		}
	}

	return true
}

// Render reconstructs the User-Agent characters implied by this
// signature's nodes: each node's byte run is laid at its Position, with
// gaps (positions no node covers) rewritten as spaces.
func (s *Signature) Render() (string, error) {
	nodes, err := s.Nodes()
	if err != nil {
		return "", err
	}

	length, err := s.Length()
	if err != nil {
		return "", err
	}

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = ' '
	}
	for _, n := range nodes {
		copy(buf[n.Position():], n.Characters())
	}

	for i, b := range buf {
		if b == 0 {
			buf[i] = ' '
		}
	}

	return string(buf), nil
}

func formatProfileId(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
