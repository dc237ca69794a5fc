// Package collision provides a small duplicate-name tracker used while
// a dataset initialises: property names are unique within a dataset,
// and value names are unique within a property.
package collision

import (
	"github.com/corvidlabs/uasig/errs"
)

// Tracker records names seen so far within one namespace (the set of all
// property names, or the set of value names for a single property) and
// reports a duplicate as soon as it appears.
type Tracker struct {
	seen map[string]struct{}
	list []string
}

// NewTracker creates an empty Tracker with a capacity hint.
func NewTracker(sizeHint int) *Tracker {
	return &Tracker{
		seen: make(map[string]struct{}, sizeHint),
		list: make([]string, 0, sizeHint),
	}
}

// Track records name, returning errs.ErrDuplicateName if it was already
// tracked in this namespace.
func (t *Tracker) Track(name string) error {
	if _, exists := t.seen[name]; exists {
		return errs.ErrDuplicateName
	}

	t.seen[name] = struct{}{}
	t.list = append(t.list, name)

	return nil
}

// Count returns the number of distinct names tracked so far.
func (t *Tracker) Count() int {
	return len(t.list)
}

// Names returns the names in the order they were tracked.
func (t *Tracker) Names() []string {
	return t.list
}

// Reset clears all tracked names, preserving allocated capacity.
func (t *Tracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
	t.list = t.list[:0]
}
