package match

import (
	"strconv"
	"time"

	"github.com/corvidlabs/uasig/entity"
)

// Strategy identifies which of the five pipeline stages produced a
// Result.
type Strategy int

const (
	// Exact means the discovered node sequence matched a signature's node
	// vector exactly.
	Exact Strategy = iota
	// Numeric means a v3.2 numeric-range splice was required to find a
	// matching signature.
	Numeric
	// Nearest means the result was chosen from signatures sharing at
	// least one discovered node, scored by how many of its own nodes lie
	// outside the discovered set.
	Nearest
	// Closest means no signature shared a discovered node, and the
	// result was chosen by string-distance against the rendered form of
	// every signature.
	Closest
	// None means no node was discovered at all; the dataset's default
	// component profiles were returned instead of any signature.
	None
)

// String renders the strategy name, used in diagnostics and test failure
// messages.
func (s Strategy) String() string {
	switch s {
	case Exact:
		return "Exact"
	case Numeric:
		return "Numeric"
	case Nearest:
		return "Nearest"
	case Closest:
		return "Closest"
	case None:
		return "None"
	default:
		return "Unknown"
	}
}

// Result is the outcome of one Match call: the chosen signature (nil for
// strategy None), its resolved profiles, and the bookkeeping the pipeline
// accumulated along the way.
type Result struct {
	Signature *entity.Signature
	Profiles  []*entity.Profile

	Strategy   Strategy
	Difference int

	// LowestScore is the Nearest/Closest candidate's score; zero for
	// Exact, Numeric, and None.
	LowestScore int

	NodesEvaluated      int
	SignaturesCompared  int
	Elapsed             time.Duration

	// IsComplete is false when the node-evaluation budget was exhausted
	// before the pipeline could attempt Exact/Numeric resolution; the
	// Result is still valid, just degraded.
	IsComplete bool

	// cachedValues and cachedDeviceId, when set, answer Values and
	// DeviceId lookups directly instead of walking Profiles. Set when a
	// Result is rebuilt from a cache entry whose profile pointers no
	// longer belong to the live dataset generation.
	cachedValues   map[string][]string
	cachedDeviceId string
}

// FromCached rebuilds the lookup state of a Result that was
// reconstructed from a cache entry rather than produced by a live match,
// so callers can still call Values and DeviceId without the underlying
// profiles.
func (r *Result) FromCached(deviceId string, values map[string][]string) {
	r.cachedDeviceId = deviceId
	r.cachedValues = values
}

// DeviceId returns the matched signature's device identifier. For
// strategy None there is no signature, so the id is joined from the
// default profiles instead; it follows the same ascending-ComponentId
// ProfileId form either way.
func (r *Result) DeviceId() (string, error) {
	if r.cachedValues != nil {
		return r.cachedDeviceId, nil
	}
	if r.Signature != nil {
		return r.Signature.DeviceId()
	}

	ids := make([]byte, 0, len(r.Profiles)*8)
	for i, p := range r.Profiles {
		if i > 0 {
			ids = append(ids, '-')
		}
		ids = strconv.AppendUint(ids, uint64(p.ProfileId()), 10)
	}

	return string(ids), nil
}

// Values returns every value bundled for the named property across the
// result's profiles, in profile order. A missing property yields a nil,
// nil slice rather than an error.
func (r *Result) Values(propertyName string) ([]string, error) {
	if r.cachedValues != nil {
		return r.cachedValues[propertyName], nil
	}

	var out []string

	for _, profile := range r.Profiles {
		v, err := profile.ValueByPropertyName(propertyName)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}

		name, err := v.Name()
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}

	return out, nil
}
