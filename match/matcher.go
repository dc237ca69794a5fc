// Package match implements the five-strategy signature detection
// pipeline: Exact, Numeric, Nearest, Closest, and None, run in
// that order against a single entity.Dataset.
package match

import (
	"sort"
	"time"

	"github.com/corvidlabs/uasig/entity"
	"github.com/corvidlabs/uasig/format"
)

// Matcher runs the detection pipeline against a Dataset. A zero-value
// Matcher has no node-evaluation budget (unlimited). Matcher holds no
// mutable state, so one instance may be shared across concurrently
// calling goroutines against one shared dataset.
type Matcher struct {
	// NodeEvaluationBudget caps the number of trie nodes the discovery
	// pass will visit before giving up and falling back to a degraded
	// Nearest/Closest result with IsComplete=false. Zero means no cap.
	NodeEvaluationBudget int
}

// New returns a Matcher with the given node-evaluation budget (zero for
// unlimited).
func New(budget int) *Matcher {
	return &Matcher{NodeEvaluationBudget: budget}
}

func (m *Matcher) budgetExceeded(evaluated int) bool {
	return m.NodeEvaluationBudget > 0 && evaluated >= m.NodeEvaluationBudget
}

// discovery is the node-sequence N* the trie walk found, plus bookkeeping.
type discovery struct {
	nodes          []*entity.Node
	evaluated      int
	budgetExceeded bool
}

// Match runs the full pipeline against userAgent (non-ASCII bytes are
// normalised to 0x20 first) and returns a Result. It never returns a
// nil Result without an error: a dataset with no matching node at all
// resolves to strategy None.
func (m *Matcher) Match(ds *entity.Dataset, userAgent []byte) (*Result, error) {
	start := time.Now()
	ua := normalizeUA(userAgent)

	disc, err := m.discover(ds, ua)
	if err != nil {
		return nil, err
	}

	res := &Result{
		NodesEvaluated: disc.evaluated,
		IsComplete:     !disc.budgetExceeded,
	}

	if len(disc.nodes) == 0 {
		return m.finishNone(res, ds, ua, start)
	}

	if !disc.budgetExceeded {
		offsets := nodeOffsets(disc.nodes)

		sig, compared, err := m.exactMatch(ds, offsets)
		if err != nil {
			return nil, err
		}
		res.SignaturesCompared += compared
		if sig != nil {
			return m.finishSignature(res, sig, Exact, 0, start)
		}

		if spliced, delta, ok := m.numericSplice(ds, ua, disc.nodes); ok {
			sig, compared, err := m.exactMatch(ds, nodeOffsets(spliced))
			if err != nil {
				return nil, err
			}
			res.SignaturesCompared += compared
			if sig != nil {
				return m.finishSignature(res, sig, Numeric, delta, start)
			}
		}
	}

	sig, score, compared, err := m.nearestMatch(disc.nodes)
	if err != nil {
		return nil, err
	}
	res.SignaturesCompared += compared
	if sig != nil {
		res.LowestScore = score
		return m.finishSignature(res, sig, Nearest, score, start)
	}

	sig, score, compared, err = m.closestMatch(ds, ua, disc.nodes)
	if err != nil {
		return nil, err
	}
	res.SignaturesCompared += compared
	if sig != nil {
		res.LowestScore = score
		return m.finishSignature(res, sig, Closest, score, start)
	}

	return m.finishNone(res, ds, ua, start)
}

func (m *Matcher) finishSignature(res *Result, sig *entity.Signature, strategy Strategy, difference int, start time.Time) (*Result, error) {
	profiles, err := sig.Profiles()
	if err != nil {
		return nil, err
	}

	res.Signature = sig
	res.Profiles = profiles
	res.Strategy = strategy
	res.Difference = difference
	res.Elapsed = time.Since(start)

	return res, nil
}

func (m *Matcher) finishNone(res *Result, ds *entity.Dataset, ua []byte, start time.Time) (*Result, error) {
	profiles := make([]*entity.Profile, 0, ds.Components.Count())
	for i := 0; i < ds.Components.Count(); i++ {
		c, err := ds.Components.GetByIndex(i)
		if err != nil {
			return nil, err
		}
		p, err := c.DefaultProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	res.Profiles = profiles
	res.Strategy = None
	res.Difference = len(ua)
	res.Elapsed = time.Since(start)

	return res, nil
}

// discover walks the trie one UA byte at a time starting from the root
// node set, binary-searching children at each step (children are ordered
// by leading byte; Node.ChildAt), and stops when a position has no
// matching child, the UA is exhausted, or the node-evaluation budget
// runs out.
func (m *Matcher) discover(ds *entity.Dataset, ua []byte) (discovery, error) {
	var d discovery

	roots, err := ds.RootNodes()
	if err != nil {
		return d, err
	}

	pos := 0
	var current *entity.Node

	for pos < len(ua) {
		if m.budgetExceeded(d.evaluated) {
			d.budgetExceeded = true
			break
		}

		var next *entity.Node
		var err error
		if current == nil {
			next, err = rootChildAt(roots, ua[pos])
		} else {
			next, err = current.ChildAt(ua[pos])
		}
		d.evaluated++
		if err != nil {
			return d, err
		}
		if next == nil {
			break
		}

		d.nodes = append(d.nodes, next)
		current = next

		run := len(next.Characters())
		if run == 0 {
			break
		}
		pos += run
	}

	return d, nil
}

// rootChildAt tries every root node in turn (the "root node set") for a
// literal child matching b, returning the first hit.
func rootChildAt(roots []*entity.Node, b byte) (*entity.Node, error) {
	for _, root := range roots {
		child, err := root.ChildAt(b)
		if err != nil {
			return nil, err
		}
		if child != nil {
			return child, nil
		}
	}

	return nil, nil
}

// exactMatch binary-searches the signature list — stored in node-offset
// order — for a signature whose node-offset vector equals offsets
// exactly.
func (m *Matcher) exactMatch(ds *entity.Dataset, offsets []uint32) (*entity.Signature, int, error) {
	count := ds.Signatures.Count()
	compared := 0
	var searchErr error

	i := sort.Search(count, func(i int) bool {
		if searchErr != nil {
			return true
		}
		sig, err := ds.Signatures.GetByIndex(i)
		if err != nil {
			searchErr = err
			return true
		}
		compared++
		return compareNodeOffsets(sig.NodeOffsets(), offsets) >= 0
	})
	if searchErr != nil {
		return nil, compared, searchErr
	}
	if i == count {
		return nil, compared, nil
	}

	sig, err := ds.Signatures.GetByIndex(i)
	if err != nil {
		return nil, compared, err
	}
	if compareNodeOffsets(sig.NodeOffsets(), offsets) == 0 {
		return sig, compared, nil
	}

	return nil, compared, nil
}

// numericSplice is the Numeric strategy: for the last discovered node (walking
// backward) that carries numeric-range children, parse the UA's numeric run
// starting right after it and substitute the nearest numeric child in
// N*'s tail. v3.1 datasets never carry numeric children, so this is a
// no-op for them.
func (m *Matcher) numericSplice(ds *entity.Dataset, ua []byte, nodes []*entity.Node) ([]*entity.Node, int, bool) {
	if ds.Header.Version != format.Version32 {
		return nil, 0, false
	}

	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !n.HasNumericChildren() {
			continue
		}

		pos := int(n.Position()) + len(n.Characters())
		value, ok := parseNumericRun(ua, pos)
		if !ok {
			continue
		}

		child, hit, err := n.NumericChildNear(value)
		if err != nil || !hit {
			var delta int
			child, delta, err = n.NearestNumericChild(value)
			if err != nil || child == nil {
				continue
			}
			return append(append([]*entity.Node{}, nodes[:i+1]...), child), delta, true
		}

		return append(append([]*entity.Node{}, nodes[:i+1]...), child), 0, true
	}

	return nil, 0, false
}

// parseNumericRun reads the run of ASCII digits at ua[pos:] and returns
// its value, clamped to uint16 range (the on-disk numeric-child bounds
// are uint16).
func parseNumericRun(ua []byte, pos int) (uint16, bool) {
	if pos < 0 || pos >= len(ua) || ua[pos] < '0' || ua[pos] > '9' {
		return 0, false
	}

	value := 0
	for i := pos; i < len(ua) && ua[i] >= '0' && ua[i] <= '9'; i++ {
		value = value*10 + int(ua[i]-'0')
		if value > 0xFFFF {
			value = 0xFFFF
		}
	}

	return uint16(value), true //nolint: gosec
}

// nearestMatch is the Nearest strategy: gather every signature referencing
// any discovered node (via each node's rank-ordered signature index, so
// the candidate set is found without scanning the whole signature list),
// score each by how many of its own nodes fall outside N*, and return the
// lowest-scoring candidate, breaking ties by rank then signature index.
func (m *Matcher) nearestMatch(nodes []*entity.Node) (*entity.Signature, int, int, error) {
	inSet := make(map[uint32]struct{}, len(nodes))
	for _, n := range nodes {
		inSet[uint32(n.Offset)] = struct{}{} //nolint: gosec
	}

	seen := make(map[int]struct{})
	var best *entity.Signature
	bestScore := -1
	compared := 0

	for _, n := range nodes {
		sigs, err := n.RankedSignatures()
		if err != nil {
			return nil, 0, compared, err
		}

		for _, sig := range sigs {
			if _, ok := seen[sig.Index]; ok {
				continue
			}
			seen[sig.Index] = struct{}{}
			compared++

			score := 0
			for _, off := range sig.NodeOffsets() {
				if _, ok := inSet[off]; !ok {
					score++
				}
			}

			if best == nil || score < bestScore || (score == bestScore && isBetterTie(sig, best)) {
				best = sig
				bestScore = score
			}
		}
	}

	if best == nil {
		return nil, 0, compared, nil
	}

	return best, bestScore, compared, nil
}

// closestMatch is the Closest strategy: when no signature shares a
// discovered node, score every signature by a position-restricted
// edit-distance-like comparison against the UA and return the minimum,
// breaking ties by rank then signature index.
func (m *Matcher) closestMatch(ds *entity.Dataset, ua []byte, nodes []*entity.Node) (*entity.Signature, int, int, error) {
	covered := coveredPositions(nodes)

	count := ds.Signatures.Count()
	var best *entity.Signature
	bestScore := -1
	compared := 0

	for i := 0; i < count; i++ {
		sig, err := ds.Signatures.GetByIndex(i)
		if err != nil {
			return nil, 0, compared, err
		}
		compared++

		rendered, err := sig.Render()
		if err != nil {
			return nil, 0, compared, err
		}

		score := distanceRestricted(ua, rendered, covered)
		if best == nil || score < bestScore || (score == bestScore && isBetterTie(sig, best)) {
			best = sig
			bestScore = score
		}
	}

	if best == nil {
		return nil, 0, compared, nil
	}

	return best, bestScore, compared, nil
}

func isBetterTie(candidate, current *entity.Signature) bool {
	if candidate.Rank() != current.Rank() {
		return candidate.Rank() < current.Rank()
	}
	return candidate.Index < current.Index
}

func coveredPositions(nodes []*entity.Node) []bool {
	maxEnd := 0
	for _, n := range nodes {
		end := int(n.Position()) + len(n.Characters())
		if end > maxEnd {
			maxEnd = end
		}
	}

	covered := make([]bool, maxEnd)
	for _, n := range nodes {
		start := int(n.Position())
		for i := start; i < start+len(n.Characters()) && i < maxEnd; i++ {
			covered[i] = true
		}
	}

	return covered
}

func distanceRestricted(ua []byte, rendered string, covered []bool) int {
	score := 0
	for i, on := range covered {
		if !on {
			continue
		}
		switch {
		case i >= len(ua) || i >= len(rendered):
			score++
		case ua[i] != rendered[i]:
			score++
		}
	}

	if diff := len(ua) - len(rendered); diff != 0 {
		if diff < 0 {
			diff = -diff
		}
		score += diff
	}

	return score
}

func nodeOffsets(nodes []*entity.Node) []uint32 {
	out := make([]uint32, len(nodes))
	for i, n := range nodes {
		out[i] = uint32(n.Offset) //nolint: gosec
	}
	return out
}

func compareNodeOffsets(a, b []uint32) int {
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

// normalizeUA replaces non-ASCII bytes with a space; the trie and the
// numeric parser only ever see ASCII.
func normalizeUA(userAgent []byte) []byte {
	out := make([]byte, len(userAgent))
	for i, b := range userAgent {
		if b >= 0x80 {
			out[i] = ' '
		} else {
			out[i] = b
		}
	}
	return out
}
