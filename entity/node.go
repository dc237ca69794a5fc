package entity

import (
	"sort"
	"sync"

	"github.com/corvidlabs/uasig/section"
)

// Node is a typed view over a NodeRecord: a position in the
// per-character trie used by the signature matcher.
type Node struct {
	ds     *Dataset
	Offset int64
	rec    section.NodeRecord

	once       sync.Once
	parent     *Node
	resolveErr error
}

func newNode(ds *Dataset, offset int64, rec section.NodeRecord) *Node {
	return &Node{ds: ds, Offset: offset, rec: rec}
}

func (n *Node) resolve() {
	n.once.Do(func() {
		if n.rec.ParentOffset == section.RootNodeOffset {
			return
		}
		n.parent, n.resolveErr = n.ds.Nodes.GetByOffset(int64(n.rec.ParentOffset))
	})
}

// Position returns the UA byte position this node applies at.
func (n *Node) Position() uint16 { return n.rec.Position }

// Characters returns the literal byte run this node represents (empty
// for branch-only nodes).
func (n *Node) Characters() []byte { return n.rec.Characters }

// IsRoot reports whether this node has no parent.
func (n *Node) IsRoot() bool { return n.rec.ParentOffset == section.RootNodeOffset }

// Parent resolves the node this one descends from, or nil at the root.
func (n *Node) Parent() (*Node, error) {
	n.resolve()
	return n.parent, n.resolveErr
}

// RankedSignatureCount returns the number of signatures that reference
// this node, ordered by rank.
func (n *Node) RankedSignatureCount() uint32 { return n.rec.RankedSignatureCount }

// ChildAt binary-searches this node's ordered children for the given
// leading byte, returning the matching child Node or (nil, nil) if none
// matches.
func (n *Node) ChildAt(b byte) (*Node, error) {
	children := n.rec.Children
	i := sort.Search(len(children), func(i int) bool { return children[i].FirstByte >= b })
	if i == len(children) || children[i].FirstByte != b {
		return nil, nil
	}

	return n.ds.Nodes.GetByOffset(int64(children[i].Offset))
}

// NumericChildNear returns the numeric child whose [Low, High] range
// contains value, if any (v3.2 only; v3.1 datasets never populate
// NumericChildren).
func (n *Node) NumericChildNear(value uint16) (*Node, bool, error) {
	for _, c := range n.rec.NumericChildren {
		if value >= c.Low && value <= c.High {
			node, err := n.ds.Nodes.GetByOffset(int64(c.Offset))
			return node, true, err
		}
	}

	return nil, false, nil
}

// HasNumericChildren reports whether this node carries any numeric-range
// children.
func (n *Node) HasNumericChildren() bool { return len(n.rec.NumericChildren) > 0 }

// NearestNumericChild returns the numeric child whose [Low, High] range is
// closest to value, along with the distance (0 when value falls inside
// the range). Used by the Numeric matching strategy when no range
// contains the UA's numeric substring exactly.
func (n *Node) NearestNumericChild(value uint16) (*Node, int, error) {
	bestDelta := -1
	var bestOffset uint32
	for _, c := range n.rec.NumericChildren {
		delta := 0
		switch {
		case value < c.Low:
			delta = int(c.Low) - int(value)
		case value > c.High:
			delta = int(value) - int(c.High)
		}
		if bestDelta == -1 || delta < bestDelta {
			bestDelta = delta
			bestOffset = c.Offset
		}
	}

	if bestDelta == -1 {
		return nil, 0, nil
	}

	node, err := n.ds.Nodes.GetByOffset(int64(bestOffset))
	return node, bestDelta, err
}

// RankedSignatures resolves the signatures that reference this node, in
// ascending rank order (most popular first), via the dataset-wide
// RankedSignatureIndex array.
func (n *Node) RankedSignatures() ([]*Signature, error) {
	out := make([]*Signature, 0, n.rec.RankedSignatureCount)
	for i := 0; i < int(n.rec.RankedSignatureCount); i++ {
		entry, err := n.ds.RankedSignatureIndexes.GetByIndex(int(n.rec.FirstRankedSignatureIndex) + i)
		if err != nil {
			return nil, err
		}
		sig, err := n.ds.Signatures.GetByIndex(int(entry.SignatureIndex))
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}

	return out, nil
}
