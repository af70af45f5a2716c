package tree

import (
	"github.com/pbanos/dendro/feature"
)

/*
Node is a node of a decision tree over records of type R.

Nodes are created and linked while a tree is grown and are read-only
afterwards.
*/
type Node[R any] struct {
	// The constraint on the parent's feature that leads to this node.
	// It is nil for the root of a tree.
	Key feature.Value
	// The count of labels on the training records that reached this node.
	Distribution *Distribution
	// The feature this node's children branch on, nil for leaves.
	Feature *feature.Feature[R]
	// The nodes directly under this one, in the order they were created.
	Children []*Node[R]

	parent *Node[R]
}

/*
NewNode takes the key of the branch leading to a node and the distribution
of labels on the records that reach it and returns a leaf node.
*/
func NewNode[R any](key feature.Value, d *Distribution) *Node[R] {
	if d == nil {
		d = NewDistribution()
	}
	return &Node[R]{Key: key, Distribution: d}
}

/*
Split takes a feature and the children obtained by branching the node on it,
sets them on the node and links every child back to the node.
*/
func (n *Node[R]) Split(f *feature.Feature[R], children []*Node[R]) {
	n.Feature = f
	n.Children = children
	for _, c := range children {
		c.parent = n
	}
}

// IsLeaf returns whether the node has no feature to branch on
func (n *Node[R]) IsLeaf() bool {
	return n.Feature == nil
}

// IsRoot returns whether the node has no parent
func (n *Node[R]) IsRoot() bool {
	return n.parent == nil
}

// Parent returns the node directly above this one, or nil for the root
func (n *Node[R]) Parent() *Node[R] {
	return n.parent
}

// Ancestors returns the chain of nodes above this one, closest first
func (n *Node[R]) Ancestors() []*Node[R] {
	var ancestors []*Node[R]
	for p := n.parent; p != nil; p = p.parent {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// Depth returns the number of ancestors of the node. The root is at depth 0.
func (n *Node[R]) Depth() int {
	var depth int
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

/*
Child takes a branch key and returns the child reached through an equal key,
or nil if there is none.
*/
func (n *Node[R]) Child(key feature.Value) *Node[R] {
	for _, c := range n.Children {
		if sameKey(c.Key, key) {
			return c
		}
	}
	return nil
}

// Descendants returns the node and all nodes under it in pre-order
func (n *Node[R]) Descendants() []*Node[R] {
	nodes := []*Node[R]{n}
	for _, c := range n.Children {
		nodes = append(nodes, c.Descendants()...)
	}
	return nodes
}

// FeatureName returns the name of the node's feature or "" for leaves
func (n *Node[R]) FeatureName() string {
	if n.Feature == nil {
		return ""
	}
	return n.Feature.Name()
}

/*
Height returns the length of the longest path from the node down to a leaf.
A leaf has height 0.
*/
func (n *Node[R]) Height() int {
	var h int
	for _, c := range n.Children {
		if ch := c.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}

func sameKey(a, b feature.Value) bool {
	switch ak := a.(type) {
	case feature.DiscreteValue:
		bk, ok := b.(feature.DiscreteValue)
		return ok && feature.Hashable(ak.Value) && feature.Hashable(bk.Value) && ak.Value == bk.Value
	case feature.ContinuousRange:
		bk, ok := b.(feature.ContinuousRange)
		return ok && sameBound(ak.From, bk.From) && sameBound(ak.To, bk.To)
	}
	return false
}

func sameBound(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	c, err := feature.Compare(a, b)
	return err == nil && c == 0
}
