// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

// A Node is a single entry of a key tree: an object member, an array
// element, or the synthetic root.
//
// A node has a scalar value or children, never both. A node with neither
// represents an empty object or array.
type Node struct {
	Key string

	// Value is the raw source text of a scalar: string contents without the
	// enclosing quotes (escapes are not decoded), or the literal text of a
	// number, true, false, or null. It is meaningful only if Scalar is true.
	Value  string
	Scalar bool

	// Children are in document order.
	Children []*Node
}

// Leaf constructs a scalar node with the given key and raw value.
func Leaf(key, value string) *Node { return &Node{Key: key, Value: value, Scalar: true} }

// Branch constructs a node with the given key and children.
func Branch(key string, children ...*Node) *Node { return &Node{Key: key, Children: children} }

// Add appends child to the children of n.
// It panics if n has a scalar value.
func (n *Node) Add(child *Node) {
	if n.Scalar {
		panic("keytree: add child to a scalar node")
	}
	n.Children = append(n.Children, child)
}

// Len reports the number of children of n.
func (n *Node) Len() int { return len(n.Children) }

// Find returns the first child of n with the given key, or nil.
func (n *Node) Find(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Depth reports the height of the tree rooted at n. A node without children
// has depth 0.
func (n *Node) Depth() int {
	var depth int
	for _, c := range n.Children {
		depth = max(depth, c.Depth()+1)
	}
	return depth
}

// Walk calls f for n and each of its descendants in depth-first order,
// passing the depth of each node relative to n. If f returns false for a
// node, the children of that node are skipped.
func (n *Node) Walk(f func(depth int, n *Node) bool) { n.walk(0, f) }

func (n *Node) walk(depth int, f func(int, *Node) bool) {
	if !f(depth, n) {
		return
	}
	for _, c := range n.Children {
		c.walk(depth+1, f)
	}
}
