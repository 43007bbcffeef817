// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a key tree.
package cursor

import (
	"fmt"

	"github.com/creachadair/keytree"
)

// Path traverses a sequential path into the tree under n, where path elements
// are as documented for the Cursor.Down method. This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path(n *keytree.Node, path ...any) (*keytree.Node, error) {
	c := New(n).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

// A Cursor is a pointer that navigates into the structure of a key tree.
type Cursor struct {
	org *keytree.Node
	stk []*keytree.Node
	err error
}

// New constructs a new Cursor to traverse the tree under origin.
func New(origin *keytree.Node) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() *keytree.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current node under the cursor.
func (c *Cursor) Value() *keytree.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []*keytree.Node {
	return append([]*keytree.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the tree, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the tree starting from the current
// node, where path elements are strings (denoting child keys), integers
// (denoting offsets among the children), or functions (see below). If the
// path cannot be completely consumed, traversal stops at the last node
// reached and an error is recorded. Use Err to recover the error.
//
// A string resolves the first child with that key. Array elements are keyed
// by their decimal index, so "0" selects the first element of an array.
//
// An integer resolves a child by position. Negative offsets count backward
// from the end (-1 is last, -2 second last).
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(*keytree.Node) (*keytree.Node, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			next := cur.Find(t)
			if next == nil {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(next)

		case int:
			i, ok := fixBound(cur.Len(), t)
			if !ok {
				return c.setErrorf("child index %d out of bounds (n=%d)", i, cur.Len())
			}
			cur = c.push(cur.Children[i])

		case func(*keytree.Node) (*keytree.Node, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(n *keytree.Node) *keytree.Node { c.stk = append(c.stk, n); return n }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
