// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package render draws a key tree as an indented diagram with box-drawing
// connectors, one line per node:
//
//	└── / : /
//	    ├── name : a
//	    └── meta : /
//	        └── n : 1
//
// Each line has the form "<prefix><branch><key> : <value>", where a node
// without a scalar value shows a placeholder in place of the value.
package render

import (
	"bufio"
	"bytes"
	"cmp"
	"io"

	"github.com/creachadair/keytree"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// A Formatter carries the settings for rendering a tree.
// A zero value is ready for use with default settings.
type Formatter struct {
	// RootLabel is printed as the key of the root node (default "/").
	RootLabel string

	// Placeholder is printed in place of the value of a node without a
	// scalar value (default "/").
	Placeholder string

	// If Quote is true, keys and scalar values are printed as JSON strings.
	Quote bool

	// If Color is not nil, keys and values are wrapped in its escape codes.
	Color *Colorizer

	// If OpenRoot is true, the root is drawn with the middle connector, as if
	// it had further siblings, and its children are prefixed by a rule:
	//
	//	├── / : /
	//	│   └── n : 1
	OpenRoot bool
}

func (f Formatter) rootLabel() string   { return cmp.Or(f.RootLabel, "/") }
func (f Formatter) placeholder() string { return cmp.Or(f.Placeholder, "/") }

// Format renders root to w with default settings.
func Format(w io.Writer, root *keytree.Node) error {
	var f Formatter
	return f.Format(w, root)
}

// FormatToString renders root to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(root *keytree.Node) string {
	var buf bytes.Buffer
	if Format(&buf, root) != nil {
		return ""
	}
	return buf.String()
}

// Format renders root to w using the settings from f.
func (f Formatter) Format(w io.Writer, root *keytree.Node) error {
	bw := bufio.NewWriter(w)
	f.formatNode(bw, root, f.rootLabel(), "", !f.OpenRoot)
	return bw.Flush()
}

// formatNode writes n labelled with key, then its children indented under
// prefix. The last child of each node gets the closing connector.
func (f Formatter) formatNode(w *bufio.Writer, n *keytree.Node, key, prefix string, last bool) {
	w.WriteString(prefix)
	if last {
		w.WriteString(branchLast)
		prefix += indentLast
	} else {
		w.WriteString(branchMid)
		prefix += indentMid
	}
	f.Color.key(w, key)
	w.WriteString(" : ")
	if n.Scalar {
		f.Color.value(w, f.text(n.Value))
	} else {
		w.WriteString(f.placeholder())
	}
	w.WriteByte('\n')

	for i, c := range n.Children {
		f.formatNode(w, c, f.text(c.Key), prefix, i == len(n.Children)-1)
	}
}

func (f Formatter) text(s string) string {
	if f.Quote {
		return keytree.Quote(s)
	}
	return s
}
