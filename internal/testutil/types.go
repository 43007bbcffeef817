// Package testutil defines support code for unit tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/creachadair/keytree"
)

// MustParse parses input with default settings, and panics on error.
func MustParse(input string) *keytree.Node {
	root, err := keytree.Parse(strings.NewReader(input))
	if err != nil {
		panic(fmt.Sprintf("parse %q: %v", input, err))
	}
	return root
}

// Outline renders the structure of n as one line per node, "key=value" for
// scalars and "key" for others, indented two spaces per level.
// The root itself is not included.
func Outline(n *keytree.Node) string {
	var sb strings.Builder
	n.Walk(func(depth int, c *keytree.Node) bool {
		if depth == 0 {
			return true
		}
		sb.WriteString(strings.Repeat("  ", depth-1))
		sb.WriteString(c.Key)
		if c.Scalar {
			sb.WriteString("=" + c.Value)
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
