// Package jwcc builds key trees from JSON With Commas and Comments (JWCC) as
// defined by https://nigeltao.github.io/blog/2021/json-with-commas-comments.html
//
// The input is reduced to standard JSON before it is built. Comments and
// trailing commas are replaced by whitespace, so the locations reported in
// errors are the same as in the original text.
package jwcc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/creachadair/keytree"
	"github.com/tailscale/hujson"
)

// NewBuilder reads all of r and returns a Builder for its standardized
// content. The caller may configure the Builder before calling Build.
// It reports an error matching keytree.ErrMalformed if the input is not
// valid JWCC.
func NewBuilder(r io.Reader) (*keytree.Builder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keytree.ErrMalformed, err)
	}
	return keytree.NewBuilder(bytes.NewReader(std)), nil
}

// Parse builds a key tree from the JWCC text of r with default settings.
func Parse(r io.Reader) (*keytree.Node, error) {
	b, err := NewBuilder(r)
	if err != nil {
		return nil, err
	}
	return b.Build()
}
