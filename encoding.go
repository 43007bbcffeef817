// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

import (
	"github.com/creachadair/keytree/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
//
// Keys and values in a tree hold raw source text, in which escape sequences
// are already present, so Quote leaves a backslash that begins a valid JSON
// escape sequence in src unchanged rather than escaping it again.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }
