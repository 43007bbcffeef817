// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package render

import "io"

// A Colorizer holds the terminal escape codes used to highlight keys and
// values. A nil *Colorizer writes text unadorned.
type Colorizer struct {
	KeyCode   string
	ValueCode string
	ResetCode string
}

// DefaultColors highlights keys in bright blue and values in green.
var DefaultColors = &Colorizer{
	KeyCode:   "\033[34;1m",
	ValueCode: "\033[32m",
	ResetCode: "\033[0m",
}

func (c *Colorizer) key(w io.StringWriter, s string) {
	if c == nil {
		w.WriteString(s)
		return
	}
	c.paint(w, c.KeyCode, s)
}

func (c *Colorizer) value(w io.StringWriter, s string) {
	if c == nil {
		w.WriteString(s)
		return
	}
	c.paint(w, c.ValueCode, s)
}

func (c *Colorizer) paint(w io.StringWriter, code, s string) {
	w.WriteString(code)
	w.WriteString(s)
	w.WriteString(c.ResetCode)
}
