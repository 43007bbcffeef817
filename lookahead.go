// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/creachadair/mds/stack"
)

// A Unit is a single pending input unit: a rune read from the input, or one
// of the sentinel values below. Sentinels are negative and therefore never
// collide with a valid rune.
type Unit rune

// Sentinel units.
const (
	// EndOfStream is returned by Next when the buffer is empty and the
	// underlying reader is exhausted.
	EndOfStream Unit = -1 - iota

	// EndMarker is pushed after a closing delimiter to end the fill of the
	// structure it closes.
	EndMarker

	// SyntheticComma is pushed after a closing delimiter that is not followed
	// by a comma, so that the enclosing level sees a separator either way.
	SyntheticComma
)

func (u Unit) String() string {
	switch u {
	case EndOfStream:
		return "end of input"
	case EndMarker:
		return "end marker"
	case SyntheticComma:
		return "synthetic comma"
	}
	return fmt.Sprintf("%q", rune(u))
}

// A Lookahead is a bounded last-in first-out stack of pending units in front
// of an input stream. Units pushed onto the stack are returned by Next, most
// recent first, before any further input is read.
type Lookahead struct {
	r   *bufio.Reader
	cap int
	stk *stack.Stack[Unit]

	// Location of the last rune read from r (0-based line).
	line, col int
	nl        bool // last rune read was a newline
}

// NewLookahead constructs a lookahead buffer that holds at most capacity
// pending units in front of r. It panics if capacity < 1.
func NewLookahead(r io.Reader, capacity int) *Lookahead {
	if capacity < 1 {
		panic(fmt.Sprintf("invalid lookahead capacity %d", capacity))
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lookahead{r: br, cap: capacity, stk: stack.New[Unit]()}
}

// Len reports the number of pending units.
func (a *Lookahead) Len() int { return a.stk.Len() }

// Cap reports the capacity of a.
func (a *Lookahead) Cap() int { return a.cap }

// Push stores u to be returned by the next call to Next.
// It reports ErrBufferExhausted if a is full.
func (a *Lookahead) Push(u Unit) error {
	if a.stk.Len() >= a.cap {
		return ErrBufferExhausted
	}
	a.stk.Push(u)
	return nil
}

// PushString pushes the runes of s so that subsequent calls to Next return
// them in their original order. If s does not fit, PushString reports
// ErrBufferExhausted and a is not modified.
func (a *Lookahead) PushString(s string) error {
	rs := []rune(s)
	if a.stk.Len()+len(rs) > a.cap {
		return ErrBufferExhausted
	}
	for i := len(rs) - 1; i >= 0; i-- {
		a.stk.Push(Unit(rs[i]))
	}
	return nil
}

// Next returns the most recently pushed unit if there is one, and otherwise
// reads the next rune from the input. At the end of input, Next returns
// EndOfStream and a nil error. Input that is not valid UTF-8 is reported as a
// *SyntaxError. Any other read error is returned.
func (a *Lookahead) Next() (Unit, error) {
	if u, ok := a.stk.Pop(); ok {
		return u, nil
	}
	ch, nb, err := a.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return EndOfStream, nil
	} else if err != nil {
		return EndOfStream, err
	}
	if a.nl {
		a.line++
		a.col = 0
	}
	a.col += nb
	a.nl = ch == '\n'
	if ch == utf8.RuneError && nb == 1 {
		return EndOfStream, &SyntaxError{Location: a.Location(), Message: "invalid UTF-8 encoding"}
	}
	return Unit(ch), nil
}

// Peek returns the next unit without consuming it.
func (a *Lookahead) Peek() (Unit, error) {
	u, err := a.Next()
	if err != nil {
		return u, err
	}
	return u, a.Push(u)
}

// Location reports the location of the last rune read from the input.
// Units pushed back onto the buffer do not affect the location.
func (a *Lookahead) Location() LineCol {
	return LineCol{Line: a.line + 1, Column: a.col}
}
