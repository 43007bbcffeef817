// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceExhausted is wrapped by every error reporting that a bounded
	// buffer or limit would overflow.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrBufferExhausted is reported when a push would exceed the capacity of
	// a Lookahead buffer.
	ErrBufferExhausted = fmt.Errorf("lookahead buffer is full: %w", ErrResourceExhausted)

	// ErrMalformed is wrapped by every *SyntaxError.
	ErrMalformed = errors.New("malformed input")
)

// LimitError reports that a key, value, or nesting depth exceeded its
// configured limit. It wraps ErrResourceExhausted.
type LimitError struct {
	Kind     string // "key", "value", or "depth"
	Limit    int
	Location LineCol
}

// Error satisfies the error interface.
func (e *LimitError) Error() string {
	if e.Kind == "depth" {
		return fmt.Sprintf("at %s: nesting depth exceeds %d", e.Location, e.Limit)
	}
	return fmt.Sprintf("at %s: %s longer than %d characters", e.Location, e.Kind, e.Limit)
}

// Unwrap supports error wrapping.
func (e *LimitError) Unwrap() error { return ErrResourceExhausted }

// SyntaxError is the concrete type of errors reported for input that does
// not have the expected structure.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping. The result always matches ErrMalformed,
// and also any underlying cause.
func (s *SyntaxError) Unwrap() []error {
	if s.err != nil {
		return []error{ErrMalformed, s.err}
	}
	return []error{ErrMalformed}
}
