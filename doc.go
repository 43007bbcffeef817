// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package keytree builds an ordered tree of key/value nodes from JSON text.
//
// # Building
//
// The Builder type reads a JSON document one character at a time and attaches
// a Node to its parent as soon as the node is complete. There is no separate
// tokenizer: each nesting level of the input is filled by one recursive call,
// and a small bounded lookahead buffer lets the builder rewrite what follows a
// closing brace or bracket so that every member ends with a comma.
//
//	b := keytree.NewBuilder(input)
//	root, err := b.Build()
//	if err != nil {
//	   log.Fatalf("Build failed: %v", err)
//	}
//
// Parse is shorthand for building with default settings.
//
// The members of a top-level object become children of the root. A top-level
// array becomes a single child of the root with key "LIST". Array elements
// are keyed by their decimal index, starting at "0".
//
// # Values
//
// Scalar values are stored as raw text. String values lose their enclosing
// quotes but escape sequences are not decoded. Numbers, true, false, and null
// keep their literal spelling. The input must be valid UTF-8; an invalid
// encoding is reported as a syntax error rather than replaced.
//
// # Errors
//
// Input that is not a well-formed object or array is reported as a
// *SyntaxError, which matches ErrMalformed. Exceeding a configured limit is
// reported as an error matching ErrResourceExhausted: ErrBufferExhausted for
// the lookahead buffer, or a *LimitError for a key, value, or nesting depth.
//
//	if errors.Is(err, keytree.ErrResourceExhausted) {
//	   log.Print("Input exceeds configured limits")
//	}
//
// By default an overlong key or value fails the build. Call TruncateLongText
// on the Builder to discard the excess instead.
package keytree
