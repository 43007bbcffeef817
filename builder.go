// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/mds/stack"
)

// Default limits for a Builder.
const (
	DefaultMaxKeyLen   = 250
	DefaultMaxValueLen = 1024
	DefaultLookahead   = 250
	DefaultMaxDepth    = 10000
)

// ListKey is the key given to a top-level array, which has no key of its own.
const ListKey = "LIST"

// A Builder constructs a key tree from the JSON text of an input stream.
// A Builder is single-use: after the first call to Build or Fill, further
// calls report an error.
type Builder struct {
	r        io.Reader
	maxKey   int
	maxValue int
	maxLook  int
	maxDepth int
	truncate bool
	used     bool
}

// NewBuilder constructs a new Builder that consumes input from r.
func NewBuilder(r io.Reader) *Builder {
	return &Builder{
		r:        r,
		maxKey:   DefaultMaxKeyLen,
		maxValue: DefaultMaxValueLen,
		maxLook:  DefaultLookahead,
		maxDepth: DefaultMaxDepth,
	}
}

// Parse builds a key tree from r with default settings.
func Parse(r io.Reader) (*Node, error) { return NewBuilder(r).Build() }

// SetMaxKeyLen sets the maximum length of a key, in characters.
// A value n <= 0 restores the default.
func (b *Builder) SetMaxKeyLen(n int) { b.maxKey = orDefault(n, DefaultMaxKeyLen) }

// SetMaxValueLen sets the maximum length of a scalar value, in characters.
// A value n <= 0 restores the default.
func (b *Builder) SetMaxValueLen(n int) { b.maxValue = orDefault(n, DefaultMaxValueLen) }

// SetLookahead sets the capacity of the lookahead buffer.
// A value n <= 0 restores the default.
func (b *Builder) SetLookahead(n int) { b.maxLook = orDefault(n, DefaultLookahead) }

// SetMaxDepth sets the maximum nesting depth of objects and arrays.
// A value n <= 0 restores the default.
func (b *Builder) SetMaxDepth(n int) { b.maxDepth = orDefault(n, DefaultMaxDepth) }

// TruncateLongText configures how keys and values longer than their limits
// are handled. If ok is true, excess characters are discarded and parsing
// continues. Otherwise (the default) parsing fails with a *LimitError.
func (b *Builder) TruncateLongText(ok bool) { b.truncate = ok }

// Build constructs a new unnamed root node and fills it from the input.
func (b *Builder) Build() (*Node, error) {
	root := new(Node)
	if err := b.Fill(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Fill consumes the input and adds the members of the JSON document it
// contains as children of parent. If the document is an array, parent gets
// a single child with key ListKey holding the elements.
//
// In case of error, parent is not modified. Syntax errors have concrete type
// *SyntaxError; limits exceeded are reported as ErrBufferExhausted or as a
// *LimitError.
func (b *Builder) Fill(parent *Node) (err error) {
	if b.used {
		return errors.New("keytree: builder has already been used")
	} else if parent.Scalar {
		return fmt.Errorf("keytree: cannot fill scalar node %q", parent.Key)
	}
	b.used = true

	p := &parser{
		Builder: b,
		la:      NewLookahead(b.r, b.maxLook),
		delims:  stack.New[Unit](),
	}
	defer p.recoverParseError(&err)

	// Build into a scratch node so that a failed parse leaves no partial
	// structure attached to parent.
	tmp := &Node{Key: parent.Key}
	p.fill(&level{parent: tmp, st: objectState, root: true})
	for _, c := range tmp.Children {
		parent.Add(c)
	}
	return nil
}

// parser is the context of a single Fill.
type parser struct {
	*Builder

	la      *Lookahead
	delims  *stack.Stack[Unit] // open delimiters, innermost on top
	depth   int
	started bool // the top-level value has been opened
}

// level is the state of one recursive fill, corresponding to a single object
// or array in the input (or the document, for the root level).
type level struct {
	parent   *Node
	st       state
	key, val []rune
	index    int   // position of the current element, in a list
	pending  *Node // a nested object or array awaiting its separator
	root     bool
}

// attach adds n to the parent of lv and resets lv for the next member.
func (lv *level) attach(n *Node) {
	lv.parent.Add(n)
	lv.key = lv.key[:0]
	lv.val = lv.val[:0]
	lv.st = lv.st.initial()
	lv.pending = nil
}

// parseError carries an error out of the recursive fill.
type parseError struct{ error }

func (p *parser) recoverParseError(errp *error) {
	if perr := recover(); perr != nil {
		if e, ok := perr.(parseError); ok {
			*errp = e.error
			return
		}
		panic(perr)
	}
}

func (p *parser) fail(err error) { panic(parseError{err}) }

func (p *parser) syntaxError(msg string, args ...any) {
	p.fail(&SyntaxError{
		Location: p.la.Location(),
		Message:  fmt.Sprintf(msg, args...),
	})
}

// closed reports whether the top-level value has been opened and closed.
func (p *parser) closed() bool { return p.started && p.delims.IsEmpty() }

// fill consumes units and attaches the members it finds to lv.parent, until
// the end marker for the level (or, at the root, the end of the input).
func (p *parser) fill(lv *level) {
	for {
		u := p.next()
		switch u {
		case EndOfStream:
			p.endOfStream(lv)
			return
		case EndMarker:
			if lv.root {
				continue
			}
			if !lv.st.inList && lv.st.mode != idle {
				p.syntaxError("missing value for key %q", string(lv.key))
			}
			return
		}

		var sep bool
		if lv.st.inQuotes() {
			p.fillQuoted(lv, u)
		} else {
			sep = p.dispatch(lv, u)
		}

		// In a list, a value may be complete before its separator is seen.
		// Finalization waits for the separator, so that the synthetic comma
		// following a nested close does not finalize anything twice.
		if lv.st.mode == valuePair && (!lv.st.inList || sep) {
			lv.attach(Leaf(string(lv.key), string(lv.val)))
		}
	}
}

// fillQuoted handles u while lv is inside a quoted key or value.
// Escape sequences are kept verbatim, but an escaped quote does not end the
// token.
func (p *parser) fillQuoted(lv *level, u Unit) {
	switch u {
	case '"':
		lv.st.complete()
	case '\\':
		p.appendUnit(lv, u)
		next := p.next()
		if next < 0 {
			p.syntaxError("unterminated string")
		}
		p.appendUnit(lv, next)
	default:
		p.appendUnit(lv, u)
	}
}

// dispatch handles a unit outside of a quoted token. It reports whether u
// acted as an item separator.
func (p *parser) dispatch(lv *level, u Unit) bool {
	if lv.root && !isSpace(u) {
		if !p.started && u != '{' && u != '[' {
			p.syntaxError("expected object or array, got %v", u)
		} else if p.closed() && u != SyntheticComma {
			p.syntaxError("extra input %v after value", u)
		}
	}

	switch u {
	case '}', ']':
		p.closeDelim(u)
		p.separate(lv, false)
		return true

	case '"':
		if !lv.st.open(true) {
			p.syntaxError("unexpected %v", u)
		}

	case '{':
		p.openObject(lv)

	case '[':
		p.openArray(lv)

	case ':':
		if lv.st.inBare() {
			p.appendUnit(lv, u)
		} else if lv.st.mode != keyDone || lv.st.inList {
			p.syntaxError("unexpected %v", u)
		}

	case ',', SyntheticComma:
		p.separate(lv, true)
		return true

	default:
		p.plain(lv, u)
	}
	return false
}

// plain handles a non-structural unit outside of a quoted token.
func (p *parser) plain(lv *level, u Unit) {
	if isSpace(u) {
		if lv.st.inBare() {
			lv.st.complete()
		}
		return
	}
	switch {
	case lv.st.mode == keyDone && lv.pending == nil:
		lv.st.open(false)
		p.appendUnit(lv, u)
	case lv.st.inBare():
		p.appendUnit(lv, u)
	default:
		p.syntaxError("unexpected %v", u)
	}
}

// openObject handles "{".
func (p *parser) openObject(lv *level) {
	switch {
	case lv.st.mode == keyDone && lv.pending == nil:
		child := &Node{Key: string(lv.key)}
		p.descend('{', child, objectState)
		lv.pending = child
	case lv.root && !p.started:
		// The top-level object: its members belong to the root.
		p.started = true
		p.delims.Push('{')
	default:
		p.syntaxError("unexpected %v", Unit('{'))
	}
}

// openArray handles "[".
func (p *parser) openArray(lv *level) {
	var key string
	switch {
	case lv.st.mode == keyDone && lv.pending == nil:
		key = string(lv.key)
	case lv.root && !p.started:
		key = ListKey
		p.started = true
	default:
		p.syntaxError("unexpected %v", Unit('['))
	}
	child := &Node{Key: key}
	p.seedIndex(0)
	p.descend('[', child, listState)
	lv.pending = child
}

// descend fills child from a nested object or array opened by open.
func (p *parser) descend(open Unit, child *Node, st state) {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(&LimitError{Kind: "depth", Limit: p.maxDepth, Location: p.la.Location()})
	}
	p.delims.Push(open)
	p.fill(&level{parent: child, st: st})
	p.depth--
}

// separate handles an item separator: a comma, a synthetic comma, or (with
// seed == false) the close of the enclosing structure.
func (p *parser) separate(lv *level, seed bool) {
	if lv.st.inBare() {
		lv.st.complete()
	}
	if lv.pending != nil {
		lv.attach(lv.pending)
	}
	if seed && lv.st.inList {
		lv.index++
		p.seedIndex(lv.index)
	}
}

// closeDelim handles "}" or "]". After checking that it matches the innermost
// open delimiter, it rewrites the lookahead so that the enclosing level sees
// a comma whether or not the input has one, followed by the end marker that
// terminates the current level.
func (p *parser) closeDelim(u Unit) {
	open, ok := p.delims.Pop()
	if !ok {
		p.syntaxError("unexpected %v", u)
	} else if want := closerOf(open); u != want {
		p.syntaxError("unexpected %v, expected %v", u, want)
	}
	p.injectSeparator()
}

// injectSeparator peeks past any whitespace at the next unit and pushes it
// back, preceded by a synthetic comma if it is not a comma, and then pushes
// an end marker.
func (p *parser) injectSeparator() {
	next := p.next()
	for isSpace(next) {
		next = p.next()
	}
	p.push(next)
	if next != ',' {
		p.push(SyntheticComma)
	}
	p.push(EndMarker)
}

// seedIndex pushes the synthetic key for list element i: the decimal index
// followed by the closing quote that completes it.
func (p *parser) seedIndex(i int) {
	p.push('"')
	if err := p.la.PushString(strconv.Itoa(i)); err != nil {
		p.fail(fmt.Errorf("at %s: %w", p.la.Location(), err))
	}
}

// appendUnit adds u to the key or value being filled by lv, subject to the
// configured limits. Index keys in a list are generated, not read from the
// input, so the key limit does not apply to them.
func (p *parser) appendUnit(lv *level, u Unit) {
	if lv.st.mode == fillingKey {
		if lv.st.inList {
			lv.key = append(lv.key, rune(u))
		} else {
			lv.key = p.appendLimited(lv.key, u, p.maxKey, "key")
		}
	} else {
		lv.val = p.appendLimited(lv.val, u, p.maxValue, "value")
	}
}

func (p *parser) appendLimited(buf []rune, u Unit, limit int, kind string) []rune {
	if len(buf) >= limit {
		if p.truncate {
			return buf
		}
		p.fail(&LimitError{Kind: kind, Limit: limit, Location: p.la.Location()})
	}
	return append(buf, rune(u))
}

// endOfStream checks that the input ended at a valid point.
func (p *parser) endOfStream(lv *level) {
	switch {
	case lv.st.inQuotes():
		p.syntaxError("unterminated string")
	case !p.started:
		p.syntaxError("no value in input")
	case !p.delims.IsEmpty():
		p.syntaxError("unexpected end of input")
	case lv.st.mode != idle:
		p.syntaxError("missing value for key %q", string(lv.key))
	}
}

func (p *parser) next() Unit {
	u, err := p.la.Next()
	var serr *SyntaxError
	if errors.As(err, &serr) {
		p.fail(serr)
	} else if err != nil {
		p.fail(fmt.Errorf("read input: %w", err))
	}
	return u
}

func (p *parser) push(u Unit) {
	if err := p.la.Push(u); err != nil {
		p.fail(fmt.Errorf("at %s: %w", p.la.Location(), err))
	}
}

func closerOf(open Unit) Unit {
	if open == '[' {
		return ']'
	}
	return '}'
}

func isSpace(u Unit) bool {
	return u == ' ' || u == '\r' || u == '\n' || u == '\t'
}

func orDefault(n, dflt int) int {
	if n <= 0 {
		return dflt
	}
	return n
}
