// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree

// A mode records what a fill level is currently accumulating.
type mode byte

const (
	idle         mode = iota // nothing pending for the current member
	fillingKey               // accumulating a key
	keyDone                  // key complete, no value started
	fillingValue             // key complete, accumulating a value
	valuePair                // key and value complete, ready to finalize
)

var modeStr = [...]string{
	idle:         "idle",
	fillingKey:   "filling key",
	keyDone:      "key done",
	fillingValue: "filling value",
	valuePair:    "value pair",
}

func (m mode) String() string { return modeStr[m] }

// state is the parser state of one fill level.
//
// The inList flag is fixed for the lifetime of a level. The quoted flag is
// meaningful only while filling: it is set when the token was opened by a
// quotation mark, and clear for bare tokens (numbers, true, false, null).
type state struct {
	mode   mode
	inList bool
	quoted bool
}

// objectState is the initial state of a level filling an object.
var objectState = state{mode: idle}

// listState is the initial state of a level filling an array. Array elements
// have no key in the source, so each element begins with a synthetic index
// key being filled as if its opening quote had already been read.
var listState = state{mode: fillingKey, inList: true, quoted: true}

// initial returns the state s resets to after a member is finalized.
func (s state) initial() state {
	if s.inList {
		return listState
	}
	return objectState
}

// filling reports whether s is accumulating a key or value.
func (s state) filling() bool { return s.mode == fillingKey || s.mode == fillingValue }

// inQuotes reports whether s is accumulating a quoted token.
func (s state) inQuotes() bool { return s.filling() && s.quoted }

// inBare reports whether s is accumulating a bare value.
func (s state) inBare() bool { return s.mode == fillingValue && !s.quoted }

// open begins a new token. It returns false if s is not ready for one.
func (s *state) open(quoted bool) bool {
	switch s.mode {
	case idle:
		if !quoted {
			return false // keys are always quoted
		}
		s.mode = fillingKey
	case keyDone:
		s.mode = fillingValue
	default:
		return false
	}
	s.quoted = quoted
	return true
}

// complete ends the token being filled, if any.
func (s *state) complete() {
	switch s.mode {
	case fillingKey:
		s.mode = keyDone
	case fillingValue:
		s.mode = valuePair
	}
	s.quoted = false
}
