// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting of raw JSON string text for output.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote escapes src for inclusion in a JSON string. The result does not
// include the enclosing quotation marks.
//
// The input is raw text as it appeared between quotes in JSON source, so a
// backslash that begins a complete escape sequence is copied through with
// its sequence. Any other backslash, and any unescaped quotation mark or
// control character, is escaped.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	putByte := func(bs ...byte) { buf = append(buf, bs...) }

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r == '\\' {
			if m := escapeLen(src); m > 0 {
				buf = mem.Append(buf, src.SliceTo(m))
				src = src.SliceFrom(m)
				continue
			}
			putByte('\\', '\\')
		} else if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					putByte('\\', b)
				} else {
					putByte('\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '"' {
				putByte('\\', byte(r))
			} else {
				putByte(byte(r))
			}
		} else {
			switch r {
			case '\u2028': // line separator
				buf = append(buf, `\u2028`...)
			case '\u2029': // paragraph separator
				buf = append(buf, `\u2029`...)
			default:
				buf = mem.Append(buf, src.SliceTo(n))
			}
		}
		src = src.SliceFrom(n)
	}
	return buf
}

// escapeLen reports the length in bytes of the escape sequence at the front
// of src, or 0 if src does not begin with a complete escape sequence.
func escapeLen(src mem.RO) int {
	if src.Len() < 2 {
		return 0
	}
	switch src.At(1) {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2
	case 'u':
		if src.Len() < 6 {
			return 0
		}
		for i := 2; i < 6; i++ {
			if !isHexDigit(src.At(i)) {
				return 0
			}
		}
		return 6
	}
	return 0
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
