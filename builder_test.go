// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package keytree_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/keytree"
	"github.com/creachadair/keytree/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{}`, ``},
		{`[]`, `LIST`},
		{`{"a":"1"}`, `a=1`},
		{`["x","y"]`, `
LIST
  0=x
  1=y
`},
		{`{"name":"a","tags":["x","y"],"meta":{"n":1}}`, `
name=a
tags
  0=x
  1=y
meta
  n=1
`},

		// Literals keep their spelling.
		{`{"t": true, "f": false, "z": null, "n": -6.32e+2}`, `
t=true
f=false
z=null
n=-6.32e+2
`},

		// Empty strings, empty keys, and empty nested structures.
		{`{"": "", "o": {}, "a": []}`, `
=
o
a
`},

		// Whitespace around tokens and separators.
		{" \n{ \"a\" :\t1 ,\r\n \"b\" : [ 1 , 2 ] , \"c\" : { } }\n", `
a=1
b
  0=1
  1=2
c
`},

		// Structure nested in arrays.
		{`[[1, 2], {"k": [true]}, [], "s"]`, `
LIST
  0
    0=1
    1=2
  1
    k
      0=true
  2
  3=s
`},

		// Closing delimiters followed by whitespace and commas.
		{`{"a": {"b": 1} , "c": [2] , "d": 3}`, `
a
  b=1
c
  0=2
d=3
`},
		{`[{"a": 1} , {"b": 2} ]`, `
LIST
  0
    a=1
  1
    b=2
`},

		// Escape sequences are kept verbatim, and structural characters
		// inside strings are text.
		{`{"q\"k": "a\"b", "s": "x\\", "p": "{[,:]}"}`, `
q\"k=a\"b
s=x\\
p={[,:]}
`},
		{`{"u": "é\n"}`, `u=é\n`},

		// Non-ASCII text.
		{`{"ключ": "値"}`, `ключ=値`},
		{"{\"r\": \"\ufffd\"}", "r=\ufffd"},

		// Trailing commas are ignored.
		{`{"a": 1, "b": [1, 2,],}`, `
a=1
b
  0=1
  1=2
`},

		// Indices continue past one digit.
		{`[0,1,2,3,4,5,6,7,8,9,10,11]`, `
LIST
  0=0
  1=1
  2=2
  3=3
  4=4
  5=5
  6=6
  7=7
  8=8
  9=9
  10=10
  11=11
`},
	}
	for _, test := range tests {
		root, err := keytree.Parse(strings.NewReader(test.input))
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := diffStrings(test.want, testutil.Outline(root)); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestEndToEnd(t *testing.T) {
	root := testutil.MustParse(`{"name":"a","tags":["x","y"],"meta":{"n":1}}`)
	want := keytree.Branch("",
		keytree.Leaf("name", "a"),
		keytree.Branch("tags", keytree.Leaf("0", "x"), keytree.Leaf("1", "y")),
		keytree.Branch("meta", keytree.Leaf("n", "1")),
	)
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}
}

func TestStructure(t *testing.T) {
	const input = `{
  "a": [1, [2, [3, {"b": {"c": [4]}}]]],
  "d": {"e": {"f": {"g": null}}},
  "h": "i"
}`
	root := testutil.MustParse(input)
	if got, want := root.Depth(), 7; got != want {
		t.Errorf("Depth: got %d, want %d", got, want)
	}
	root.Walk(func(_ int, n *keytree.Node) bool {
		if n.Scalar && n.Len() != 0 {
			t.Errorf("Node %q has value %q and %d children", n.Key, n.Value, n.Len())
		}
		return true
	})
}

func TestTrailingCommas(t *testing.T) {
	tests := []struct {
		plain, trailing string
	}{
		{`[1,2]`, `[1,2,]`},
		{`{"a":1,"b":2}`, `{"a":1,"b":2,}`},
		{`{"a":[{"b":1}],"c":{}}`, `{"a":[{"b":1,},],"c":{},}`},
		{`[[],{}]`, `[[],{},]`},
	}
	for _, tc := range tests {
		want := testutil.Outline(testutil.MustParse(tc.plain))
		got := testutil.Outline(testutil.MustParse(tc.trailing))
		if diff := diffStrings(want, got); diff != "" {
			t.Errorf("Parse %#q vs. %#q: (-want, +got)\n%s", tc.plain, tc.trailing, diff)
		}
	}
}

func TestLimits(t *testing.T) {
	const input = `{"abcdef": "uvwxyz", "ab": ["abcdefg"]}`

	t.Run("Truncate", func(t *testing.T) {
		b := keytree.NewBuilder(strings.NewReader(input))
		b.SetMaxKeyLen(3)
		b.SetMaxValueLen(4)
		b.TruncateLongText(true)
		root, err := b.Build()
		if err != nil {
			t.Fatalf("Build: unexpected error: %v", err)
		}
		want := "abc=uvwx\nab\n  0=abcd\n"
		if diff := diffStrings(want, testutil.Outline(root)); diff != "" {
			t.Errorf("Build (-want, +got):\n%s", diff)
		}
	})

	// Index keys are generated, and the key limit does not apply to them.
	for _, truncate := range []bool{false, true} {
		b := keytree.NewBuilder(strings.NewReader(`{"a": [1,2,3,4,5,6,7,8,9,10,11,12]}`))
		b.SetMaxKeyLen(1)
		b.TruncateLongText(truncate)
		root, err := b.Build()
		if err != nil {
			t.Errorf("Build (truncate=%v): unexpected error: %v", truncate, err)
			continue
		}
		var keys []string
		for _, c := range root.Find("a").Children {
			keys = append(keys, c.Key)
		}
		want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
		if diff := cmp.Diff(want, keys); diff != "" {
			t.Errorf("Index keys (truncate=%v) (-want, +got):\n%s", truncate, diff)
		}
	}

	tests := []struct {
		name      string
		key, val  int
		wantKind  string
		wantLimit int
	}{
		{"Key", 3, 0, "key", 3},
		{"Value", 0, 4, "value", 4},
		{"KeyFirst", 3, 4, "key", 3},
		{"ArrayValue", 6, 6, "value", 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := keytree.NewBuilder(strings.NewReader(input))
			b.SetMaxKeyLen(tc.key)
			b.SetMaxValueLen(tc.val)
			root, err := b.Build()
			var lerr *keytree.LimitError
			if !errors.As(err, &lerr) {
				t.Fatalf("Build: got (%+v, %v), want *LimitError", root, err)
			}
			if !errors.Is(err, keytree.ErrResourceExhausted) {
				t.Errorf("Build: error %v does not match ErrResourceExhausted", err)
			}
			if lerr.Kind != tc.wantKind || lerr.Limit != tc.wantLimit {
				t.Errorf("Build: got %s limit %d, want %s limit %d", lerr.Kind, lerr.Limit, tc.wantKind, tc.wantLimit)
			}
			t.Logf("Got expected error: %v", err)
		})
	}
}

func TestDepthLimit(t *testing.T) {
	tests := []struct {
		input string
		max   int
		ok    bool
	}{
		{`{"a": {"b": 1}}`, 1, true},
		{`{"a": {"b": {}}}`, 1, false},
		{`{"a": {"b": {}}}`, 2, true},
		{`[1]`, 1, true},
		{`[[1]]`, 1, false},
		{strings.Repeat("[", 50) + strings.Repeat("]", 50), 50, true},
		{strings.Repeat("[", 51) + strings.Repeat("]", 51), 50, false},
	}
	for _, tc := range tests {
		b := keytree.NewBuilder(strings.NewReader(tc.input))
		b.SetMaxDepth(tc.max)
		_, err := b.Build()
		if tc.ok && err != nil {
			t.Errorf("Build %#q (max %d): unexpected error: %v", tc.input, tc.max, err)
		} else if !tc.ok {
			var lerr *keytree.LimitError
			if !errors.As(err, &lerr) || lerr.Kind != "depth" {
				t.Errorf("Build %#q (max %d): got %v, want depth error", tc.input, tc.max, err)
			}
		}
	}
}

func TestLookaheadLimit(t *testing.T) {
	tests := []struct {
		input string
		size  int
		ok    bool
	}{
		{`{"a": 1}`, 1, false},
		{`{"a": 1}`, 3, true},
		{`[1]`, 3, true},
		{`[0,1,2,3,4,5,6,7,8,9]`, 3, true},
		{`{"a": [0,1,2,3,4,5,6,7,8,9,10]}`, 2, false},
		{`{"a": [0,1,2,3,4,5,6,7,8,9,10]}`, 3, true},
	}
	for _, tc := range tests {
		b := keytree.NewBuilder(strings.NewReader(tc.input))
		b.SetLookahead(tc.size)
		_, err := b.Build()
		if tc.ok && err != nil {
			t.Errorf("Build %#q (lookahead %d): unexpected error: %v", tc.input, tc.size, err)
		} else if !tc.ok && !errors.Is(err, keytree.ErrBufferExhausted) {
			t.Errorf("Build %#q (lookahead %d): got %v, want %v", tc.input, tc.size, err, keytree.ErrBufferExhausted)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string // substring of the error message
	}{
		{``, "no value in input"},
		{"  \n ", "no value in input"},
		{`"a"`, "expected object or array"},
		{`17`, "expected object or array"},
		{`{`, "unexpected end of input"},
		{`[1, 2`, "unexpected end of input"},
		{`{"a": {"b": 1}`, "unexpected end of input"},
		{`{"a": "b`, "unterminated string"},
		{`{"a\`, "unterminated string"},
		{`{"a"}`, "missing value for key"},
		{`{"x": {"a"}}`, "missing value for key"},
		{`{"a": 1]`, "unexpected ']'"},
		{`[1}`, "unexpected '}'"},
		{`}`, "expected object or array"},
		{`{} x`, "extra input 'x'"},
		{`{}{}`, "extra input '{'"},
		{`[1][2]`, "extra input '['"},
		{`{a: 1}`, "unexpected 'a'"},
		{`{"a": 1 2}`, "unexpected '2'"},
		{`["b" "c"]`, "unexpected '\"'"},
		{`{: 1}`, "unexpected ':'"},
		{`["a": 2]`, "unexpected ':'"},
		{"{\"a\": \"\xff\"}", "invalid UTF-8 encoding"},
		{"[1, \xc3]", "invalid UTF-8 encoding"},
	}
	for _, tc := range tests {
		root, err := keytree.Parse(strings.NewReader(tc.input))
		if err == nil {
			t.Errorf("Parse %#q: got %+v, want error", tc.input, root)
			continue
		}
		var serr *keytree.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got error %[2]v (%[2]T), want *SyntaxError", tc.input, err)
		} else if !errors.Is(err, keytree.ErrMalformed) {
			t.Errorf("Parse %#q: error %v does not match ErrMalformed", tc.input, err)
		} else if !strings.Contains(serr.Message, tc.want) {
			t.Errorf("Parse %#q: got message %q, want %q", tc.input, serr.Message, tc.want)
		}
	}
}

func TestErrorLocation(t *testing.T) {
	_, err := keytree.Parse(strings.NewReader("{\n  \"a\": 1,\n  \"b\": 2 3\n}"))
	var serr *keytree.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got %v, want *SyntaxError", err)
	}
	if want := (keytree.LineCol{Line: 3, Column: 10}); serr.Location != want {
		t.Errorf("Location: got %v, want %v", serr.Location, want)
	}
	if got, want := err.Error(), "at 3:10: unexpected '3'"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
}

func TestFill(t *testing.T) {
	parent := keytree.Branch("top", keytree.Leaf("old", "1"))

	if err := keytree.NewBuilder(strings.NewReader(`{"a": 1, "b": [}`)).Fill(parent); err == nil {
		t.Fatal("Fill: got nil error, want error")
	}
	if parent.Len() != 1 {
		t.Errorf("After failed Fill: got %d children, want 1", parent.Len())
	}

	scalar := keytree.Leaf("s", "v")
	if err := keytree.NewBuilder(strings.NewReader(`{"a": 1}`)).Fill(scalar); err == nil {
		t.Error("Fill scalar: got nil error, want error")
	} else if scalar.Len() != 0 {
		t.Errorf("Fill scalar: got %d children, want 0", scalar.Len())
	}

	b := keytree.NewBuilder(strings.NewReader(`{"a": 1}`))
	if err := b.Fill(parent); err != nil {
		t.Fatalf("Fill: unexpected error: %v", err)
	}
	want := keytree.Branch("top", keytree.Leaf("old", "1"), keytree.Leaf("a", "1"))
	if diff := cmp.Diff(want, parent); diff != "" {
		t.Errorf("Fill (-want, +got):\n%s", diff)
	}

	if err := b.Fill(parent); err == nil {
		t.Error("Second Fill: got nil error, want error")
	}
	if _, err := b.Build(); err == nil {
		t.Error("Build after Fill: got nil error, want error")
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func TestReadError(t *testing.T) {
	bad := errors.New("bad read")
	_, err := keytree.Parse(errReader{bad})
	if !errors.Is(err, bad) {
		t.Errorf("Parse: got %v, want %v", err, bad)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}
