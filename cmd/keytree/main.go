// Program keytree reads a JSON document from a file and prints it as a tree
// of keys and values.
//
// Usage:
//
//	keytree [flags] <file>
//
// The exit status is 0 on success, 2 for a usage error, 3 if the file cannot
// be opened, 4 if the input exceeds a configured limit, 5 if the input is
// malformed, and 1 for any other failure.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/creachadair/keytree"
	"github.com/creachadair/keytree/cursor"
	"github.com/creachadair/keytree/jwcc"
	"github.com/creachadair/keytree/render"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitOpen      = 3
	exitResources = 4
	exitMalformed = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// isTerminal reports whether w is attached to a terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keytree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: keytree [flags] <file>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		useJWCC   = fs.Bool("jwcc", false, "accept comments and trailing commas (JWCC)")
		colorMode = fs.String("color", "auto", "colorize output: auto, always, never")
		quote     = fs.Bool("quote", false, "print keys and values as JSON strings")
		openRoot  = fs.Bool("open-root", false, "draw the root with an open branch connector")
		truncate  = fs.Bool("truncate", false, "truncate long keys and values instead of failing")
		maxKey    = fs.Int("max-key", keytree.DefaultMaxKeyLen, "maximum key length in characters")
		maxValue  = fs.Int("max-value", keytree.DefaultMaxValueLen, "maximum value length in characters")
		lookahead = fs.Int("lookahead", keytree.DefaultLookahead, "lookahead buffer capacity")
		maxDepth  = fs.Int("max-depth", keytree.DefaultMaxDepth, "maximum nesting depth")
		path      = fs.String("path", "", "print only the subtree at this slash-separated key path")
		verbose   = fs.Bool("v", false, "log a summary of the parse to stderr")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		return fatalError(stderr, exitUsage, "expected exactly one input file, got %d", fs.NArg())
	}

	f := render.Formatter{Quote: *quote, OpenRoot: *openRoot}
	switch *colorMode {
	case "always":
		f.Color = render.DefaultColors
	case "never":
	case "auto":
		if isTerminal(stdout) {
			f.Color = render.DefaultColors
		}
	default:
		return fatalError(stderr, exitUsage, "invalid -color value: %q (use auto, always, or never)", *colorMode)
	}
	if f.Color != nil {
		if out, ok := stdout.(*os.File); ok {
			stdout = colorable.NewColorable(out)
		}
	}

	log := slog.New(slog.DiscardHandler)
	if *verbose {
		log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	name := fs.Arg(0)
	in, err := os.Open(name)
	if err != nil {
		return fatalError(stderr, exitOpen, "cannot open input: %v", err)
	}
	defer in.Close()

	start := time.Now()
	var b *keytree.Builder
	if *useJWCC {
		b, err = jwcc.NewBuilder(in)
		if err != nil {
			return parseFailed(stderr, name, err)
		}
	} else {
		b = keytree.NewBuilder(in)
	}
	b.SetMaxKeyLen(*maxKey)
	b.SetMaxValueLen(*maxValue)
	b.SetLookahead(*lookahead)
	b.SetMaxDepth(*maxDepth)
	b.TruncateLongText(*truncate)

	root, err := b.Build()
	if err != nil {
		return parseFailed(stderr, name, err)
	}
	var nodes int
	root.Walk(func(int, *keytree.Node) bool { nodes++; return true })
	log.Debug("parsed input", "file", name, "nodes", nodes-1, "depth", root.Depth(),
		"jwcc", *useJWCC, "elapsed", time.Since(start))

	if sel := strings.Trim(*path, "/"); sel != "" {
		var keys []any
		for _, key := range strings.Split(sel, "/") {
			keys = append(keys, key)
		}
		sub, err := cursor.Path(root, keys...)
		if err != nil {
			return fatalError(stderr, exitFailure, "path %q: %v", *path, err)
		}
		root, f.RootLabel = sub, sub.Key
		log.Debug("selected subtree", "path", *path, "children", sub.Len())
	}

	if err := f.Format(stdout, root); err != nil {
		return fatalError(stderr, exitFailure, "write output: %v", err)
	}
	return exitOK
}

// parseFailed reports an error from building the tree for the named file,
// and returns the exit code for its kind.
func parseFailed(w io.Writer, name string, err error) int {
	switch {
	case errors.Is(err, keytree.ErrResourceExhausted):
		return fatalError(w, exitResources, "%s: input exceeds limits: %v", name, err)
	case errors.Is(err, keytree.ErrMalformed):
		return fatalError(w, exitMalformed, "%s: malformed input: %v", name, err)
	default:
		return fatalError(w, exitFailure, "%s: %v", name, err)
	}
}

func fatalError(w io.Writer, code int, msg string, args ...any) int {
	fmt.Fprintf(w, "keytree: "+msg+"\n", args...)
	return code
}
