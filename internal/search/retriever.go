package search

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
)

// Retriever enumerates paths below a root directory.
type Retriever struct {
	// FS is the listing backend. Nil means the local disk.
	FS FileSystem
	// Counters, when set, is reset at the start of every walk and updated
	// while it runs.
	Counters *Counters
	// traverser overrides strategy selection in tests.
	traverser Traverser
}

// NewRetriever creates a retriever over the given backend.
func NewRetriever(fsys FileSystem) *Retriever {
	return &Retriever{FS: fsys}
}

func (r *Retriever) fileSystem() FileSystem {
	if r.FS == nil {
		return LocalFS{}
	}
	return r.FS
}

// Paths validates opts and returns a lazy sequence of transformed paths.
//
// The root directory and the search pattern are checked before Paths
// returns. Every iteration of the returned sequence walks the filesystem
// again. Iteration ends without an error once ctx is cancelled; a
// *TraversalError ends it under the fast strategy.
func (r *Retriever) Paths(ctx context.Context, opts Options) (iter.Seq2[string, error], error) {
	if r == nil {
		r = &Retriever{}
	}
	fsys := r.fileSystem()

	info, err := fsys.Stat(opts.RootDirectory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: the specified root directory %q does not exist", ErrDirectoryNotFound, opts.RootDirectory)
	}

	pattern := opts.pattern()
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}

	types := opts.TypesToGet
	if types == 0 {
		types = All
	}

	traverser := r.traverser
	if traverser == nil {
		traverser = NewTraverser(opts.Strategy)
	}

	counters := r.Counters

	return func(yield func(string, error) bool) {
		counters.reset()
		defer counters.finish()

		for entry, err := range traverser.Walk(fsys, opts.RootDirectory, opts.Recursive, counters) {
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !types.Includes(entry.IsDir()) {
				continue
			}
			if ok, _ := filepath.Match(pattern, baseName(entry.Path, fsys.Separator())); !ok {
				continue
			}

			counters.addMatched()
			if !yield(TransformPath(entry.Path, opts), nil) {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}, nil
}

// Collect drains a path sequence into a slice. It returns the paths read
// before the first error along with that error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

// TransformPath applies the output transformations to a raw path: percent
// encoding first, then root replacement, so the replacement text is never
// encoded.
func TransformPath(path string, opts Options) string {
	out := path
	if opts.URLEncodePaths {
		out = EscapeDataString(out)
	}
	if opts.RootDirectoryReplacement != nil && opts.RootDirectory != "" {
		out = strings.ReplaceAll(out, opts.RootDirectory, *opts.RootDirectoryReplacement)
	}
	return out
}

// EscapeDataString percent-encodes every byte of s outside the RFC 3986
// unreserved set, including path separators and drive colons.
func EscapeDataString(s string) string {
	const upperhex = "0123456789ABCDEF"

	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func baseName(p, sep string) string {
	if i := strings.LastIndex(p, sep); i >= 0 {
		return p[i+len(sep):]
	}
	return p
}
