package pathlength

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/sadopc/pathlen/internal/search"
)

// Checker lists paths together with their lengths.
type Checker struct {
	Retriever *search.Retriever
}

// NewChecker creates a checker walking the given backend (nil = local disk).
func NewChecker(fsys search.FileSystem) *Checker {
	return &Checker{Retriever: search.NewRetriever(fsys)}
}

// PathsWithLengths validates opts and returns a lazy sequence of the paths
// whose final length lies within the configured bounds, in traversal order.
// Bounds are checked before the filesystem is touched.
func (c *Checker) PathsWithLengths(ctx context.Context, opts Options) (iter.Seq2[PathInfo, error], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := c.Retriever
	if r == nil {
		r = search.NewRetriever(nil)
	}
	paths, err := r.Paths(ctx, opts.Options)
	if err != nil {
		return nil, err
	}

	return func(yield func(PathInfo, error) bool) {
		for p, err := range paths {
			if err != nil {
				yield(PathInfo{}, err)
				return
			}
			info := NewPathInfo(p, opts.Unit)
			if !opts.Accepts(info.Length) {
				continue
			}
			if !yield(info, nil) {
				return
			}
		}
	}, nil
}

// PathsWithLengthsAsString renders every match as a "length: path" line.
// On a traversal error the lines gathered so far are returned with it.
func (c *Checker) PathsWithLengthsAsString(ctx context.Context, opts Options) (string, error) {
	seq, err := c.PathsWithLengths(ctx, opts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for info, err := range seq {
		if err != nil {
			return b.String(), err
		}
		fmt.Fprintf(&b, "%d: %s\n", info.Length, info.Path)
	}
	return b.String(), nil
}

// Collect drains seq into a slice, returning the results read before the
// first error along with that error.
func Collect(seq iter.Seq2[PathInfo, error]) ([]PathInfo, error) {
	var out []PathInfo
	for info, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, info)
	}
	return out, nil
}
