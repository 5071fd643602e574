// Package pathlength filters search results by the length of their final
// path strings.
package pathlength

import (
	"errors"

	"github.com/sadopc/pathlen/internal/search"
)

const (
	// Unbounded disables a length bound. Any negative value does the same.
	Unbounded = -1
	// MaxPathLengthLimit is the default maximum path length.
	MaxPathLengthLimit = 999999
)

// ErrMinGreaterThanMax is returned when both bounds are set and the minimum
// exceeds the maximum.
var ErrMinGreaterThanMax = errors.New("minimum path length can not be greater than the maximum path length")

// Options configures a length-filtered path search.
type Options struct {
	search.Options

	// MinimumPathLength is the inclusive lower bound. Negative means unbounded.
	MinimumPathLength int
	// MaximumPathLength is the inclusive upper bound. Negative means unbounded.
	MaximumPathLength int
	// Unit selects how lengths are counted.
	Unit LengthUnit
}

// DefaultOptions returns options matching every path below root.
func DefaultOptions() Options {
	return Options{
		Options:           search.DefaultOptions(),
		MinimumPathLength: 0,
		MaximumPathLength: MaxPathLengthLimit,
		Unit:              UnitRunes,
	}
}

// Validate checks the length bounds.
func (o Options) Validate() error {
	if o.MinimumPathLength >= 0 && o.MaximumPathLength >= 0 && o.MinimumPathLength > o.MaximumPathLength {
		return ErrMinGreaterThanMax
	}
	return nil
}

// Accepts reports whether a path of the given length passes both bounds.
func (o Options) Accepts(length int) bool {
	return length >= o.MinimumPathLength &&
		(o.MaximumPathLength < 0 || length <= o.MaximumPathLength)
}
