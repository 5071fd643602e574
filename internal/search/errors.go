package search

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound is returned before any traversal when the root
	// directory does not exist or is not a directory.
	ErrDirectoryNotFound = errors.New("root directory not found")
	// ErrInvalidPattern is returned before any traversal for a malformed
	// search pattern.
	ErrInvalidPattern = errors.New("invalid search pattern")
	// ErrTraversal matches every *TraversalError via errors.Is.
	ErrTraversal = errors.New("traversal failed")
)

// TraversalError reports a directory the fast strategy could not list.
// Paths yielded before it remain valid.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot list directory %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTraversal) hold for any TraversalError.
func (e *TraversalError) Is(target error) bool { return target == ErrTraversal }
