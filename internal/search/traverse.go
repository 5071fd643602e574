package search

import (
	"io/fs"
	"iter"
)

// Entry is a single filesystem entry found during traversal.
type Entry struct {
	Path string
	// Type holds the type bits of the entry itself (symlinks are not followed).
	Type fs.FileMode
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type.IsDir() }

// Traverser walks a directory tree depth-first, pre-order, yielding every
// entry below root (root itself is not yielded). Entries of one directory
// come in the order the backend lists them.
type Traverser interface {
	Walk(fsys FileSystem, root string, recursive bool, counters *Counters) iter.Seq2[Entry, error]
}

// NewTraverser returns the traversal engine for a strategy.
func NewTraverser(s Strategy) Traverser {
	if s == StrategySafe {
		return safeTraverser{}
	}
	return fastTraverser{}
}

// fastTraverser reports every entry as listed and stops at the first
// directory that cannot be read.
type fastTraverser struct{}

func (fastTraverser) Walk(fsys FileSystem, root string, recursive bool, counters *Counters) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkFast(fsys, root, recursive, counters, yield)
	}
}

func walkFast(fsys FileSystem, dir string, recursive bool, counters *Counters, yield func(Entry, error) bool) bool {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		yield(Entry{}, &TraversalError{Path: dir, Err: err})
		return false
	}
	counters.addDirListed()

	sep := fsys.Separator()
	for _, de := range entries {
		counters.addVisited()
		entry := Entry{Path: joinPath(sep, dir, de.Name()), Type: de.Type()}
		if !yield(entry, nil) {
			return false
		}
		if recursive && entry.IsDir() {
			if !walkFast(fsys, entry.Path, recursive, counters, yield) {
				return false
			}
		}
	}
	return true
}

// safeTraverser skips unreadable directories and every symlink, junction or
// other irregular entry, so it can neither fail mid-walk nor loop.
type safeTraverser struct{}

func (safeTraverser) Walk(fsys FileSystem, root string, recursive bool, counters *Counters) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkSafe(fsys, root, recursive, counters, yield)
	}
}

func walkSafe(fsys FileSystem, dir string, recursive bool, counters *Counters, yield func(Entry, error) bool) bool {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		counters.addSkipped()
		return true
	}
	counters.addDirListed()

	sep := fsys.Separator()
	for _, de := range entries {
		counters.addVisited()
		if isReparsePoint(de.Type()) {
			continue
		}
		entry := Entry{Path: joinPath(sep, dir, de.Name()), Type: de.Type()}
		if !yield(entry, nil) {
			return false
		}
		if recursive && entry.IsDir() {
			if !walkSafe(fsys, entry.Path, recursive, counters, yield) {
				return false
			}
		}
	}
	return true
}

// isReparsePoint reports symlinks and the mount points / junctions that Go
// surfaces as irregular files.
func isReparsePoint(mode fs.FileMode) bool {
	return mode&(fs.ModeSymlink|fs.ModeIrregular) != 0
}
