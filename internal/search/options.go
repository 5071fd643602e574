package search

import (
	"fmt"
	"strings"
)

// FileSystemTypes selects which kinds of entries a search returns.
type FileSystemTypes uint8

const (
	Files FileSystemTypes = 1 << iota
	Directories
	All = Files | Directories
)

func (t FileSystemTypes) String() string {
	switch t {
	case Files:
		return "files"
	case Directories:
		return "directories"
	case All:
		return "all"
	default:
		return fmt.Sprintf("FileSystemTypes(%d)", uint8(t))
	}
}

// Includes reports whether an entry of the given kind is selected.
func (t FileSystemTypes) Includes(isDir bool) bool {
	if isDir {
		return t&Directories != 0
	}
	return t&Files != 0
}

// ParseFileSystemTypes accepts files, directories or all (and the
// OnlyFiles/OnlyDirectories spellings used by key=value arguments).
func ParseFileSystemTypes(s string) (FileSystemTypes, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "files", "file", "onlyfiles", "f":
		return Files, nil
	case "directories", "directory", "dirs", "onlydirectories", "d":
		return Directories, nil
	case "all", "", "a":
		return All, nil
	}
	return 0, fmt.Errorf("unknown entry type %q (want files, directories or all)", s)
}

// Strategy selects the traversal engine.
type Strategy int

const (
	// StrategyFast lists directories directly and aborts on the first
	// directory it cannot read.
	StrategyFast Strategy = iota
	// StrategySafe skips unreadable directories and never returns or
	// enters symlinks and other reparse points.
	StrategySafe
)

func (s Strategy) String() string {
	switch s {
	case StrategyFast:
		return "fast"
	case StrategySafe:
		return "safe"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "fast" or "safe" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return StrategyFast, nil
	case "safe":
		return StrategySafe, nil
	}
	return 0, fmt.Errorf("unknown traversal strategy %q (want fast or safe)", s)
}

// Options configures a path search. Options are read-only once a search
// has started.
type Options struct {
	// RootDirectory is the directory the search starts in.
	RootDirectory string
	// SearchPattern is matched against entry names. Empty matches everything.
	SearchPattern string
	// Recursive descends into every subdirectory of the root.
	Recursive bool
	// TypesToGet selects files, directories or both.
	TypesToGet FileSystemTypes
	// RootDirectoryReplacement, when non-nil, replaces every occurrence of
	// RootDirectory in the returned paths. An empty string is a valid
	// replacement; nil leaves paths untouched.
	RootDirectoryReplacement *string
	// URLEncodePaths percent-encodes returned paths.
	URLEncodePaths bool
	// Strategy selects the traversal engine.
	Strategy Strategy
}

// DefaultOptions returns options that list every entry below root.
func DefaultOptions() Options {
	return Options{
		SearchPattern: "*",
		Recursive:     true,
		TypesToGet:    All,
		Strategy:      StrategyFast,
	}
}

// pattern returns the effective search pattern.
func (o Options) pattern() string {
	if o.SearchPattern == "" {
		return "*"
	}
	return o.SearchPattern
}

// Replace returns a pointer suitable for Options.RootDirectoryReplacement.
func Replace(s string) *string {
	return &s
}
