// Package config turns key=value arguments and TOML files into search
// options.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/search"
)

var (
	// ErrMalformedArg is returned for an argument without "=".
	ErrMalformedArg = errors.New("all parameters must be of the format 'Parameter=Value'")
	// ErrUnknownArg is returned for an unrecognized parameter name.
	ErrUnknownArg = errors.New("unrecognized parameter")
)

// OutputType selects what the CLI prints.
type OutputType int

const (
	// OutputPaths prints every matching path with its length.
	OutputPaths OutputType = iota
	// OutputMinLength prints the shortest length found.
	OutputMinLength
	// OutputMaxLength prints the longest length found.
	OutputMaxLength
	// OutputSummary prints count, shortest and longest.
	OutputSummary
)

func (o OutputType) String() string {
	switch o {
	case OutputPaths:
		return "paths"
	case OutputMinLength:
		return "min"
	case OutputMaxLength:
		return "max"
	case OutputSummary:
		return "summary"
	default:
		return fmt.Sprintf("OutputType(%d)", int(o))
	}
}

// ParseOutputType accepts paths, min, max or summary, and the MinLength and
// MaxLength spellings of key=value arguments.
func ParseOutputType(s string) (OutputType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paths":
		return OutputPaths, nil
	case "min", "minlength":
		return OutputMinLength, nil
	case "max", "maxlength":
		return OutputMaxLength, nil
	case "summary":
		return OutputSummary, nil
	}
	return 0, fmt.Errorf("unknown output type %q (want paths, min, max or summary)", s)
}

// Args is the result of parsing key=value arguments.
type Args struct {
	Options pathlength.Options
	Output  OutputType
	// Set records which keys were present.
	Set map[string]bool
}

// IsKeyValue reports whether arg looks like a key=value parameter.
func IsKeyValue(arg string) bool {
	key, _, ok := strings.Cut(arg, "=")
	return ok && key != "" && !strings.HasPrefix(key, "-")
}

// ParseArgs applies Key=Value arguments on top of base. Integer values that
// do not parse leave the existing bound unchanged.
//
// Recognized keys: RootDirectory, RootDirectoryReplacement ("null" clears
// it), SearchOption (TopDirectory or AllDirectories), TypesToInclude
// (OnlyFiles, OnlyDirectories or All), SearchPattern, MinLength, MaxLength,
// Output (Paths, MinLength or MaxLength), UrlEncodePaths and Strategy.
func ParseArgs(args []string, base pathlength.Options) (Args, error) {
	out := Args{Options: base, Set: make(map[string]bool)}
	opts := &out.Options

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return out, fmt.Errorf("%w: %q", ErrMalformedArg, arg)
		}

		switch key {
		case "RootDirectory":
			opts.RootDirectory = value
		case "RootDirectoryReplacement":
			if strings.EqualFold(value, "null") {
				opts.RootDirectoryReplacement = nil
			} else {
				opts.RootDirectoryReplacement = search.Replace(value)
			}
		case "SearchOption":
			opts.Recursive = !strings.EqualFold(value, "TopDirectory")
		case "TypesToInclude":
			switch {
			case strings.EqualFold(value, "OnlyFiles"):
				opts.TypesToGet = search.Files
			case strings.EqualFold(value, "OnlyDirectories"):
				opts.TypesToGet = search.Directories
			default:
				opts.TypesToGet = search.All
			}
		case "SearchPattern":
			opts.SearchPattern = value
		case "MinLength":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				opts.MinimumPathLength = n
			}
		case "MaxLength":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				opts.MaximumPathLength = n
			}
		case "Output":
			t, err := ParseOutputType(value)
			if err != nil {
				return out, err
			}
			out.Output = t
		case "UrlEncodePaths":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return out, fmt.Errorf("UrlEncodePaths: %w", err)
			}
			opts.URLEncodePaths = b
		case "Strategy":
			s, err := search.ParseStrategy(value)
			if err != nil {
				return out, err
			}
			opts.Strategy = s
		default:
			return out, fmt.Errorf("%w: %s", ErrUnknownArg, key)
		}
		out.Set[key] = true
	}
	return out, nil
}
