package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/search"
)

type exportDocument struct {
	Header *exportHeader         `json:"header"`
	Search exportSearch          `json:"search"`
	Paths  []pathlength.PathInfo `json:"paths"`
}

// ImportJSON reads a result previously written by ExportJSON.
func ImportJSON(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open import file: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON decodes a result written by WriteJSON.
func ReadJSON(r io.Reader) (*Result, error) {
	var doc exportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.Header == nil {
		return nil, fmt.Errorf("invalid export format: missing header")
	}
	if doc.Header.Progname != progname {
		return nil, fmt.Errorf("invalid export format: written by %q, want %q", doc.Header.Progname, progname)
	}

	opts, err := optionsFromSearch(doc.Search)
	if err != nil {
		return nil, fmt.Errorf("invalid export format: %w", err)
	}

	return &Result{
		Options:   opts,
		Paths:     doc.Paths,
		Cancelled: doc.Search.Cancelled,
		ScanID:    doc.Header.ScanID,
		Timestamp: time.Unix(doc.Header.Timestamp, 0),
	}, nil
}

func optionsFromSearch(s exportSearch) (pathlength.Options, error) {
	opts := pathlength.DefaultOptions()
	opts.RootDirectory = s.Root
	opts.SearchPattern = s.Pattern
	opts.Recursive = s.Recursive
	opts.RootDirectoryReplacement = s.Replacement
	opts.URLEncodePaths = s.URLEncode
	opts.MinimumPathLength = s.MinLength
	opts.MaximumPathLength = s.MaxLength

	var err error
	if opts.TypesToGet, err = search.ParseFileSystemTypes(s.Types); err != nil {
		return opts, err
	}
	if opts.Strategy, err = search.ParseStrategy(s.Strategy); err != nil {
		return opts, err
	}
	if opts.Unit, err = pathlength.ParseLengthUnit(s.Unit); err != nil {
		return opts, err
	}
	return opts, nil
}
