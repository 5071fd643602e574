package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sadopc/pathlen/internal/pathlength"
)

// Export format:
// {"header":{"progname":"pathlen","progver":"1.0","scan_id":"01J...","timestamp":1234567890},
//  "search":{"root":"/path","pattern":"*",...,"cancelled":false},
//  "paths":[
// {"path":"/path/a","length":7},
// {"path":"/path/b","length":7}
// ]}

const progname = "pathlen"

// Result is a finished (or cancelled) search together with the options that
// produced it.
type Result struct {
	Options   pathlength.Options
	Paths     []pathlength.PathInfo
	Cancelled bool
	// ScanID identifies the search. ExportJSON assigns one when empty.
	ScanID    string
	Timestamp time.Time
}

type exportHeader struct {
	Progname  string `json:"progname"`
	Progver   string `json:"progver"`
	ScanID    string `json:"scan_id"`
	Timestamp int64  `json:"timestamp"`
}

type exportSearch struct {
	Root        string  `json:"root"`
	Pattern     string  `json:"pattern"`
	Recursive   bool    `json:"recursive"`
	Types       string  `json:"types"`
	Replacement *string `json:"root_replacement,omitempty"`
	URLEncode   bool    `json:"url_encode,omitempty"`
	Strategy    string  `json:"strategy"`
	MinLength   int     `json:"min_length"`
	MaxLength   int     `json:"max_length"`
	Unit        string  `json:"unit"`
	Cancelled   bool    `json:"cancelled,omitempty"`
}

// NewScanID returns a new sortable unique search identifier.
func NewScanID() string {
	return ulid.Make().String()
}

// ExportJSON writes result as JSON to path ("-" for stdout).
func ExportJSON(result *Result, path string, version string) error {
	return exportAtomic(path, func(w io.Writer) error {
		return exportToWriter(result, w, version)
	})
}

// ExportCSV writes paths as CSV to path ("-" for stdout).
func ExportCSV(paths []pathlength.PathInfo, path string, includeLength bool) error {
	return exportAtomic(path, func(w io.Writer) error {
		_, err := WriteCSV(w, Seq(paths), includeLength)
		return err
	})
}

// exportAtomic runs write against path. For file targets, writes to a temp
// file first and atomically renames on success, so a partial file is never
// left behind on error.
func exportAtomic(path string, write func(io.Writer) error) (retErr error) {
	if path == "-" {
		return write(os.Stdout)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pathlen-export-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return err
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("cannot replace export file %s: %w", path, err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes result as JSON to w.
func WriteJSON(w io.Writer, result *Result, version string) error {
	return exportToWriter(result, w, version)
}

func exportToWriter(result *Result, out io.Writer, version string) error {
	if result == nil {
		return errors.New("nothing to export")
	}
	bw := bufio.NewWriterSize(out, 64*1024)
	ew := &errWriter{w: bw}

	if version == "" {
		version = "dev"
	}
	if result.ScanID == "" {
		result.ScanID = NewScanID()
	}
	ts := result.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	headerJSON, err := json.Marshal(exportHeader{
		Progname:  progname,
		Progver:   version,
		ScanID:    result.ScanID,
		Timestamp: ts.Unix(),
	})
	if err != nil {
		return err
	}
	searchJSON, err := json.Marshal(searchFromOptions(result.Options, result.Cancelled))
	if err != nil {
		return err
	}

	ew.WriteString(`{"header":`)
	_, _ = ew.Write(headerJSON)
	ew.WriteString(",\n \"search\":")
	_, _ = ew.Write(searchJSON)
	ew.WriteString(",\n \"paths\":[")

	for i, p := range result.Paths {
		if ew.err != nil {
			break
		}
		if i > 0 {
			ew.WriteString(",")
		}
		ew.WriteString("\n")
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, _ = ew.Write(data)
	}

	ew.WriteString("\n]}\n")
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

func searchFromOptions(o pathlength.Options, cancelled bool) exportSearch {
	return exportSearch{
		Root:        o.RootDirectory,
		Pattern:     o.SearchPattern,
		Recursive:   o.Recursive,
		Types:       o.TypesToGet.String(),
		Replacement: o.RootDirectoryReplacement,
		URLEncode:   o.URLEncodePaths,
		Strategy:    o.Strategy.String(),
		MinLength:   o.MinimumPathLength,
		MaxLength:   o.MaximumPathLength,
		Unit:        o.Unit.String(),
		Cancelled:   cancelled,
	}
}
