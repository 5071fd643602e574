// Package report renders, sorts, exports and imports path length results.
package report

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/sadopc/pathlen/internal/pathlength"
)

const (
	csvHeaderWithLength = `Length,"Path"`
	csvHeaderPathOnly   = `"Path"`
)

// TextLine renders one result as "length: path", or just the path.
func TextLine(p pathlength.PathInfo, includeLength bool) string {
	if !includeLength {
		return p.Path
	}
	return strconv.Itoa(p.Length) + ": " + p.Path
}

// CSVLine renders one result as a CSV row. The path is always quoted.
func CSVLine(p pathlength.PathInfo, includeLength bool) string {
	quoted := quoteCSV(p.Path)
	if !includeLength {
		return quoted
	}
	return strconv.Itoa(p.Length) + "," + quoted
}

// CSVHeader returns the header row for CSV output.
func CSVHeader(includeLength bool) string {
	if includeLength {
		return csvHeaderWithLength
	}
	return csvHeaderPathOnly
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatText renders results one per line, without a trailing newline.
func FormatText(paths []pathlength.PathInfo, includeLength bool) string {
	var b strings.Builder
	_, _ = WriteText(&b, Seq(paths), includeLength)
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatCSV renders results as CSV with a header row, without a trailing
// newline.
func FormatCSV(paths []pathlength.PathInfo, includeLength bool) string {
	var b strings.Builder
	_, _ = WriteCSV(&b, Seq(paths), includeLength)
	return strings.TrimSuffix(b.String(), "\n")
}

// WriteText streams results to w, one newline-terminated line each. It
// returns the bytes written and the first sequence or write error.
func WriteText(w io.Writer, seq iter.Seq2[pathlength.PathInfo, error], includeLength bool) (int64, error) {
	return writeLines(w, "", seq, func(p pathlength.PathInfo) string {
		return TextLine(p, includeLength)
	})
}

// WriteCSV streams a header row and one CSV row per result to w.
func WriteCSV(w io.Writer, seq iter.Seq2[pathlength.PathInfo, error], includeLength bool) (int64, error) {
	return writeLines(w, CSVHeader(includeLength), seq, func(p pathlength.PathInfo) string {
		return CSVLine(p, includeLength)
	})
}

func writeLines(w io.Writer, header string, seq iter.Seq2[pathlength.PathInfo, error], line func(pathlength.PathInfo) string) (int64, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	ew := &errWriter{w: bw}

	if header != "" {
		ew.WriteString(header)
		ew.WriteString("\n")
	}

	var seqErr error
	for p, err := range seq {
		if err != nil {
			seqErr = err
			break
		}
		ew.WriteString(line(p))
		ew.WriteString("\n")
		if ew.err != nil {
			break
		}
	}

	if ew.err != nil {
		return ew.n, ew.err
	}
	if err := bw.Flush(); err != nil {
		return ew.n, err
	}
	return ew.n, seqErr
}

// Seq adapts an already collected result set to the streaming writers.
func Seq(paths []pathlength.PathInfo) iter.Seq2[pathlength.PathInfo, error] {
	return func(yield func(pathlength.PathInfo, error) bool) {
		for _, p := range paths {
			if !yield(p, nil) {
				return
			}
		}
	}
}
