package report

import "io"

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops.
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	n, err := io.WriteString(ew.w, s)
	ew.n += int64(n)
	ew.err = err
}

func (ew *errWriter) Write(data []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(data)
	ew.n += int64(n)
	if err != nil {
		ew.err = err
	}
	return n, err
}
