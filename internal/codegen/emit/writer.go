package emit

import (
	"fmt"
	"io"
)

// Writer appends text to an artifact stream. The first write error sticks
// and every later write is dropped; the phase runner reports it.
type Writer struct {
	w   io.Writer
	n   int64
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteString(s string) {
	if w.err != nil || s == "" {
		return
	}
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	w.err = err
}

// Write makes the writer usable as an io.Writer, for templates.
func (w *Writer) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.WriteString(string(b))
	return len(b), w.err
}

func (w *Writer) Printf(format string, args ...any) {
	w.WriteString(fmt.Sprintf(format, args...))
}

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 { return w.n }
