package logging

import (
	"bytes"
	"io"
)

// PrefixWriter prepends a prefix to every complete line written through it.
// Partial lines are held back until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending []byte
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.pending = append(pw.pending, p...)

	for {
		nl := bytes.IndexByte(pw.pending, '\n')
		if nl < 0 {
			break
		}
		if err := pw.emit(pw.pending[:nl+1]); err != nil {
			return 0, err
		}
		pw.pending = pw.pending[nl+1:]
	}

	// Keep the backing array from growing without bound
	if len(pw.pending) == 0 {
		pw.pending = nil
	}
	return len(p), nil
}

// Flush writes out a trailing partial line, if any
func (pw *PrefixWriter) Flush() error {
	if len(pw.pending) == 0 {
		return nil
	}
	line := pw.pending
	pw.pending = nil
	return pw.emit(line)
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
