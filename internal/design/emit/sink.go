// Package emit prints a resolved design. Printers read the model through its
// accessors only and write ordered lines to a Sink.
package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink receives emitted lines in order. Close flushes whatever is buffered;
// a sink must not be written after Close.
type Sink interface {
	WriteLine(line string) error
	Close() error
}

// WriterSink buffers lines for an io.Writer it does not own
type WriterSink struct {
	w      *bufio.Writer
	closed bool
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// WriteLine writes line followed by a newline
func (s *WriterSink) WriteLine(line string) error {
	if s.closed {
		return fmt.Errorf("write to closed sink")
	}
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Close flushes buffered lines. The writer stays open.
func (s *WriterSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.w.Flush()
}

// FileSink writes lines to a file it creates
type FileSink struct {
	*WriterSink
	path string
	file *os.File
}

// CreateFile creates or truncates the file at path, creating its directory
func CreateFile(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &FileSink{WriterSink: NewWriterSink(f), path: path, file: f}, nil
}

// Path returns the file path
func (s *FileSink) Path() string { return s.path }

// Close flushes buffered lines and closes the file
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	flushErr := s.WriterSink.Close()
	closeErr := s.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", s.path, flushErr)
	}
	return closeErr
}

// printer writes formatted lines and keeps the first error
type printer struct {
	sink Sink
	err  error
}

func (p *printer) line(indent int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}
	p.err = p.sink.WriteLine(prefix + fmt.Sprintf(format, args...))
}
