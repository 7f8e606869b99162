package flog

import (
	"io"
	"os"
	"strings"
	"sync"
)

// WriterSink formats lines to an arbitrary io.Writer
type WriterSink struct {
	BaseSink
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// NewDebugSink writes to stderr, the closest thing to a debugger trace stream
func NewDebugSink() *WriterSink {
	return NewWriterSink(os.Stderr)
}

func (s *WriterSink) Write(entry LogEntry, template string, args ...any) error {
	line, err := s.Format(entry, template, args...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = io.WriteString(s.w, line)
	return err
}

func (s *WriterSink) WriteLine(entry LogEntry, template string, args ...any) error {
	return WriteLine(s, entry, template, args...)
}

func (s *WriterSink) WriteError(entry LogEntry, err error, template string, args ...any) error {
	return WriteError(s, entry, err, template, args...)
}

// StringSink collects output in memory, mostly for tests
type StringSink struct {
	BaseSink
	mu  sync.Mutex
	buf strings.Builder
}

// NewStringSink creates an empty in-memory sink
func NewStringSink() *StringSink {
	return &StringSink{}
}

func (s *StringSink) Write(entry LogEntry, template string, args ...any) error {
	line, err := s.Format(entry, template, args...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.buf.WriteString(line)
	s.mu.Unlock()
	return nil
}

func (s *StringSink) WriteLine(entry LogEntry, template string, args ...any) error {
	return WriteLine(s, entry, template, args...)
}

func (s *StringSink) WriteError(entry LogEntry, err error, template string, args ...any) error {
	return WriteError(s, entry, err, template, args...)
}

// Output returns everything written so far
func (s *StringSink) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Clear discards collected output
func (s *StringSink) Clear() {
	s.mu.Lock()
	s.buf.Reset()
	s.mu.Unlock()
}

// NullSink discards everything and reports every level as disabled
type NullSink struct {
	BaseSink
}

// NewNullSink creates a sink that never writes
func NewNullSink() *NullSink {
	return &NullSink{}
}

func (*NullSink) IsLevelEnabled(Level, *Source) bool { return false }

func (*NullSink) Write(LogEntry, string, ...any) error { return nil }

func (*NullSink) WriteLine(LogEntry, string, ...any) error { return nil }

func (*NullSink) WriteError(LogEntry, error, string, ...any) error { return nil }
