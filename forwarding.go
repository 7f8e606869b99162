package flog

import (
	"io"
	"os"
	"sync"
)

type bufferedRecord struct {
	entry    LogEntry
	template string
	args     []any
}

// ForwardingSink holds records until it is replaced, then hands them to its
// successor. It lets an application log before its real sinks are configured.
type ForwardingSink struct {
	BaseSink
	mu       sync.Mutex
	records  []bufferedRecord
	fallback io.Writer
	closed   bool
}

// NewForwardingSink creates a forwarding sink that accepts every level
func NewForwardingSink() *ForwardingSink {
	s := &ForwardingSink{fallback: os.Stderr}
	s.SetLevel(LevelVerbose)
	return s
}

// Write buffers the record unformatted
func (s *ForwardingSink) Write(entry LogEntry, template string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmtErrorf("forwarding sink is closed")
	}
	s.records = append(s.records, bufferedRecord{entry: entry, template: template, args: args})
	return nil
}

func (s *ForwardingSink) WriteLine(entry LogEntry, template string, args ...any) error {
	return WriteLine(s, entry, template, args...)
}

func (s *ForwardingSink) WriteError(entry LogEntry, err error, template string, args ...any) error {
	return WriteError(s, entry, err, template, args...)
}

// Pending returns the number of buffered records
func (s *ForwardingSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *ForwardingSink) take() []bufferedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records
	s.records = nil
	return records
}

// ReplacedWith forwards buffered records that next has enabled, in order
func (s *ForwardingSink) ReplacedWith(next Sink) {
	if next == nil {
		return
	}
	for _, r := range s.take() {
		if next.IsLevelEnabled(r.entry.Level, r.entry.Source) {
			_ = next.Write(r.entry, r.template, r.args...)
		}
	}
}

// Close writes records that were never forwarded to stderr
func (s *ForwardingSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var result error
	for _, r := range s.take() {
		line, err := s.Format(r.entry, r.template, r.args...)
		if err != nil {
			line = "unformattable record from " + r.entry.SourceName(false) + ": " + err.Error() + "\n"
		}
		if _, err := io.WriteString(s.fallback, line); err != nil {
			result = combineErrors(result, err)
		}
	}
	return result
}
