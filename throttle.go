package flog

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// ThrottledSink rate-limits writes to an inner sink. Records over the limit are
// dropped; the count is reported with the next record that gets through.
type ThrottledSink struct {
	Sink
	limiter    *rate.Limiter
	unreported atomic.Uint64
	dropped    atomic.Uint64
}

// NewThrottledSink allows perSecond records with the given burst
func NewThrottledSink(inner Sink, perSecond float64, burst int) *ThrottledSink {
	return &ThrottledSink{
		Sink:    inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// allow takes one token and reports earlier drops ahead of the record that got through
func (s *ThrottledSink) allow(entry LogEntry) bool {
	if !s.limiter.Allow() {
		s.unreported.Add(1)
		s.dropped.Add(1)
		return false
	}
	if n := s.unreported.Swap(0); n > 0 {
		_ = s.Sink.WriteLine(entry, "{0} record(s) suppressed by rate limit", n)
	}
	return true
}

// Write forwards the record when the limiter allows it
func (s *ThrottledSink) Write(entry LogEntry, template string, args ...any) error {
	if !s.allow(entry) {
		return nil
	}
	return s.Sink.Write(entry, template, args...)
}

// WriteLine forwards the record and a newline when the limiter allows it
func (s *ThrottledSink) WriteLine(entry LogEntry, template string, args ...any) error {
	if !s.allow(entry) {
		return nil
	}
	return s.Sink.WriteLine(entry, template, args...)
}

// WriteError forwards the message and its error text as one record, so both
// lines pass or both are dropped
func (s *ThrottledSink) WriteError(entry LogEntry, err error, template string, args ...any) error {
	if !s.allow(entry) {
		return nil
	}
	return s.Sink.WriteError(entry, err, template, args...)
}

// Dropped returns the total number of records discarded by the limiter
func (s *ThrottledSink) Dropped() uint64 {
	return s.dropped.Load()
}
