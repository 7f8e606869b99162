package filesink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/sourcegraph/conc/panics"
)

var diagSource = flog.NewSource("github.com/lixenwraith/flog/filesink")

var (
	_ flog.Sink    = (*FileSink)(nil)
	_ flog.Flusher = (*FileSink)(nil)
)

// FileSink buffers records in memory and appends them to a rotating file from
// a background goroutine. When the resolved file path changes, the previous
// file is archived on its own goroutine.
type FileSink struct {
	flog.BaseSink

	cfg         atomic.Pointer[Config]
	queue       *queue[pendingRecord]
	history     archiveHistory
	tasks       taskSet
	state       State
	clock       func() time.Time
	diagnostics flog.Sink

	// Guarded by flushMu
	flushMu  sync.Mutex
	previous *resolvedTarget
	staging  bytes.Buffer

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option customizes a FileSink at construction
type Option func(*FileSink)

// WithClock replaces time.Now as the source of the {Timestamp} variable
func WithClock(clock func() time.Time) Option {
	return func(s *FileSink) {
		s.clock = clock
	}
}

// WithDiagnostics routes internal failures to d instead of throttled stderr
func WithDiagnostics(d flog.Sink) Option {
	return func(s *FileSink) {
		s.diagnostics = d
	}
}

// WithArchiveHistory seeds the archive list, oldest first, e.g. from a previous run
func WithArchiveHistory(paths []string) Option {
	return func(s *FileSink) {
		s.history.set(paths)
	}
}

// defaultDiagnostics writes internal failures to stderr, at most 10 per second
func defaultDiagnostics() flog.Sink {
	return flog.NewThrottledSink(flog.NewDebugSink(), 10, 20)
}

// New configures a FileSink and starts its flush loop
func New(cfg *Config, opts ...Option) (*FileSink, error) {
	s := &FileSink{
		queue:       newQueue[pendingRecord](),
		clock:       time.Now,
		diagnostics: defaultDiagnostics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Configure(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.processLoop(ctx)

	return s, nil
}

// Configure validates and applies cfg; it takes effect from the next flush.
// An empty process name is derived from the executable.
func (s *FileSink) Configure(cfg *Config) error {
	if cfg == nil {
		return flog.ErrNilConfig
	}

	c := cfg.Clone()
	if strings.TrimSpace(c.ProcessName) == "" {
		name, err := executableName()
		if err != nil {
			return fmtErrorf("process name not set and cannot be derived: %w", err)
		}
		c.ProcessName = name
	}

	if err := c.validate(); err != nil {
		return err
	}
	base, err := c.base()
	if err != nil {
		return err
	}
	if err := s.BaseSink.Configure(base); err != nil {
		return err
	}

	s.cfg.Store(c)
	return nil
}

func (s *FileSink) config() *Config {
	return s.cfg.Load()
}

// Config returns a copy of the active configuration
func (s *FileSink) Config() *Config {
	c := s.config().Clone()
	c.Level = s.Level().String()
	return c
}

// Write enqueues a record without doing I/O. With Preformat the record is
// rendered first and format errors are returned to the caller.
func (s *FileSink) Write(entry flog.LogEntry, template string, args ...any) error {
	if s.state.Closing.Load() {
		return ErrDisposed
	}

	rec := pendingRecord{entry: entry, template: template, args: args}
	if s.config().Preformat {
		line, err := s.Format(entry, template, args...)
		if err != nil {
			return fmtErrorf("preformat: %w", err)
		}
		rec = pendingRecord{entry: entry, line: line, formatted: true}
	}

	if err := s.queue.Enqueue(rec); err != nil {
		return fmt.Errorf("%w: %w", ErrDisposed, err)
	}
	return nil
}

// WriteLine enqueues the message followed by a newline
func (s *FileSink) WriteLine(entry flog.LogEntry, template string, args ...any) error {
	return flog.WriteLine(s, entry, template, args...)
}

// WriteError enqueues the message line and the error text
func (s *FileSink) WriteError(entry flog.LogEntry, err error, template string, args ...any) error {
	return flog.WriteError(s, entry, err, template, args...)
}

// Flush synchronously writes everything queued so far. Records still being
// linked by concurrent writers are left for the next flush.
func (s *FileSink) Flush(ctx context.Context) error {
	if s.state.Closed.Load() {
		return nil
	}
	if err := s.drain(ctx); err != nil && !errors.Is(err, errDrainStalled) {
		return err
	}
	return nil
}

// Close stops the flush loop, writes every remaining record and waits for
// in-flight archives. It is idempotent and always returns nil; failures go to
// the diagnostic sink.
func (s *FileSink) Close() error {
	s.closeOnce.Do(func() {
		s.state.Closing.Store(true)
		s.queue.Close()

		s.cancel()
		s.wg.Wait()

		var pc panics.Catcher
		pc.Try(func() {
			if err := s.drain(context.Background()); err != nil {
				s.diag(flog.LevelError, "final drain incomplete: {0}", err)
			}
		})
		if r := pc.Recovered(); r != nil {
			s.diag(flog.LevelError, "final drain panicked: {0}", r.AsError())
		}

		s.tasks.wait()
		s.state.Closed.Store(true)
	})
	return nil
}

// ArchiveHistory returns the archive paths, oldest first
func (s *FileSink) ArchiveHistory() []string {
	return s.history.snapshot()
}

// CurrentTarget returns the file the last flush wrote to, if any
func (s *FileSink) CurrentTarget() (Target, bool) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if s.previous == nil {
		return Target{}, false
	}
	return s.previous.target, true
}

// Stats returns a snapshot of the sink's counters
func (s *FileSink) Stats() Stats {
	return Stats{
		RecordsWritten:    s.state.RecordsWritten.Load(),
		BytesWritten:      s.state.BytesWritten.Load(),
		FormatFailures:    s.state.FormatFailures.Load(),
		WriteFailures:     s.state.WriteFailures.Load(),
		ArchivesCompleted: s.state.ArchivesCompleted.Load(),
		ArchivesFailed:    s.state.ArchivesFailed.Load(),
		ArchivesInFlight:  s.tasks.len(),
		Pending:           s.queue.Len(),
	}
}

// diag reports an internal failure; it never writes back into this sink
func (s *FileSink) diag(level flog.Level, template string, args ...any) {
	d := s.diagnostics
	if d == nil || !d.IsLevelEnabled(level, diagSource) {
		return
	}
	_ = d.WriteLine(flog.NewEntry(level, diagSource, 1), template, args...)
}
