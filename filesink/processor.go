package filesink

import (
	"context"
	"runtime"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/sourcegraph/conc/panics"
)

const (
	// In-flight archive count that triggers a diagnostic
	archiveBacklogWarning = 16
	// Consecutive empty flushes tolerated while draining
	maxDrainStalls = 3
)

// resolvedTarget remembers a target and the variables that produced it
type resolvedTarget struct {
	target Target
	vars   Variables
}

// processLoop flushes on every tick until ctx is cancelled. A tick in progress
// always completes.
func (s *FileSink) processLoop(ctx context.Context) {
	defer s.wg.Done()

	interval := s.config().WriteInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()

			// Pick up a reconfigured interval
			if next := s.config().WriteInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// tick runs one flush and keeps a panic from killing the loop
func (s *FileSink) tick() {
	var pc panics.Catcher
	pc.Try(func() { s.flush() })
	if r := pc.Recovered(); r != nil {
		s.diag(flog.LevelError, "flush panicked: {0}", r.AsError())
	}
}

// flush drains queued records into the current target and returns how many
// records it consumed, including ones dropped for format or write failures.
func (s *FileSink) flush() int {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if s.queue.IsEmpty() {
		return 0
	}

	cfg := s.config()
	vars := Variables{
		ProcessName: cfg.ProcessName,
		Timestamp:   s.clock(),
		Extension:   cfg.Extension,
	}
	target, err := Resolve(cfg.FilenamePattern, cfg.DirectoryPattern, vars, cfg.SanitizeFilenames)
	if err != nil {
		s.diag(flog.LevelError, "cannot resolve log file: {0}", err)
		return 0
	}

	if s.previous != nil && s.previous.target.Path() != target.Path() {
		s.spawnArchive(cfg, s.previous.target.Path(), s.previous.vars)
	}
	s.previous = &resolvedTarget{target: target, vars: vars}

	s.staging.Reset()
	consumed, staged := 0, 0
	for {
		rec, ok := s.queue.TryDequeue()
		if !ok {
			break
		}
		consumed++

		line, err := rec.render(s.Format)
		if err != nil {
			s.state.FormatFailures.Add(1)
			s.diag(flog.LevelWarn, "dropping record from {0} ({1}:{2}): {3}",
				rec.entry.SourceName(false), rec.entry.Method, rec.entry.Line, err)
			continue
		}
		s.staging.WriteString(line)
		staged++

		// The rest stays queued for the next tick
		if int64(s.staging.Len()) > cfg.MaxBufferBytes {
			break
		}
	}

	if s.staging.Len() == 0 {
		return consumed
	}

	if err := appendToFile(target, s.staging.Bytes()); err != nil {
		s.state.WriteFailures.Add(1)
		s.diag(flog.LevelError, "dropping {0} record(s): {1}", staged, err)
		return consumed
	}
	s.state.RecordsWritten.Add(uint64(staged))
	s.state.BytesWritten.Add(uint64(s.staging.Len()))
	return consumed
}

// drain flushes until the queue is empty or flushes stop making progress
func (s *FileSink) drain(ctx context.Context) error {
	stalls := 0
	for !s.queue.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.flush() > 0 {
			stalls = 0
			continue
		}
		// A producer may be between reserving and linking its node
		if stalls++; stalls > maxDrainStalls {
			return fmtErrorf("%w with %d record(s) pending", errDrainStalled, s.queue.Len())
		}
		runtime.Gosched()
	}
	return nil
}

// spawnArchive archives oldPath on its own goroutine, tracked until it finishes
func (s *FileSink) spawnArchive(cfg *Config, oldPath string, vars Variables) {
	task, inFlight := s.tasks.add(oldPath)
	if inFlight > archiveBacklogWarning {
		s.diag(flog.LevelWarn, "{0} archive tasks in flight, rotation is outpacing archival", inFlight)
	}

	go func() {
		defer s.tasks.finish(task)

		var (
			pc       panics.Catcher
			archived bool
			err      error
		)
		pc.Try(func() { archived, err = s.archiveFile(cfg, oldPath, vars) })
		if r := pc.Recovered(); r != nil {
			err = r.AsError()
		}

		if err != nil {
			s.state.ArchivesFailed.Add(1)
			s.diag(flog.LevelError, "archiving {0} failed: {1}", oldPath, err)
			return
		}
		if archived {
			s.state.ArchivesCompleted.Add(1)
		}
	}()
}
