package flog

import (
	"context"
	"errors"
)

// Logger emits leveled, templated statements attributed to one source.
// Templates use positional placeholders: "user {0} logged in from {1}".
type Logger struct {
	reg *Registry
	src *Source
}

// Source returns the logger's source
func (l *Logger) Source() *Source {
	return l.src
}

// IsEnabled reports whether any sink for this source accepts level
func (l *Logger) IsEnabled(level Level) bool {
	for _, s := range l.reg.SinksFor(l.src) {
		if s.IsLevelEnabled(level, l.src) {
			return true
		}
	}
	return false
}

// LogDepth writes a record to every enabled sink. depth counts stack frames
// above the caller of LogDepth when attributing the method and line; adapters
// pass 1 to skip themselves. Sink errors are joined.
func (l *Logger) LogDepth(depth int, level Level, err error, template string, args ...any) error {
	var (
		entry LogEntry
		built bool
		errs  []error
	)
	for _, s := range l.reg.SinksFor(l.src) {
		if !s.IsLevelEnabled(level, l.src) {
			continue
		}
		if !built {
			site := caller(depth + 1)
			entry = LogEntry{
				Timestamp: l.reg.now(),
				Level:     level,
				Source:    l.src,
				Method:    site.method,
				Line:      site.line,
			}
			built = true
		}

		var werr error
		if err != nil {
			werr = s.WriteError(entry, err, template, args...)
		} else {
			werr = s.WriteLine(entry, template, args...)
		}
		if werr != nil {
			errs = append(errs, werr)
		}
	}
	return errors.Join(errs...)
}

// Log writes at level and returns any sink error
func (l *Logger) Log(level Level, template string, args ...any) error {
	return l.LogDepth(1, level, nil, template, args...)
}

// Verbose logs at verbose level
func (l *Logger) Verbose(template string, args ...any) {
	_ = l.LogDepth(1, LevelVerbose, nil, template, args...)
}

// Debug logs at debug level
func (l *Logger) Debug(template string, args ...any) {
	_ = l.LogDepth(1, LevelDebug, nil, template, args...)
}

// Info logs at info level
func (l *Logger) Info(template string, args ...any) {
	_ = l.LogDepth(1, LevelInfo, nil, template, args...)
}

// Warn logs at warn level
func (l *Logger) Warn(template string, args ...any) {
	_ = l.LogDepth(1, LevelWarn, nil, template, args...)
}

// Error logs at error level
func (l *Logger) Error(template string, args ...any) {
	_ = l.LogDepth(1, LevelError, nil, template, args...)
}

// Fatal logs at fatal level. It does not exit.
func (l *Logger) Fatal(template string, args ...any) {
	_ = l.LogDepth(1, LevelFatal, nil, template, args...)
}

// ErrorWith logs the message and then err at error level
func (l *Logger) ErrorWith(err error, template string, args ...any) {
	_ = l.LogDepth(1, LevelError, err, template, args...)
}

// FatalWith logs the message and then err at fatal level
func (l *Logger) FatalWith(err error, template string, args ...any) {
	_ = l.LogDepth(1, LevelFatal, err, template, args...)
}

// Flush drains buffering sinks used by this logger's source
func (l *Logger) Flush(ctx context.Context) error {
	return flushSinks(ctx, l.reg.SinksFor(l.src))
}
