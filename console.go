package flog

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// ANSI color sequences per level
var defaultColors = map[Level]string{
	LevelVerbose: "\x1b[90m",
	LevelDebug:   "\x1b[37m",
	LevelInfo:    "\x1b[32m",
	LevelWarn:    "\x1b[33m",
	LevelError:   "\x1b[31m",
	LevelFatal:   "\x1b[1;31m",
}

const colorReset = "\x1b[0m"

// ConsoleSink writes formatted lines to the console, optionally colored by level
type ConsoleSink struct {
	BaseSink
	mu       sync.Mutex
	out      io.Writer
	colorize bool
	colors   map[Level]string
}

// ConsoleOption customizes a ConsoleSink
type ConsoleOption func(*ConsoleSink)

// WithOutput redirects console output, e.g. to os.Stderr
func WithOutput(w io.Writer) ConsoleOption {
	return func(s *ConsoleSink) {
		s.out = w
	}
}

// WithColor forces coloring on or off instead of detecting a terminal
func WithColor(enabled bool) ConsoleOption {
	return func(s *ConsoleSink) {
		s.colorize = enabled
	}
}

// WithLevelColor overrides the ANSI sequence used for one level
func WithLevelColor(level Level, ansi string) ConsoleOption {
	return func(s *ConsoleSink) {
		s.colors[level] = ansi
	}
}

// NewConsoleSink creates a stdout sink. Colors are enabled when stdout is a terminal.
func NewConsoleSink(opts ...ConsoleOption) *ConsoleSink {
	s := &ConsoleSink{
		out:      os.Stdout,
		colorize: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		colors:   make(map[Level]string, len(defaultColors)),
	}
	for level, ansi := range defaultColors {
		s.colors[level] = ansi
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write formats and emits the record synchronously
func (s *ConsoleSink) Write(entry LogEntry, template string, args ...any) error {
	line, err := s.Format(entry, template, args...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.colors[entry.Level]; ok && s.colorize {
		_, err = io.WriteString(s.out, color+line+colorReset)
		return err
	}
	_, err = io.WriteString(s.out, line)
	return err
}

// WriteLine writes the message followed by a newline
func (s *ConsoleSink) WriteLine(entry LogEntry, template string, args ...any) error {
	return WriteLine(s, entry, template, args...)
}

// WriteError writes the message line and the error text
func (s *ConsoleSink) WriteError(entry LogEntry, err error, template string, args ...any) error {
	return WriteError(s, entry, err, template, args...)
}
