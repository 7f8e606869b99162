package flog

import (
	"context"
	"fmt"
)

// Sink is a log output backend
type Sink interface {
	// Level returns the minimum enabled level
	Level() Level
	// SetLevel changes the minimum enabled level
	SetLevel(level Level)
	// IsLevelEnabled reports whether a record at level from src would be written
	IsLevelEnabled(level Level, src *Source) bool
	// Format renders an entry and its message into a line of text
	Format(entry LogEntry, template string, args ...any) (string, error)
	Write(entry LogEntry, template string, args ...any) error
	// WriteLine writes the message followed by a newline
	WriteLine(entry LogEntry, template string, args ...any) error
	// WriteError writes the message line, if any, followed by the error text
	WriteError(entry LogEntry, err error, template string, args ...any) error
	// ReplacedWith is called when next takes over as the active sink
	ReplacedWith(next Sink)
}

// Writer is the minimal capability the line helpers need
type Writer interface {
	Write(entry LogEntry, template string, args ...any) error
}

// Flusher is implemented by sinks that buffer output
type Flusher interface {
	Flush(ctx context.Context) error
}

// WriteLine writes template plus a newline through w
func WriteLine(w Writer, entry LogEntry, template string, args ...any) error {
	return w.Write(entry, template+"\n", args...)
}

// WriteError writes the optional message line, then the error text as its own line
func WriteError(w Writer, entry LogEntry, err error, template string, args ...any) error {
	var result error
	if template != "" {
		result = WriteLine(w, entry, template, args...)
	}
	if err != nil {
		result = combineErrors(result, WriteLine(w, entry, ErrorText(err)))
	}
	return result
}

// ErrorText renders an error with any detail its formatter exposes (stack traces included)
func ErrorText(err error) string {
	return fmt.Sprintf("%+v", err)
}
