package flog

import (
	"reflect"
	"strings"
	"time"
)

// Source identifies where a log statement originates: a type, a package or a custom name
type Source struct {
	Name      string
	ShortName string
}

// NewSource creates a source from a custom name
func NewSource(name string) *Source {
	return &Source{Name: name, ShortName: shorten(name)}
}

// SourceOf derives a source from the dynamic type of v ("pkg/path.Type")
func SourceOf(v any) *Source {
	t := reflect.TypeOf(v)
	if t == nil {
		return NewSource("<nil>")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return NewSource(t.String())
	}
	return NewSource(t.PkgPath() + "." + t.Name())
}

// shorten abbreviates every segment but the last to its lowercase initial:
// "github.com/acme/billing.Invoice" -> "g.c.a.b.Invoice"
func shorten(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '/' })
	if len(parts) <= 1 {
		return name
	}
	var b strings.Builder
	for _, p := range parts[:len(parts)-1] {
		b.WriteString(strings.ToLower(p[:1]))
		b.WriteByte('.')
	}
	b.WriteString(parts[len(parts)-1])
	return b.String()
}

// LogEntry is the immutable metadata of one log call
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Source    *Source
	Method    string
	Line      int
}

// SourceName returns the full or abbreviated source name, tolerating a nil source
func (e LogEntry) SourceName(short bool) string {
	if e.Source == nil {
		return ""
	}
	if short {
		return e.Source.ShortName
	}
	return e.Source.Name
}

// NewEntry stamps an entry with the current time and the call site skip
// frames above the caller of NewEntry
func NewEntry(level Level, src *Source, skip int) LogEntry {
	site := caller(skip + 1)
	return LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Source:    src,
		Method:    site.method,
		Line:      site.line,
	}
}
