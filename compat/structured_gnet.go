package compat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lixenwraith/flog"
)

// printfVerb matches a printf directive including flags, width and precision
var printfVerb = regexp.MustCompile(`%%|%[-+# 0]*\d*(?:\.\d+)?[vTtbcdoOqxXUeEfFgGsp]`)

var braceEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// toTemplate rewrites a printf format into a positional template, e.g.
// "conn=%s bytes=%05d" becomes "conn={0:%s} bytes={1:%05d}". ok is false when
// the format cannot be mapped onto args one-to-one (indexed or star verbs,
// argument count mismatch).
func toTemplate(format string, args []any) (string, bool) {
	if strings.Contains(format, "%[") || strings.Contains(format, "*") {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(format) + 8*len(args))

	idx, last := 0, 0
	for _, m := range printfVerb.FindAllStringIndex(format, -1) {
		b.WriteString(braceEscaper.Replace(format[last:m[0]]))
		verb := format[m[0]:m[1]]
		last = m[1]

		if verb == "%%" {
			b.WriteByte('%')
			continue
		}
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(idx))
		if verb != "%v" {
			b.WriteByte(':')
			b.WriteString(verb)
		}
		b.WriteByte('}')
		idx++
	}
	b.WriteString(braceEscaper.Replace(format[last:]))

	if idx != len(args) {
		return "", false
	}
	return b.String(), true
}

// StructuredGnetAdapter keeps printf arguments as record arguments instead of
// pre-rendering them, so sinks render and sanitize each value themselves.
// Formats that cannot be mapped fall back to fmt.Sprintf.
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter that forwards arguments as template values
func NewStructuredGnetAdapter(logger *flog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

func (a *StructuredGnetAdapter) logf(level flog.Level, format string, args []any) {
	if a.extractFields {
		if tmpl, ok := toTemplate(format, args); ok {
			_ = a.logger.LogDepth(2, level, nil, tmpl, args...)
			return
		}
	}
	_ = a.logger.LogDepth(2, level, nil, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level with arguments kept as values
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.logf(flog.LevelDebug, format, args)
}

// Infof logs at info level with arguments kept as values
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.logf(flog.LevelInfo, format, args)
}

// Warnf logs at warn level with arguments kept as values
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.logf(flog.LevelWarn, format, args)
}

// Errorf logs at error level with arguments kept as values
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.logf(flog.LevelError, format, args)
}

// Fatalf logs at fatal level, flushes and triggers the fatal handler
func (a *StructuredGnetAdapter) Fatalf(format string, args ...any) {
	a.logf(flog.LevelFatal, format, args)
	a.fatal(fmt.Sprintf(format, args...))
}
