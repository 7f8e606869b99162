// Package formatter renders log entries into text lines. Templates use brace
// placeholders: positional ({0}) for messages and named ({Timestamp:yyyyMMdd})
// for file name patterns.
package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/flog/sanitizer"
)

// Defaults for the text layout
const (
	DefaultTimestampFormat = "yyyy-MM-dd HH:mm:ss.fff"
	DefaultLineFormat      = "{0} - {1}"
)

// Formatter turns an entry header and a message template into one line of text.
// Setters are meant for construction; a configured Formatter is read-only and
// safe for concurrent use.
type Formatter struct {
	sanitizer  *sanitizer.Sanitizer
	pattern    string
	layout     *DateLayout
	lineFormat string
}

// New creates a formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:  san,
		pattern:    DefaultTimestampFormat,
		layout:     Layout(DefaultTimestampFormat),
		lineFormat: DefaultLineFormat,
	}
}

// TimestampFormat sets the header date pattern
func (f *Formatter) TimestampFormat(pattern string) *Formatter {
	if pattern != "" {
		f.pattern = pattern
		f.layout = Layout(pattern)
	}
	return f
}

// LineFormat sets how header ({0}) and message ({1}) are joined
func (f *Formatter) LineFormat(format string) *Formatter {
	if format != "" {
		f.lineFormat = format
	}
	return f
}

// Message renders a message template. A template without arguments is returned unchanged.
func (f *Formatter) Message(template string, args []any) (string, error) {
	msg := template
	if len(args) > 0 {
		var err error
		if msg, err = Expand(template, args); err != nil {
			return "", err
		}
	}
	return f.sanitizer.Sanitize(msg), nil
}

// Header renders "timestamp LEVEL source:method(line)"
func (f *Formatter) Header(ts time.Time, level, source, method string, line int) string {
	var b strings.Builder
	b.Grow(64 + len(source) + len(method))
	b.WriteString(f.layout.Format(ts))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(source)
	b.WriteByte(':')
	b.WriteString(method)
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(line))
	b.WriteByte(')')
	return b.String()
}

// Format renders a full log line
func (f *Formatter) Format(ts time.Time, level, source, method string, line int, template string, args []any) (string, error) {
	msg, err := f.Message(template, args)
	if err != nil {
		return "", err
	}
	return Expand(f.lineFormat, []any{f.Header(ts, level, source, method, line), msg})
}
