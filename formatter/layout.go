package formatter

import (
	"strings"
	"sync"
	"time"
)

var layoutCache sync.Map // pattern -> *DateLayout

// DateLayout is a compiled date pattern such as "yyyy-MM-dd HH:mm:ss.fff".
// Each field is rendered on its own, so quoted text ('T'), backslash escapes
// and characters that are not pattern letters reach the output unchanged even
// when they look like Go reference-time tokens.
type DateLayout struct {
	parts []layoutPart
}

type layoutPart struct {
	kind partKind
	text string // literal text or Go layout of a single field
}

type partKind uint8

const (
	partLiteral partKind = iota
	partField
	partFraction // digits only, separator lives in the preceding literal
	partTrimmedFraction
)

// Layout compiles a date pattern. Results are cached per pattern.
func Layout(pattern string) *DateLayout {
	if cached, ok := layoutCache.Load(pattern); ok {
		return cached.(*DateLayout)
	}
	l := compile(pattern)
	layoutCache.Store(pattern, l)
	return l
}

// FormatTime renders t with a date pattern
func FormatTime(t time.Time, pattern string) string {
	return Layout(pattern).Format(t)
}

// Format renders t
func (l *DateLayout) Format(t time.Time) string {
	var b strings.Builder
	for _, p := range l.parts {
		switch p.kind {
		case partLiteral:
			b.WriteString(p.text)
		case partField:
			b.WriteString(t.Format(p.text))
		case partFraction:
			b.WriteString(t.Format(p.text)[1:])
		case partTrimmedFraction:
			if s := t.Format(p.text); s != "" {
				b.WriteString(s[1:])
				continue
			}
			// No significant digits: drop the separator as well
			if out := b.String(); strings.HasSuffix(out, ".") || strings.HasSuffix(out, ",") {
				trimmed := out[:len(out)-1]
				b.Reset()
				b.WriteString(trimmed)
			}
		}
	}
	return b.String()
}

func compile(pattern string) *DateLayout {
	l := &DateLayout{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.parts = append(l.parts, layoutPart{kind: partLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' || c == '"' {
			end := strings.IndexByte(pattern[i+1:], c)
			if end < 0 {
				lit.WriteString(pattern[i+1:])
				break
			}
			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if c == '\\' && i+1 < len(pattern) {
			lit.WriteByte(pattern[i+1])
			i += 2
			continue
		}

		n := 1
		for i+n < len(pattern) && pattern[i+n] == c {
			n++
		}
		part, ok := token(c, n)
		if !ok {
			lit.WriteString(pattern[i : i+n])
		} else {
			flush()
			l.parts = append(l.parts, part)
		}
		i += n
	}
	flush()
	return l
}

func token(c byte, n int) (layoutPart, bool) {
	field := func(layout string) (layoutPart, bool) {
		return layoutPart{kind: partField, text: layout}, true
	}
	switch c {
	case 'y':
		if n <= 2 {
			return field("06")
		}
		return field("2006")
	case 'M':
		switch n {
		case 1:
			return field("1")
		case 2:
			return field("01")
		case 3:
			return field("Jan")
		}
		return field("January")
	case 'd':
		switch n {
		case 1:
			return field("2")
		case 2:
			return field("02")
		case 3:
			return field("Mon")
		}
		return field("Monday")
	case 'H':
		return field("15")
	case 'h':
		if n == 1 {
			return field("3")
		}
		return field("03")
	case 'm':
		if n == 1 {
			return field("4")
		}
		return field("04")
	case 's':
		if n == 1 {
			return field("5")
		}
		return field("05")
	case 'f':
		return layoutPart{kind: partFraction, text: "." + strings.Repeat("0", min(n, 9))}, true
	case 'F':
		return layoutPart{kind: partTrimmedFraction, text: "." + strings.Repeat("9", min(n, 9))}, true
	case 't':
		return field("PM")
	case 'z':
		if n < 3 {
			return field("-07")
		}
		return field("-07:00")
	case 'K':
		return field("Z07:00")
	}
	return layoutPart{}, false
}
