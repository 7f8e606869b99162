package formatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnterminated is returned when a '{' has no matching '}'
	ErrUnterminated = errors.New("formatter: unterminated placeholder")
	// ErrArgumentIndex is returned when a positional placeholder has no matching argument
	ErrArgumentIndex = errors.New("formatter: placeholder index out of range")
)

// lookupFunc resolves a placeholder body. ok=false leaves the placeholder verbatim.
type lookupFunc func(key, format string) (value string, ok bool, err error)

// expand walks a brace template. "{{" and "}}" are literal braces.
func expand(tmpl string, lookup lookupFunc) (string, error) {
	if strings.IndexByte(tmpl, '{') < 0 && strings.IndexByte(tmpl, '}') < 0 {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl) + 16)

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w at offset %d", ErrUnterminated, i)
			}
			body := tmpl[i+1 : i+1+end]
			key, format, _ := strings.Cut(body, ":")
			val, ok, err := lookup(strings.TrimSpace(key), format)
			if err != nil {
				return "", err
			}
			if ok {
				b.WriteString(val)
			} else {
				b.WriteString(tmpl[i : i+end+2])
			}
			i += end + 2

		case '}':
			b.WriteByte('}')
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i += 2
			} else {
				i++
			}

		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// Expand substitutes positional placeholders ({0}, {1:%05d}) with args.
// Non-numeric placeholders are left verbatim.
func Expand(tmpl string, args []any) (string, error) {
	return expand(tmpl, func(key, format string) (string, bool, error) {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return "", false, nil
		}
		if idx < 0 || idx >= len(args) {
			return "", false, fmt.Errorf("%w: {%d} with %d argument(s)", ErrArgumentIndex, idx, len(args))
		}
		s, err := RenderValue(args[idx], format)
		return s, err == nil, err
	})
}

// ExpandNamed substitutes named placeholders ({ProcessName}, {Timestamp:yyyyMMdd}).
// Keys match case-insensitively; unknown keys are left verbatim. clean, when not
// nil, post-processes each substituted value.
func ExpandNamed(tmpl string, vars map[string]any, clean func(string) string) (string, error) {
	folded := make(map[string]any, len(vars))
	for k, v := range vars {
		folded[strings.ToLower(k)] = v
	}
	return expand(tmpl, func(key, format string) (string, bool, error) {
		v, found := folded[strings.ToLower(key)]
		if !found {
			return "", false, nil
		}
		s, err := RenderValue(v, format)
		if err != nil {
			return "", false, err
		}
		if clean != nil {
			s = clean(s)
		}
		return s, true, nil
	})
}
