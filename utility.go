package flog

import (
	"errors"
	"fmt"
	"path"
	"runtime"
	"strconv"
	"strings"
)

// ErrNilConfig is returned when a sink is configured with a nil config
var ErrNilConfig = errors.New("flog: configuration cannot be nil")

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "flog: ") {
		format = "flog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// ParseLevel converts a level name to its constant
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "none", "off":
		return LevelNone, nil
	case "verbose", "trace":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelNone, fmtErrorf("invalid level string: '%s' (use none, verbose, debug, info, warn, error, fatal)", levelStr)
	}
}

// callSite describes the function that issued a log call
type callSite struct {
	pkg    string
	method string
	line   int
}

// caller returns the call site skip frames above its own caller
func caller(skip int) callSite {
	pc, _, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return callSite{method: "(unknown)"}
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return callSite{method: "(unknown)", line: line}
	}
	pkg, method := splitFuncName(fn.Name())
	return callSite{pkg: pkg, method: method, line: line}
}

// splitFuncName splits "github.com/a/b.(*T).Method.func1" into package
// "github.com/a/b" and method "Method"
func splitFuncName(full string) (pkg, method string) {
	dir, base := path.Split(full)
	parts := strings.Split(base, ".")
	pkg = dir + parts[0]

	method = parts[len(parts)-1]
	for i := len(parts) - 1; i > 0; i-- {
		p := parts[i]
		if isClosureName(p) {
			continue
		}
		method = strings.Trim(p, "(*)")
		break
	}
	return pkg, method
}

// isClosureName matches compiler generated names: func1, 2, gowrap1
func isClosureName(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "func"), "gowrap")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
