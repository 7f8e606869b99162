package compat

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/flog"
)

// FiberAdapter wraps a flog.Logger to implement Fiber's AllLogger interface
// (Logger, FormatLogger and WithLogger) without importing Fiber itself.
// Trace maps to Verbose; Panic logs at Fatal before the panic handler runs.
type FiberAdapter struct {
	logger       *flog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
	panicHandler func(msg string) // Customizable panic behavior
}

// NewFiberAdapter creates a new Fiber-compatible logger adapter
func NewFiberAdapter(logger *flog.Logger, opts ...FiberOption) *FiberAdapter {
	adapter := &FiberAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior
		},
		panicHandler: func(msg string) {
			panic(msg) // Default behavior
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FiberOption allows customizing adapter behavior
type FiberOption func(*FiberAdapter)

// WithFiberFatalHandler sets a custom fatal handler
func WithFiberFatalHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.fatalHandler = handler
	}
}

// WithFiberPanicHandler sets a custom panic handler
func WithFiberPanicHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.panicHandler = handler
	}
}

// log writes a rendered message attributed to the adapter's caller
func (a *FiberAdapter) log(level flog.Level, msg string) {
	_ = a.logger.LogDepth(2, level, nil, msg)
}

// logw renders key-value pairs as "msg key={0} key2={1}" so values stay template arguments
func (a *FiberAdapter) logw(level flog.Level, msg string, keysAndValues []any) string {
	var b strings.Builder
	b.WriteString(braceEscaper.Replace(msg))

	values := make([]any, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		b.WriteString(braceEscaper.Replace(fmt.Sprint(keysAndValues[i])))
		b.WriteString("={")
		b.WriteString(strconv.Itoa(len(values)))
		b.WriteByte('}')
		if i+1 < len(keysAndValues) {
			values = append(values, keysAndValues[i+1])
		} else {
			values = append(values, "<missing>")
		}
	}

	_ = a.logger.LogDepth(2, level, nil, b.String(), values...)
	return msg
}

func (a *FiberAdapter) onFatal(msg string) {
	flushLogger(a.logger)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

func (a *FiberAdapter) onPanic(msg string) {
	flushLogger(a.logger)
	if a.panicHandler != nil {
		a.panicHandler(msg)
	}
}

// Trace logs at verbose level
func (a *FiberAdapter) Trace(v ...any) { a.log(flog.LevelVerbose, fmt.Sprint(v...)) }

// Debug logs at debug level
func (a *FiberAdapter) Debug(v ...any) { a.log(flog.LevelDebug, fmt.Sprint(v...)) }

// Info logs at info level
func (a *FiberAdapter) Info(v ...any) { a.log(flog.LevelInfo, fmt.Sprint(v...)) }

// Warn logs at warn level
func (a *FiberAdapter) Warn(v ...any) { a.log(flog.LevelWarn, fmt.Sprint(v...)) }

// Error logs at error level
func (a *FiberAdapter) Error(v ...any) { a.log(flog.LevelError, fmt.Sprint(v...)) }

// Fatal logs at fatal level and triggers the fatal handler
func (a *FiberAdapter) Fatal(v ...any) {
	msg := fmt.Sprint(v...)
	a.log(flog.LevelFatal, msg)
	a.onFatal(msg)
}

// Panic logs at fatal level and triggers the panic handler
func (a *FiberAdapter) Panic(v ...any) {
	msg := fmt.Sprint(v...)
	a.log(flog.LevelFatal, msg)
	a.onPanic(msg)
}

// Write implements io.Writer so the adapter can receive Fiber's raw output at info level
func (a *FiberAdapter) Write(p []byte) (n int, err error) {
	a.log(flog.LevelInfo, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Tracef logs at verbose level with printf-style formatting
func (a *FiberAdapter) Tracef(format string, v ...any) {
	a.log(flog.LevelVerbose, fmt.Sprintf(format, v...))
}

// Debugf logs at debug level with printf-style formatting
func (a *FiberAdapter) Debugf(format string, v ...any) {
	a.log(flog.LevelDebug, fmt.Sprintf(format, v...))
}

// Infof logs at info level with printf-style formatting
func (a *FiberAdapter) Infof(format string, v ...any) {
	a.log(flog.LevelInfo, fmt.Sprintf(format, v...))
}

// Warnf logs at warn level with printf-style formatting
func (a *FiberAdapter) Warnf(format string, v ...any) {
	a.log(flog.LevelWarn, fmt.Sprintf(format, v...))
}

// Errorf logs at error level with printf-style formatting
func (a *FiberAdapter) Errorf(format string, v ...any) {
	a.log(flog.LevelError, fmt.Sprintf(format, v...))
}

// Fatalf logs at fatal level and triggers the fatal handler
func (a *FiberAdapter) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.log(flog.LevelFatal, msg)
	a.onFatal(msg)
}

// Panicf logs at fatal level and triggers the panic handler
func (a *FiberAdapter) Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.log(flog.LevelFatal, msg)
	a.onPanic(msg)
}

// Tracew logs at verbose level with key-value pairs
func (a *FiberAdapter) Tracew(msg string, keysAndValues ...any) {
	a.logw(flog.LevelVerbose, msg, keysAndValues)
}

// Debugw logs at debug level with key-value pairs
func (a *FiberAdapter) Debugw(msg string, keysAndValues ...any) {
	a.logw(flog.LevelDebug, msg, keysAndValues)
}

// Infow logs at info level with key-value pairs
func (a *FiberAdapter) Infow(msg string, keysAndValues ...any) {
	a.logw(flog.LevelInfo, msg, keysAndValues)
}

// Warnw logs at warn level with key-value pairs
func (a *FiberAdapter) Warnw(msg string, keysAndValues ...any) {
	a.logw(flog.LevelWarn, msg, keysAndValues)
}

// Errorw logs at error level with key-value pairs
func (a *FiberAdapter) Errorw(msg string, keysAndValues ...any) {
	a.logw(flog.LevelError, msg, keysAndValues)
}

// Fatalw logs at fatal level with key-value pairs and triggers the fatal handler
func (a *FiberAdapter) Fatalw(msg string, keysAndValues ...any) {
	a.onFatal(a.logw(flog.LevelFatal, msg, keysAndValues))
}

// Panicw logs at fatal level with key-value pairs and triggers the panic handler
func (a *FiberAdapter) Panicw(msg string, keysAndValues ...any) {
	a.onPanic(a.logw(flog.LevelFatal, msg, keysAndValues))
}
