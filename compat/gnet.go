package compat

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/flog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// fatalFlushTimeout bounds the flush before a fatal handler runs
const fatalFlushTimeout = 100 * time.Millisecond

// GnetAdapter wraps a flog.Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       *flog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *flog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// log writes an already formatted message; without arguments the template is not expanded
func (a *GnetAdapter) log(level flog.Level, msg string) {
	_ = a.logger.LogDepth(2, level, nil, msg)
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.log(flog.LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.log(flog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.log(flog.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.log(flog.LevelError, fmt.Sprintf(format, args...))
}

// Fatalf logs at fatal level, flushes and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.log(flog.LevelFatal, msg)
	a.fatal(msg)
}

func (a *GnetAdapter) fatal(msg string) {
	flushLogger(a.logger)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// flushLogger drains the logger's buffering sinks before the process goes down
func flushLogger(logger *flog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), fatalFlushTimeout)
	defer cancel()
	_ = logger.Flush(ctx)
}
