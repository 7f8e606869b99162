package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/flog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a flog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *flog.Logger
	defaultLevel  flog.Level
	levelDetector func(string) flog.Level // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *flog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  flog.LevelInfo,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when the detector finds nothing
func WithDefaultLevel(level flog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content.
// Returning flog.LevelNone selects the default level.
func WithLevelDetector(detector func(string) flog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != flog.LevelNone {
			level = detected
		}
	}

	_ = a.logger.LogDepth(1, level, nil, msg)
}

// DetectLogLevel guesses a level from message keywords, or LevelNone when nothing matches
func DetectLogLevel(msg string) flog.Level {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return flog.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return flog.LevelWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") {
		return flog.LevelDebug
	}
	if strings.Contains(msgLower, "trace") {
		return flog.LevelVerbose
	}

	return flog.LevelNone
}
