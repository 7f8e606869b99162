package flog

import "github.com/lixenwraith/flog/formatter"

// Level orders log severities. LevelNone disables output.
type Level int

// Log level constants
const (
	LevelNone Level = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{
	LevelNone:    "None",
	LevelVerbose: "Verbose",
	LevelDebug:   "Debug",
	LevelInfo:    "Info",
	LevelWarn:    "Warn",
	LevelError:   "Error",
	LevelFatal:   "Fatal",
}

// String returns the level name used in log headers
func (l Level) String() string {
	if l < LevelNone || int(l) >= len(levelNames) {
		return "Level(" + itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// Formatting defaults shared by every sink
const (
	DefaultDateTimeFormat = formatter.DefaultTimestampFormat
	DefaultLineFormat     = formatter.DefaultLineFormat
	DefaultLevel          = LevelInfo
)
