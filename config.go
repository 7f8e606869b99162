package flog

import "strings"

// Config holds formatting and filtering settings shared by all sinks
type Config struct {
	Level          Level
	DateTimeFormat string // Date pattern, e.g. "yyyy-MM-dd HH:mm:ss.fff"
	LineFormat     string // {0} is the header, {1} the message
	UseShortSource bool
	SanitizeText   bool // Hex-encode non-printable runes in messages
}

var defaultConfig = Config{
	Level:          DefaultLevel,
	DateTimeFormat: DefaultDateTimeFormat,
	LineFormat:     DefaultLineFormat,
	UseShortSource: true,
	SanitizeText:   true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.Level < LevelNone || c.Level > LevelFatal {
		return fmtErrorf("invalid level: %d", c.Level)
	}
	if strings.TrimSpace(c.DateTimeFormat) == "" {
		return fmtErrorf("datetime format cannot be empty")
	}
	if !strings.Contains(c.LineFormat, "{1}") {
		return fmtErrorf("line format must contain the message placeholder {1}: %q", c.LineFormat)
	}
	return nil
}
