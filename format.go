package flog

import (
	"sync/atomic"

	"github.com/lixenwraith/flog/formatter"
	"github.com/lixenwraith/flog/sanitizer"
)

// BaseSink implements the configuration, level and formatting parts of Sink.
// Concrete sinks embed it and add Write, WriteLine and WriteError.
// The zero value is usable with the default configuration.
type BaseSink struct {
	level atomic.Int64 // level+1, zero means unset
	state atomic.Pointer[baseState]
}

type baseState struct {
	cfg       *Config
	formatter *formatter.Formatter
}

func newBaseState(cfg *Config) *baseState {
	san := sanitizer.New()
	if cfg.SanitizeText {
		san = san.Policy(sanitizer.PolicyTxt)
	}
	return &baseState{
		cfg: cfg,
		formatter: formatter.New(san).
			TimestampFormat(cfg.DateTimeFormat).
			LineFormat(cfg.LineFormat),
	}
}

func (b *BaseSink) current() *baseState {
	if s := b.state.Load(); s != nil {
		return s
	}
	b.state.CompareAndSwap(nil, newBaseState(DefaultConfig()))
	return b.state.Load()
}

// Configure validates and applies cfg, including its level
func (b *BaseSink) Configure(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c := cfg.Clone()
	b.state.Store(newBaseState(c))
	b.SetLevel(c.Level)
	return nil
}

// Config returns a copy of the active configuration
func (b *BaseSink) Config() *Config {
	c := b.current().cfg.Clone()
	c.Level = b.Level()
	return c
}

// Level returns the minimum enabled level
func (b *BaseSink) Level() Level {
	v := b.level.Load()
	if v == 0 {
		return b.current().cfg.Level
	}
	return Level(v - 1)
}

// SetLevel changes the minimum enabled level
func (b *BaseSink) SetLevel(level Level) {
	b.level.Store(int64(level) + 1)
}

// IsLevelEnabled reports whether level passes the sink's threshold.
// A sink set to LevelNone is disabled, and LevelNone entries never pass.
func (b *BaseSink) IsLevelEnabled(level Level, _ *Source) bool {
	lvl := b.Level()
	return level != LevelNone && lvl != LevelNone && level >= lvl
}

// Format renders the entry header and the message according to the line format
func (b *BaseSink) Format(entry LogEntry, template string, args ...any) (string, error) {
	st := b.current()
	return st.formatter.Format(
		entry.Timestamp,
		entry.Level.String(),
		entry.SourceName(st.cfg.UseShortSource),
		entry.Method,
		entry.Line,
		template,
		args,
	)
}

// ReplacedWith does nothing by default
func (b *BaseSink) ReplacedWith(Sink) {}
