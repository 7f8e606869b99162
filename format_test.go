package flog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(level Level) LogEntry {
	return LogEntry{
		Timestamp: time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC),
		Level:     level,
		Source:    NewSource("github.com/acme/billing.Invoice"),
		Method:    "Charge",
		Line:      17,
	}
}

func TestBaseSinkDefaults(t *testing.T) {
	var b BaseSink
	assert.Equal(t, LevelInfo, b.Level())
	assert.True(t, b.IsLevelEnabled(LevelInfo, nil))
	assert.True(t, b.IsLevelEnabled(LevelFatal, nil))
	assert.False(t, b.IsLevelEnabled(LevelDebug, nil))
	assert.False(t, b.IsLevelEnabled(LevelNone, nil))

	line, err := b.Format(testEntry(LevelWarn), "charged {0}", 12.5)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06 07:08:09.010 Warn g.c.a.b.Invoice:Charge(17) - charged 12.5", line)
}

func TestBaseSinkConfigure(t *testing.T) {
	t.Run("applies settings", func(t *testing.T) {
		var b BaseSink
		cfg := DefaultConfig()
		cfg.Level = LevelVerbose
		cfg.UseShortSource = false
		cfg.DateTimeFormat = "HH:mm:ss"
		cfg.LineFormat = "{0} | {1}"
		require.NoError(t, b.Configure(cfg))

		assert.Equal(t, LevelVerbose, b.Level())
		line, err := b.Format(testEntry(LevelVerbose), "x")
		require.NoError(t, err)
		assert.Equal(t, "07:08:09 Verbose github.com/acme/billing.Invoice:Charge(17) | x", line)

		// The config is copied
		cfg.Level = LevelFatal
		assert.Equal(t, LevelVerbose, b.Level())
	})

	t.Run("level none disables everything", func(t *testing.T) {
		var b BaseSink
		b.SetLevel(LevelNone)
		assert.False(t, b.IsLevelEnabled(LevelFatal, nil))
		assert.False(t, b.IsLevelEnabled(LevelNone, nil))

		off, err := ParseLevel("off")
		require.NoError(t, err)
		cfg := DefaultConfig()
		cfg.Level = off
		require.NoError(t, b.Configure(cfg))
		for _, lvl := range []Level{LevelVerbose, LevelInfo, LevelFatal} {
			assert.False(t, b.IsLevelEnabled(lvl, nil), lvl.String())
		}
	})

	t.Run("rejects invalid", func(t *testing.T) {
		var b BaseSink
		assert.ErrorIs(t, b.Configure(nil), ErrNilConfig)

		cfg := DefaultConfig()
		cfg.LineFormat = "{0} only"
		assert.Error(t, b.Configure(cfg))

		cfg = DefaultConfig()
		cfg.DateTimeFormat = " "
		assert.Error(t, b.Configure(cfg))
	})

	t.Run("sanitizes text", func(t *testing.T) {
		var b BaseSink
		line, err := b.Format(testEntry(LevelInfo), "bad\x00byte")
		require.NoError(t, err)
		assert.Contains(t, line, "bad<00>byte")
	})
}
