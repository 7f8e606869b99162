package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/flog/sanitizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicky struct{}

func (panicky) String() string { panic("boom") }

type point struct {
	X, Y int
}

func TestExpand(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		out, err := Expand("{0} + {1} = {2}", []any{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, "1 + 2 = 3", out)
	})

	t.Run("repeated and reordered", func(t *testing.T) {
		out, err := Expand("{1}{0}{1}", []any{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, "bab", out)
	})

	t.Run("escaped braces", func(t *testing.T) {
		out, err := Expand("{{literal}} {0}", []any{"x"})
		require.NoError(t, err)
		assert.Equal(t, "{literal} x", out)
	})

	t.Run("fmt verb", func(t *testing.T) {
		out, err := Expand("{0:%05d}|{1:%.2f}", []any{42, 3.14159})
		require.NoError(t, err)
		assert.Equal(t, "00042|3.14", out)
	})

	t.Run("named placeholder left verbatim", func(t *testing.T) {
		out, err := Expand("user {name} id {0}", []any{7})
		require.NoError(t, err)
		assert.Equal(t, "user {name} id 7", out)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := Expand("{0} {3}", []any{1})
		assert.ErrorIs(t, err, ErrArgumentIndex)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := Expand("value {0", []any{1})
		assert.ErrorIs(t, err, ErrUnterminated)
	})

	t.Run("panicking stringer", func(t *testing.T) {
		_, err := Expand("{0}", []any{panicky{}})
		assert.Error(t, err)
	})
}

func TestExpandNamed(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	vars := map[string]any{
		"ProcessName": "svc",
		"Timestamp":   ts,
		"Extension":   ".log",
	}

	out, err := ExpandNamed("{ProcessName}-{Timestamp:yyyyMMdd}{Extension}", vars, nil)
	require.NoError(t, err)
	assert.Equal(t, "svc-20240309.log", out)

	out, err = ExpandNamed("{processname}_{Timestamp:HHmmss}_{Unknown}", vars, nil)
	require.NoError(t, err)
	assert.Equal(t, "svc_140507_{Unknown}", out)

	clean := sanitizer.New().Policy(sanitizer.PolicyFilename).Sanitize
	out, err = ExpandNamed("{ProcessName}", map[string]any{"ProcessName": "a/b"}, clean)
	require.NoError(t, err)
	assert.Equal(t, "a_b", out)
}

func TestLayout(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 123_000_000, time.UTC)

	testCases := []struct {
		pattern  string
		expected string
	}{
		{"yyyy-MM-dd HH:mm:ss.fff", "2024-01-02 15:04:05.123"},
		{"yyyyMMdd", "20240102"},
		{"yyMMdd-HHmmss", "240102-150405"},
		{"d MMM yyyy", "2 Jan 2024"},
		{"hh:mm tt", "03:04 PM"},
		{"yyyy'y'MM", "2024y01"},
		{"yyyyMMdd'-v1'", "20240102-v1"},
		{"yyyy-MM-dd_2", "2024-01-02_2"},
		{"'Mon' dd", "Mon 02"},
		{"HH\\hmm", "15h04"},
		{"ss,fff", "05,123"},
		{"ss.FFFFFF", "05.123"},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			assert.Equal(t, tc.expected, Layout(tc.pattern).Format(ts))
		})
	}
}

func TestLayoutTrimmedFraction(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "15:04:05", FormatTime(ts, "HH:mm:ss.FFF"))
	assert.Equal(t, "15:04:05.000", FormatTime(ts, "HH:mm:ss.fff"))
}

func TestRenderValue(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name     string
		value    any
		format   string
		expected string
	}{
		{"nil", nil, "", "<nil>"},
		{"string", "hi", "", "hi"},
		{"bytes", []byte("raw"), "", "raw"},
		{"bool", true, "", "true"},
		{"int", -12, "", "-12"},
		{"float", 1.5, "", "1.5"},
		{"time default", ts, "", "2024-01-02 03:04:05"},
		{"time pattern", ts, "yyyyMMdd", "20240102"},
		{"duration", 1500 * time.Millisecond, "", "1.5s"},
		{"error", errors.New("bad"), "", "bad"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := RenderValue(tc.value, tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}

	t.Run("composite", func(t *testing.T) {
		out, err := RenderValue(&point{X: 1, Y: 2}, "")
		require.NoError(t, err)
		assert.Contains(t, out, "X:1")
		assert.Contains(t, out, "Y:2")
	})
}

func TestFormatter(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default line", func(t *testing.T) {
		f := New()
		line, err := f.Format(ts, "Info", "m.Service", "Run", 42, "started {0}", []any{"ok"})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01 12:00:00.000 Info m.Service:Run(42) - started ok", line)
	})

	t.Run("fluent API", func(t *testing.T) {
		f := New(sanitizer.New().Policy(sanitizer.PolicyTxt)).
			TimestampFormat("HH:mm").
			LineFormat("[{0}] {1}")

		line, err := f.Format(ts, "Warn", "src", "fn", 1, "a\x00b", nil)
		require.NoError(t, err)
		assert.Equal(t, "[12:00 Warn src:fn(1)] a<00>b", line)
	})

	t.Run("template without args is verbatim", func(t *testing.T) {
		msg, err := New().Message("braces {0} stay", nil)
		require.NoError(t, err)
		assert.Equal(t, "braces {0} stay", msg)
	})

	t.Run("argument mismatch", func(t *testing.T) {
		_, err := New().Format(ts, "Info", "s", "m", 1, "{1}", []any{"only one"})
		assert.ErrorIs(t, err, ErrArgumentIndex)
	})
}
