package compat

import (
	"strings"
	"testing"

	"github.com/lixenwraith/flog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCompatBuilder creates a builder over a registry that captures output in memory
func createTestCompatBuilder(t *testing.T) (*Builder, *flog.Registry, *flog.StringSink) {
	t.Helper()
	sink := flog.NewStringSink()
	sink.SetLevel(flog.LevelVerbose)

	reg := flog.NewRegistry(sink)
	t.Cleanup(func() { _ = reg.Close() })

	return NewBuilder().WithRegistry(reg), reg, sink
}

// outputLines splits captured output into lines
func outputLines(sink *flog.StringSink) []string {
	out := strings.TrimSuffix(sink.Output(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// assertLine checks level, source, calling method and message of one line
func assertLine(t *testing.T, line, level, source, method, msg string) {
	t.Helper()
	assert.Contains(t, line, " "+level+" "+source+":"+method+"(", line)
	assert.True(t, strings.HasSuffix(line, " - "+msg), "line %q should end with %q", line, msg)
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with registry", func(t *testing.T) {
		builder, reg, _ := createTestCompatBuilder(t)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Equal(t, SourceGnet, gnetAdapter.logger.Source().Name)

		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.Equal(t, SourceFastHTTP, fasthttpAdapter.logger.Source().Name)

		assert.Same(t, reg, builder.Registry())
	})

	t.Run("with logger", func(t *testing.T) {
		_, reg, _ := createTestCompatBuilder(t)
		logger := reg.Logger("app")

		builder := NewBuilder().WithLogger(logger)
		fiberAdapter, err := builder.BuildFiber()
		require.NoError(t, err)
		assert.Same(t, logger, fiberAdapter.logger)
		assert.Nil(t, builder.Registry())
	})

	t.Run("default registry", func(t *testing.T) {
		builder := NewBuilder()
		adapter, err := builder.BuildStructuredGnet()
		require.NoError(t, err)
		assert.NotNil(t, adapter)
		require.NotNil(t, builder.Registry())
		_ = builder.Registry().Close()
	})

	t.Run("nil arguments", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)

		_, err = NewBuilder().WithRegistry(nil).BuildFastHTTP()
		assert.Error(t, err)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	expected := []struct{ level, msg string }{
		{"Debug", "gnet debug id=1"},
		{"Info", "gnet info id=2"},
		{"Warn", "gnet warn id=3"},
		{"Error", "gnet error id=4"},
		{"Fatal", "gnet fatal id=5"},
	}

	lines := outputLines(sink)
	require.Len(t, lines, len(expected))
	for i, line := range lines {
		assertLine(t, line, expected[i].level, "gnet", "TestGnetAdapter", expected[i].msg)
	}
	assert.Equal(t, "gnet fatal id=5", fatalMsg)
}

func TestGnetAdapterBracesAreLiteral(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)
	adapter, err := builder.BuildGnet()
	require.NoError(t, err)

	adapter.Infof("payload %s", `{"id":1}`)

	lines := outputLines(sink)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], `payload {"id":1}`))
}

func TestToTemplate(t *testing.T) {
	tests := []struct {
		format string
		args   []any
		want   string
		ok     bool
	}{
		{"status=%d ip=%s", []any{200, "::1"}, "status={0:%d} ip={1:%s}", true},
		{"value %v", []any{1}, "value {0}", true},
		{"pad %05d done 100%%", []any{7}, "pad {0:%05d} done 100%", true},
		{"{raw} %.2f", []any{1.5}, "{{raw}} {0:%.2f}", true},
		{"no verbs", nil, "no verbs", true},
		{"%d %d", []any{1}, "", false},
		{"%[1]d", []any{1}, "", false},
		{"%*d", []any{3, 1}, "", false},
	}

	for _, tt := range tests {
		got, ok := toTemplate(tt.format, tt.args)
		assert.Equal(t, tt.ok, ok, tt.format)
		assert.Equal(t, tt.want, got, tt.format)
	}
}

func TestStructuredGnetAdapter(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	var fatalCalled bool
	adapter, err := builder.BuildStructuredGnet(WithFatalHandler(func(string) { fatalCalled = true }))
	require.NoError(t, err)

	adapter.Infof("request served status=%d client_ip=%s", 200, "127.0.0.1")
	adapter.Warnf("slow {handler} took %.1fms", 12.5)
	adapter.Errorf("indexed %[1]s", "fallback")
	adapter.Fatalf("stopping after %d errors", 3)

	lines := outputLines(sink)
	require.Len(t, lines, 4)
	assertLine(t, lines[0], "Info", "gnet", "TestStructuredGnetAdapter", "request served status=200 client_ip=127.0.0.1")
	assertLine(t, lines[1], "Warn", "gnet", "TestStructuredGnetAdapter", "slow {handler} took 12.5ms")
	assertLine(t, lines[2], "Error", "gnet", "TestStructuredGnetAdapter", "indexed fallback")
	assertLine(t, lines[3], "Fatal", "gnet", "TestStructuredGnetAdapter", "stopping after 3 errors")
	assert.True(t, fatalCalled)
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
		"trace of the request path",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}
	expectedLevels := []string{"Info", "Debug", "Warn", "Error", "Verbose"}

	lines := outputLines(sink)
	require.Len(t, lines, len(testMessages))
	for i, line := range lines {
		assertLine(t, line, expectedLevels[i], "fasthttp", "TestFastHTTPAdapter", testMessages[i])
	}
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(flog.LevelWarn),
		WithLevelDetector(func(msg string) flog.Level {
			if strings.HasPrefix(msg, "!") {
				return flog.LevelError
			}
			return flog.LevelNone
		}),
	)
	require.NoError(t, err)

	adapter.Printf("plain %d", 1)
	adapter.Printf("!urgent")

	lines := outputLines(sink)
	require.Len(t, lines, 2)
	assertLine(t, lines[0], "Warn", "fasthttp", "TestFastHTTPAdapterOptions", "plain 1")
	assertLine(t, lines[1], "Error", "fasthttp", "TestFastHTTPAdapterOptions", "!urgent")
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, flog.LevelError, DetectLogLevel("Request FAILED"))
	assert.Equal(t, flog.LevelWarn, DetectLogLevel("API deprecated"))
	assert.Equal(t, flog.LevelDebug, DetectLogLevel("debug: headers"))
	assert.Equal(t, flog.LevelNone, DetectLogLevel("served 200"))
}

func TestFiberAdapter(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	var fatalCalled, panicCalled bool
	adapter, err := builder.BuildFiber(
		WithFiberFatalHandler(func(string) { fatalCalled = true }),
		WithFiberPanicHandler(func(string) { panicCalled = true }),
	)
	require.NoError(t, err)

	adapter.Tracef("fiber trace id=%d", 1)
	adapter.Debugf("fiber debug id=%d", 2)
	adapter.Infof("fiber info id=%d", 3)
	adapter.Warnf("fiber warn id=%d", 4)
	adapter.Errorf("fiber error id=%d", 5)
	adapter.Fatalf("fiber fatal id=%d", 6)
	adapter.Panicf("fiber panic id=%d", 7)
	adapter.Info("fiber ", "plain")
	_, err = adapter.Write([]byte("raw output\n"))
	require.NoError(t, err)

	expected := []struct{ level, msg string }{
		{"Verbose", "fiber trace id=1"},
		{"Debug", "fiber debug id=2"},
		{"Info", "fiber info id=3"},
		{"Warn", "fiber warn id=4"},
		{"Error", "fiber error id=5"},
		{"Fatal", "fiber fatal id=6"},
		{"Fatal", "fiber panic id=7"},
		{"Info", "fiber plain"},
		{"Info", "raw output"},
	}

	lines := outputLines(sink)
	require.Len(t, lines, len(expected))
	for i, line := range lines {
		assertLine(t, line, expected[i].level, "fiber", "TestFiberAdapter", expected[i].msg)
	}
	assert.True(t, fatalCalled)
	assert.True(t, panicCalled)
}

func TestFiberAdapterStructuredLogging(t *testing.T) {
	builder, _, sink := createTestCompatBuilder(t)

	adapter, err := builder.BuildFiber(WithFiberPanicHandler(func(string) {}))
	require.NoError(t, err)

	adapter.Infow("request served", "status", 200, "client_ip", "127.0.0.1", "method", "GET")
	adapter.Debugw("query {executed}", "duration_ms", 42, "dangling")
	adapter.Panicw("giving up", "attempts", 3)

	lines := outputLines(sink)
	require.Len(t, lines, 3)
	assertLine(t, lines[0], "Info", "fiber", "TestFiberAdapterStructuredLogging",
		"request served status=200 client_ip=127.0.0.1 method=GET")
	assertLine(t, lines[1], "Debug", "fiber", "TestFiberAdapterStructuredLogging",
		"query {executed} duration_ms=42 dangling=<missing>")
	assertLine(t, lines[2], "Fatal", "fiber", "TestFiberAdapterStructuredLogging", "giving up attempts=3")
}
