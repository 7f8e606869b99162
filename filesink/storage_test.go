package filesink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/lixenwraith/flog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secondPattern = "{ProcessName}-{Timestamp:HHmmss}{Extension}"

func readGzip(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestAppendToFileCreatesDirectory(t *testing.T) {
	target := Target{Directory: filepath.Join(t.TempDir(), "a", "b"), Filename: "x.log"}

	require.NoError(t, appendToFile(target, []byte("one\n")))
	require.NoError(t, appendToFile(target, []byte("two\n")))

	data, err := os.ReadFile(target.Path())
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestCompressFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	dst := filepath.Join(dir, "app.log.gz")
	content := strings.Repeat("line of log text\n", 500)
	writeFile(t, src, content)

	require.NoError(t, compressFile(src, dst, gzip.BestSpeed))

	assert.NoFileExists(t, src)
	assert.NoFileExists(t, dst+".tmp")
	assert.Equal(t, content, readGzip(t, dst))
}

func TestCompressFileFailureKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	writeFile(t, src, "keep me\n")

	err := compressFile(src, filepath.Join(dir, "missing", "app.log.gz"), gzip.DefaultCompression)
	assert.Error(t, err)

	data, readErr := os.ReadFile(src)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me\n", string(data))
}

func TestArchiveFileCompressed(t *testing.T) {
	s, dir, _ := createTestSink(t, nil)
	cfg := s.config().Clone()
	cfg.ArchiveFilenamePattern = "{ProcessName}{Extension}"

	old := filepath.Join(dir, "test.log")
	writeFile(t, old, "first\nsecond\n")

	vars := Variables{ProcessName: "test", Timestamp: time.Now(), Extension: ".log"}
	archived, err := s.archiveFile(cfg, old, vars)
	require.NoError(t, err)
	assert.True(t, archived)

	archive := filepath.Join(dir, "test.log.gz")
	assert.NoFileExists(t, old)
	assert.Equal(t, "first\nsecond\n", readGzip(t, archive))
	assert.Equal(t, []string{archive}, s.ArchiveHistory())
}

func TestArchiveFilePlainMove(t *testing.T) {
	s, dir, _ := createTestSink(t, nil)
	cfg := s.config().Clone()
	cfg.ArchiveCompress = false
	cfg.ArchiveExtension = ".old"
	cfg.ArchiveFilenamePattern = "{ProcessName}{Extension}"
	cfg.ArchiveDirectoryPattern = filepath.Join(dir, "archive")

	old := filepath.Join(dir, "test.log")
	writeFile(t, old, "plain\n")

	archived, err := s.archiveFile(cfg, old, Variables{ProcessName: "test", Timestamp: time.Now()})
	require.NoError(t, err)
	assert.True(t, archived)

	data, err := os.ReadFile(filepath.Join(dir, "archive", "test.old"))
	require.NoError(t, err)
	assert.Equal(t, "plain\n", string(data))
	assert.NoFileExists(t, old)
}

func TestArchiveFileMissingSource(t *testing.T) {
	s, dir, _ := createTestSink(t, nil)

	archived, err := s.archiveFile(s.config(), filepath.Join(dir, "gone.log"), Variables{ProcessName: "test"})
	require.NoError(t, err)
	assert.False(t, archived)
	assert.Empty(t, s.ArchiveHistory())
}

func TestArchiveRetention(t *testing.T) {
	s, dir, _ := createTestSink(t, nil)
	cfg := s.config().Clone()
	cfg.ArchiveFilenamePattern = secondPattern
	cfg.ArchiveCount = 2

	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var archives []string
	for i := 0; i < 5; i++ {
		old := filepath.Join(dir, "test.log")
		writeFile(t, old, "generation\n")

		vars := Variables{ProcessName: "test", Timestamp: start.Add(time.Duration(i) * time.Second)}
		_, err := s.archiveFile(cfg, old, vars)
		require.NoError(t, err)
		archives = append(archives, filepath.Join(dir, fmt.Sprintf("test-12000%d.log.gz", i)))
	}

	assert.Equal(t, archives[3:], s.ArchiveHistory())
	for _, p := range archives[:3] {
		assert.NoFileExists(t, p)
	}
	for _, p := range archives[3:] {
		assert.FileExists(t, p)
	}
}

func TestArchiveRetentionSeededHistory(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.log.gz")
	writeFile(t, stale, "x")

	s, _, _ := createTestSink(t, func(c *Config) { c.ArchiveCount = 1 }, WithArchiveHistory([]string{stale}))
	assert.Equal(t, []string{stale}, s.ArchiveHistory())

	require.NoError(t, s.pruneArchives(0))
	assert.NoFileExists(t, stale)
	assert.Empty(t, s.ArchiveHistory())
}

func TestRotationArchivesPreviousFile(t *testing.T) {
	clock := newTestClock()
	s, dir, _ := createTestSink(t, func(c *Config) {
		c.FilenamePattern = secondPattern
		c.ArchiveFilenamePattern = secondPattern
	}, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.WriteLine(testEntry(flog.LevelInfo), "before {0}", i))
	}
	first := filepath.Join(dir, "test-120000.log")
	waitForLines(t, first, 5)

	target, ok := s.CurrentTarget()
	require.True(t, ok)
	assert.Equal(t, first, target.Path())

	clock.Advance(time.Second)
	require.NoError(t, s.WriteLine(testEntry(flog.LevelInfo), "after"))

	second := filepath.Join(dir, "test-120001.log")
	archive := filepath.Join(dir, "test-120000.log.gz")
	require.Eventually(t, func() bool {
		_, err := os.Stat(archive)
		return err == nil && len(readLines(t, second)) == 1
	}, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())

	assert.NoFileExists(t, first)
	assert.Equal(t, 5, strings.Count(readGzip(t, archive), "\n"))
	assert.Equal(t, []string{archive}, s.ArchiveHistory())

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.ArchivesCompleted)
	assert.Zero(t, stats.ArchivesFailed)
	assert.Zero(t, stats.ArchivesInFlight)
}

func TestRotationPlainMove(t *testing.T) {
	clock := newTestClock()
	s, dir, _ := createTestSink(t, func(c *Config) {
		c.FilenamePattern = secondPattern
		c.ArchiveFilenamePattern = secondPattern
		c.ArchiveCompress = false
		c.ArchiveExtension = ".old"
	}, WithClock(clock.Now))

	require.NoError(t, s.WriteLine(testEntry(flog.LevelInfo), "first file"))
	first := filepath.Join(dir, "test-120000.log")
	waitForLines(t, first, 1)
	before, err := os.ReadFile(first)
	require.NoError(t, err)

	clock.Advance(time.Second)
	require.NoError(t, s.WriteLine(testEntry(flog.LevelInfo), "second file"))
	require.NoError(t, s.Close())

	moved, err := os.ReadFile(filepath.Join(dir, "test-120000.old"))
	require.NoError(t, err)
	assert.Equal(t, before, moved)
	assert.NoFileExists(t, first)
	assert.Len(t, readLines(t, filepath.Join(dir, "test-120001.log")), 1)
}
