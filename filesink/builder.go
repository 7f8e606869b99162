package filesink

import (
	"time"

	"github.com/lixenwraith/flog"
)

// Builder provides a fluent API for building a FileSink.
// Errors are accumulated and reported by Build.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error
}

// NewBuilder creates a builder with default values
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the configuration and starts a new FileSink
func (b *Builder) Build() (*FileSink, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg, b.opts...)
}

// Config returns the accumulated configuration without starting a sink
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Level sets the minimum level
func (b *Builder) Level(level flog.Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the minimum level by name
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := flog.ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// ProcessName overrides the executable-derived process name
func (b *Builder) ProcessName(name string) *Builder {
	b.cfg.ProcessName = name
	return b
}

// Directory sets the directory pattern
func (b *Builder) Directory(pattern string) *Builder {
	b.cfg.DirectoryPattern = pattern
	return b
}

// Filename sets the filename pattern
func (b *Builder) Filename(pattern string) *Builder {
	b.cfg.FilenamePattern = pattern
	return b
}

// Extension sets the value of the {Extension} placeholder
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// WriteInterval sets the flush period
func (b *Builder) WriteInterval(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d < time.Millisecond {
		b.err = fmtErrorf("write interval must be at least 1ms: %v", d)
		return b
	}
	b.cfg.WriteIntervalMs = d.Milliseconds()
	return b
}

// MaxBufferBytes limits bytes staged per flush
func (b *Builder) MaxBufferBytes(n int64) *Builder {
	b.cfg.MaxBufferBytes = n
	return b
}

// Preformat formats records on the caller's goroutine
func (b *Builder) Preformat(enable bool) *Builder {
	b.cfg.Preformat = enable
	return b
}

// LineFormat sets how header ({0}) and message ({1}) are joined
func (b *Builder) LineFormat(format string) *Builder {
	b.cfg.LineFormat = format
	return b
}

// DateTimeFormat sets the header date pattern
func (b *Builder) DateTimeFormat(pattern string) *Builder {
	b.cfg.DateTimeFormat = pattern
	return b
}

// Archive sets the archive directory and filename patterns
func (b *Builder) Archive(directoryPattern, filenamePattern string) *Builder {
	b.cfg.ArchiveDirectoryPattern = directoryPattern
	b.cfg.ArchiveFilenamePattern = filenamePattern
	return b
}

// ArchiveExtension sets {Extension} when resolving archive paths
func (b *Builder) ArchiveExtension(ext string) *Builder {
	b.cfg.ArchiveExtension = ext
	return b
}

// Compress enables gzip archives
func (b *Builder) Compress(enable bool) *Builder {
	b.cfg.ArchiveCompress = enable
	return b
}

// CompressionLevel sets the gzip level
func (b *Builder) CompressionLevel(level int) *Builder {
	b.cfg.CompressionLevel = int64(level)
	return b
}

// ArchiveCount sets how many archives are retained
func (b *Builder) ArchiveCount(n int) *Builder {
	b.cfg.ArchiveCount = int64(n)
	return b
}

// Override applies "key=value" strings
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = ApplyOverride(b.cfg, overrides...)
	return b
}

// With appends sink options
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}
