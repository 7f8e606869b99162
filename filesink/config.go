package filesink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/lixenwraith/config"
	"github.com/lixenwraith/flog"
)

// Config holds all file sink configuration values
type Config struct {
	// Formatting
	Level          string `toml:"level"`
	DateTimeFormat string `toml:"datetime_format"`
	LineFormat     string `toml:"line_format"`
	UseShortSource bool   `toml:"use_short_source"`
	SanitizeText   bool   `toml:"sanitize_text"`

	// Buffering
	MaxBufferBytes  int64 `toml:"max_buffer_bytes"`  // Staged bytes per flush before deferring the rest
	WriteIntervalMs int64 `toml:"write_interval_ms"` // Flush loop period
	Preformat       bool  `toml:"preformat"`         // Format on the caller's goroutine

	// Target file
	ProcessName       string `toml:"process_name"` // Empty means the executable name
	Extension         string `toml:"extension"`
	FilenamePattern   string `toml:"filename_pattern"`
	DirectoryPattern  string `toml:"directory_pattern"`
	SanitizeFilenames bool   `toml:"sanitize_filenames"` // Replace path-reserved runes in placeholder values

	// Archival
	ArchiveFilenamePattern  string `toml:"archive_filename_pattern"`
	ArchiveDirectoryPattern string `toml:"archive_directory_pattern"`
	ArchiveExtension        string `toml:"archive_extension"`
	ArchiveCompress         bool   `toml:"archive_compress"`
	ArchiveCount            int64  `toml:"archive_count"`     // Archives kept, oldest deleted first
	CompressionLevel        int64  `toml:"compression_level"` // gzip level, -2 (huffman only) to 9
}

const (
	defaultFilenamePattern = "{ProcessName}-{Timestamp:yyyyMMdd}{Extension}"
	configPrefix           = "filelog."
)

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:          flog.DefaultLevel.String(),
	DateTimeFormat: flog.DefaultDateTimeFormat,
	LineFormat:     flog.DefaultLineFormat,
	UseShortSource: true,
	SanitizeText:   true,

	MaxBufferBytes:  512 * 1024,
	WriteIntervalMs: 500,
	Preformat:       false,

	ProcessName:       "",
	Extension:         ".log",
	FilenamePattern:   defaultFilenamePattern,
	DirectoryPattern:  defaultDirectoryPattern(),
	SanitizeFilenames: true,

	ArchiveFilenamePattern:  defaultFilenamePattern,
	ArchiveDirectoryPattern: defaultDirectoryPattern(),
	ArchiveExtension:        ".log.gz",
	ArchiveCompress:         true,
	ArchiveCount:            2,
	CompressionLevel:        gzip.DefaultCompression,
}

// defaultDirectoryPattern is the per-user local application data directory
func defaultDirectoryPattern() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "{ProcessName}")
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

// WriteInterval returns the flush period as a duration
func (c *Config) WriteInterval() time.Duration {
	return time.Duration(c.WriteIntervalMs) * time.Millisecond
}

// NewConfigFromFile loads the [filelog] section of a TOML file over the defaults
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// A missing file leaves the defaults in place
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies loader values into cfg by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// fieldsByTag maps toml tags to settable fields of cfg
func fieldsByTag(cfg *Config) map[string]reflect.Value {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fields[tag] = v.Field(i)
		}
	}
	return fields
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fields := fieldsByTag(cfg)

	for key, value := range overrides {
		fieldValue, exists := fields[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// base derives the formatting config shared with the other sinks
func (c *Config) base() (*flog.Config, error) {
	level, err := flog.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return &flog.Config{
		Level:          level,
		DateTimeFormat: c.DateTimeFormat,
		LineFormat:     c.LineFormat,
		UseShortSource: c.UseShortSource,
		SanitizeText:   c.SanitizeText,
	}, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	base, err := c.base()
	if err != nil {
		return fmtErrorf("invalid level: %w", err)
	}
	if err := base.Validate(); err != nil {
		return fmtErrorf("invalid formatting: %w", err)
	}

	if c.MaxBufferBytes <= 0 {
		return fmtErrorf("max_buffer_bytes must be positive: %d", c.MaxBufferBytes)
	}
	if c.WriteIntervalMs <= 0 {
		return fmtErrorf("write_interval_ms must be positive: %d", c.WriteIntervalMs)
	}

	for name, pattern := range map[string]string{
		"filename_pattern":          c.FilenamePattern,
		"directory_pattern":         c.DirectoryPattern,
		"archive_filename_pattern":  c.ArchiveFilenamePattern,
		"archive_directory_pattern": c.ArchiveDirectoryPattern,
	} {
		if strings.TrimSpace(pattern) == "" {
			return fmtErrorf("%s cannot be empty", name)
		}
	}

	if c.ArchiveCount < 0 {
		return fmtErrorf("archive_count cannot be negative: %d", c.ArchiveCount)
	}
	if c.CompressionLevel < gzip.HuffmanOnly || c.CompressionLevel > gzip.BestCompression {
		return fmtErrorf("compression_level must be between %d and %d: %d",
			gzip.HuffmanOnly, gzip.BestCompression, c.CompressionLevel)
	}

	// Patterns must resolve; catches unterminated placeholders before the first flush
	sample := Variables{ProcessName: c.ProcessName, Timestamp: time.Now(), Extension: c.Extension}
	if _, err := Resolve(c.FilenamePattern, c.DirectoryPattern, sample, c.SanitizeFilenames); err != nil {
		return fmtErrorf("invalid target pattern: %w", err)
	}
	sample.Extension = c.ArchiveExtension
	if _, err := Resolve(c.ArchiveFilenamePattern, c.ArchiveDirectoryPattern, sample, c.SanitizeFilenames); err != nil {
		return fmtErrorf("invalid archive pattern: %w", err)
	}

	return nil
}
