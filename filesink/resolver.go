package filesink

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/lixenwraith/flog/formatter"
	"github.com/lixenwraith/flog/sanitizer"
)

// Variables are the named placeholder values available to file name patterns
type Variables struct {
	ProcessName string
	Timestamp   time.Time
	Extension   string
}

func (v Variables) asMap() map[string]any {
	return map[string]any{
		"ProcessName": v.ProcessName,
		"Timestamp":   v.Timestamp,
		"Extension":   v.Extension,
	}
}

// Target is a resolved directory and file name
type Target struct {
	Directory string
	Filename  string
}

// Path joins directory and file name
func (t Target) Path() string {
	return filepath.Join(t.Directory, t.Filename)
}

var (
	envVar          = regexp.MustCompile(`%([A-Za-z_]\w*)%|\$\{([A-Za-z_]\w*)\}|\$([A-Za-z_]\w*)`)
	filenameCleaner = sanitizer.New().Policy(sanitizer.PolicyFilename)
)

// expandEnv expands %VAR%, $VAR and ${VAR} in a single pass. Unset
// variables and any other '$' or '%' sequence are left as written.
func expandEnv(s string) string {
	return envVar.ReplaceAllStringFunc(s, func(m string) string {
		sub := envVar.FindStringSubmatch(m)
		name := sub[1] + sub[2] + sub[3]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
}

// Resolve expands environment variables and then named placeholders in both
// patterns. It never samples the clock; the timestamp comes from vars.
// sanitizeValues cleans values substituted into the file name only, so
// directory patterns may use placeholders to build nested paths.
func Resolve(filenamePattern, directoryPattern string, vars Variables, sanitizeValues bool) (Target, error) {
	var clean func(string) string
	if sanitizeValues {
		clean = filenameCleaner.Sanitize
	}
	values := vars.asMap()

	dir, err := formatter.ExpandNamed(expandEnv(directoryPattern), values, nil)
	if err != nil {
		return Target{}, fmtErrorf("directory pattern %q: %w", directoryPattern, err)
	}
	name, err := formatter.ExpandNamed(expandEnv(filenamePattern), values, clean)
	if err != nil {
		return Target{}, fmtErrorf("filename pattern %q: %w", filenamePattern, err)
	}
	if name == "" {
		return Target{}, fmtErrorf("filename pattern %q resolved to an empty name", filenamePattern)
	}

	return Target{Directory: filepath.Clean(dir), Filename: name}, nil
}
