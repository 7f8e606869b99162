package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sourcegraph/conc/panics"
)

// DefaultTimeLayout renders time.Time arguments that carry no explicit pattern
const DefaultTimeLayout = "2006-01-02 15:04:05"

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// RenderValue converts a single argument to text. format is either a date
// pattern (for time.Time) or a fmt verb starting with '%'. A panicking
// String or Error method is reported as an error.
func RenderValue(v any, format string) (out string, err error) {
	var pc panics.Catcher
	pc.Try(func() { out = render(v, format) })
	if r := pc.Recovered(); r != nil {
		return "", fmt.Errorf("formatter: rendering %T: %w", v, r.AsError())
	}
	return out, nil
}

func render(v any, format string) string {
	if strings.HasPrefix(format, "%") {
		return fmt.Sprintf(format, v)
	}

	switch val := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if format != "" {
			return FormatTime(val, format)
		}
		return val.Format(DefaultTimeLayout)
	case time.Duration:
		return val.String()
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	}

	// Composite values
	return dumper.Sprintf("%+v", v)
}
