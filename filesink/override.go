package filesink

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to cfg. Keys are toml names.
// cfg is only modified when every override parses and the result validates.
//
// Example:
//
//	err := filesink.ApplyOverride(cfg,
//	    "directory_pattern=/var/log/{ProcessName}",
//	    "write_interval_ms=250",
//	    "archive_compress=false",
//	)
func ApplyOverride(cfg *Config, overrides ...string) error {
	next := cfg.Clone()
	fields := fieldsByTag(next)

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(fields, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := next.validate(); err != nil {
		return err
	}
	*cfg = *next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("filesink: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "filesink: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField parses value according to the target field's kind
func applyConfigField(fields map[string]reflect.Value, key, value string) error {
	field, ok := fields[key]
	if !ok {
		return fmtErrorf("unknown config key in override: '%s'", key)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
		}
		field.SetInt(intVal)

	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		field.SetBool(boolVal)

	default:
		return fmtErrorf("unsupported field type for %s: %v", key, field.Kind())
	}
	return nil
}
