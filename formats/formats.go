// Package formats provides leaf types for common string formats.
package formats

import (
	"time"

	"github.com/google/uuid"

	"github.com/reoring/schematic"
)

// Type names registered by Register.
const (
	UUID     = "UUID"
	DateTime = "DateTime"
	Date     = "Date"
)

// Register adds the UUID, DateTime and Date leaf types to scope.
func Register(scope *schematic.Scope) error {
	for _, f := range []struct {
		name string
		fn   func(any) bool
	}{
		{UUID, IsUUID},
		{DateTime, IsDateTime},
		{Date, IsDate},
	} {
		if _, err := scope.Register(f.name, schematic.Schema{Validator: f.fn}); err != nil {
			return err
		}
	}
	return nil
}

// IsUUID reports whether v is a string in canonical 8-4-4-4-12 UUID form.
func IsUUID(v any) bool {
	s, ok := v.(string)
	if !ok || len(s) != 36 {
		return false
	}
	return uuid.Validate(s) == nil
}

// IsDateTime reports whether v is an RFC3339 timestamp string.
func IsDateTime(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := ParseDateTime(s)
	return err == nil
}

// IsDate reports whether v is a full-date string (YYYY-MM-DD).
func IsDate(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// ParseDateTime accepts RFC3339 with optional fractional seconds.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatDateTime renders t in UTC using RFC3339Nano (trailing zeros trimmed).
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
