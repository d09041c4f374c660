package kv

import (
	"regexp"
	"time"
)

var reISOTime = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// Revive walks a decoded JSON value and replaces ISO-8601 timestamp strings
// with time.Time. Maps and slices are rewritten in place.
func Revive(v any) any {
	switch t := v.(type) {
	case string:
		if !reISOTime.MatchString(t) {
			return t
		}
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return t
		}
		return ts
	case map[string]any:
		for k, e := range t {
			t[k] = Revive(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = Revive(e)
		}
		return t
	default:
		return v
	}
}
