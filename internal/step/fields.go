package step

import (
	"fmt"
	"time"
)

// stringField extracts a required string field from resolved fields.
func stringField(f Fields, key string) (string, string) {
	v, present := f[key]
	if !present {
		return "", fmt.Sprintf("field %q is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Sprintf("field %q must be a string, got %T", key, v)
	}
	return s, ""
}

// optionalString extracts an optional string field.
// Returns ("", "") when absent.
func optionalString(f Fields, key string) (string, string) {
	v, present := f[key]
	if !present {
		return "", ""
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Sprintf("field %q must be a string, got %T", key, v)
	}
	return s, ""
}

// boolField extracts an optional bool field, defaulting to false.
func boolField(f Fields, key string) (bool, string) {
	v, present := f[key]
	if !present {
		return false, ""
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Sprintf("field %q must be a bool, got %T", key, v)
	}
	return b, ""
}

// asInt coerces numeric values to int64. YAML-parsed numbers arrive as
// int; resolvers may produce any Go numeric type.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// asMillis coerces a numeric millisecond count (or a time.Duration) into
// a duration.
func asMillis(v any) (time.Duration, bool) {
	if d, ok := v.(time.Duration); ok {
		return d, true
	}
	n, ok := asInt(v)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

// isNumeric reports whether a literal value would pass asMillis/asInt.
func isNumeric(v any) bool {
	if _, ok := v.(time.Duration); ok {
		return true
	}
	_, ok := asInt(v)
	return ok
}

// isResolvable reports whether a field value is resolved lazily and
// therefore cannot be type-checked at validation time.
func isResolvable(v any) bool {
	switch v.(type) {
	case Resolver, Ref:
		return true
	default:
		return false
	}
}
