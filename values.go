package argdoc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

// Marker keys for values JSON cannot carry natively. They mirror the
// document schema and round-trip through every codec.
const (
	markerBytes    = "__bytes__"
	markerDuration = "__duration__"
	markerTime     = "__time__"
)

// normalizeValue converts a live Go value into its document form: nil,
// bools, int64/float64, strings, []any and map[string]any, with markers for
// []byte, time.Duration and time.Time. Values outside that set fail fast
// rather than guessing a serialization strategy.
func normalizeValue(value any) (any, error) {
	return normalize(value, map[uintptr]bool{})
}

func normalize(value any, seen map[uintptr]bool) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch typed := value.(type) {
	case bool, string:
		return typed, nil
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		if uint64(typed) > math.MaxInt64 {
			return nil, fmt.Errorf("argdoc: value %d overflows a document integer", typed)
		}
		return int64(typed), nil
	case uint8:
		return int64(typed), nil
	case uint16:
		return int64(typed), nil
	case uint32:
		return int64(typed), nil
	case uint64:
		if typed > math.MaxInt64 {
			return nil, fmt.Errorf("argdoc: value %d overflows a document integer", typed)
		}
		return int64(typed), nil
	case float32:
		return float64(typed), nil
	case float64:
		return typed, nil
	case json.Number:
		return normalizeNumber(typed), nil
	case []byte:
		return map[string]any{markerBytes: base64.StdEncoding.EncodeToString(typed)}, nil
	case time.Duration:
		return map[string]any{markerDuration: typed.String()}, nil
	case time.Time:
		return map[string]any{markerTime: typed.Format(time.RFC3339Nano)}, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			ptr := rv.Pointer()
			if seen[ptr] {
				return nil, fmt.Errorf("argdoc: circular reference in value")
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := normalize(rv.Index(i).Interface(), seen)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("argdoc: map keys must be strings, got %s", rv.Type().Key())
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			return nil, fmt.Errorf("argdoc: circular reference in value")
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := normalize(iter.Value().Interface(), seen)
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), seen)
	default:
		return nil, fmt.Errorf("argdoc: value of type %T is not representable in a document", value)
	}
}

func normalizeNumber(number json.Number) any {
	if i, err := number.Int64(); err == nil {
		return i
	}
	if f, err := number.Float64(); err == nil {
		return f
	}
	return number.String()
}

// denormalizeValue converts a document value back into its live form,
// resolving markers and collapsing json.Number into int64/float64.
func denormalizeValue(value any) any {
	switch typed := value.(type) {
	case json.Number:
		return normalizeNumber(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = denormalizeValue(item)
		}
		return out
	case map[string]any:
		if len(typed) == 1 {
			if encoded, ok := typed[markerBytes].(string); ok {
				if decoded, err := base64.StdEncoding.DecodeString(encoded); err == nil {
					return decoded
				}
			}
			if text, ok := typed[markerDuration].(string); ok {
				if d, err := time.ParseDuration(text); err == nil {
					return d
				}
			}
			if text, ok := typed[markerTime].(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
					return t
				}
			}
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = denormalizeValue(item)
		}
		return out
	default:
		return value
	}
}

// normalizeValues normalizes a slice element-wise; nil in, nil out.
func normalizeValues(values []any) ([]any, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]any, len(values))
	for i, value := range values {
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}

func denormalizeValues(values []any) []any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = denormalizeValue(value)
	}
	return out
}
