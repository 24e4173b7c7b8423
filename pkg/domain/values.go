package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// StringValue returns the string stored under key.
func (d RecordData) StringValue(key string) (string, bool) {
	s, ok := d.Values[key].(string)
	return s, ok
}

// BoolValue returns the bool stored under key.
func (d RecordData) BoolValue(key string) (bool, bool) {
	b, ok := d.Values[key].(bool)
	return b, ok
}

// FloatValue returns the number stored under key as float64, whatever numeric type
// the codec decoded it into.
func (d RecordData) FloatValue(key string) (float64, bool) {
	v, ok := d.Values[key]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// IntValue returns the number stored under key as int64. Floats are accepted only
// when they carry no fractional part.
func (d RecordData) IntValue(key string) (int64, bool) {
	v, ok := d.Values[key]
	if !ok {
		return 0, false
	}
	return ToInt(v)
}

// SliceValue returns the list stored under key.
func (d RecordData) SliceValue(key string) ([]any, bool) {
	v, ok := d.Values[key]
	if !ok {
		return nil, false
	}
	return ToSlice(v)
}

// MapValue returns the object stored under key with string keys.
func (d RecordData) MapValue(key string) (map[string]any, bool) {
	v, ok := d.Values[key]
	if !ok {
		return nil, false
	}
	return ToMap(v)
}

// ToFloat converts any decoded numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt converts any decoded numeric value to int64.
func ToInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// ToSlice accepts []any and typed string slices.
func ToSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// ToMap accepts map[string]any and the map[any]any form some binary codecs
// decode objects into.
func ToMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}
		return cloneMap(typed)
	case map[any]any:
		if typed == nil {
			return typed
		}
		out := make(map[any]any, len(typed))
		for k, val := range typed {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		if typed == nil {
			return typed
		}
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	default:
		return v
	}
}
