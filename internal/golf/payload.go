package golf

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload is a decoded raw OCR blob. Accessors tolerate the numeric types a
// payload can carry before and after a JSON round trip.
type Payload map[string]any

// PayloadFrom converts any JSON-marshalable value, typically an *ocr.Result,
// into a Payload.
func PayloadFrom(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Lookup walks nested objects by key.
func (p Payload) Lookup(keys ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, k := range keys {
		m, ok := AsObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func (p Payload) Object(keys ...string) (map[string]any, bool) {
	v, ok := p.Lookup(keys...)
	if !ok {
		return nil, false
	}
	return AsObject(v)
}

func (p Payload) Number(keys ...string) (float64, bool) {
	v, ok := p.Lookup(keys...)
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

func AsObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	}
	return nil, false
}

func AsNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func AsInt(v any) (int, bool) {
	f, ok := AsNumber(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

func AsString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// AsIntSlice converts a JSON array of numbers. Unreadable cells become 0.
func AsIntSlice(v any) ([]int, bool) {
	arr, ok := v.([]any)
	if !ok {
		if ints, ok := v.([]int); ok && len(ints) > 0 {
			return ints, true
		}
		return nil, false
	}
	if len(arr) == 0 {
		return nil, false
	}
	out := make([]int, len(arr))
	for i, item := range arr {
		if n, ok := AsInt(item); ok {
			out[i] = n
		}
	}
	return out, true
}

func AsArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok && len(arr) > 0
}
