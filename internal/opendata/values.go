package opendata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

var ErrFieldType = errors.New("unexpected field type")

func trimRaw(raw json.RawMessage) ([]byte, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return nil, false
	}
	return t, true
}

func jsonKind(t []byte) string {
	switch t[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

// decodeString returns ok=false for null. Numbers and booleans keep their
// literal JSON text.
func decodeString(raw json.RawMessage) (string, bool, error) {
	t, ok := trimRaw(raw)
	if !ok {
		return "", false, nil
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case '{', '[':
		return "", false, fmt.Errorf("%w: want string, got %s", ErrFieldType, jsonKind(t))
	default:
		return string(t), true, nil
	}
}

func decodeFloat(raw json.RawMessage) (float64, bool, error) {
	t, ok := trimRaw(raw)
	if !ok {
		return 0, false, nil
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return 0, false, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: want number, got string %q", ErrFieldType, s)
		}
		return f, true, nil
	case '{', '[', 't', 'f':
		return 0, false, fmt.Errorf("%w: want number, got %s", ErrFieldType, jsonKind(t))
	default:
		var f float64
		if err := json.Unmarshal(t, &f); err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrFieldType, err)
		}
		return f, true, nil
	}
}

func decodeInt(raw json.RawMessage) (int, bool, error) {
	f, ok, err := decodeFloat(raw)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, fmt.Errorf("%w: want integer, got %v", ErrFieldType, f)
	}
	return int(f), true, nil
}

// decodePoint accepts [lat, lon] arrays as well as "lat, lon" strings.
func decodePoint(raw json.RawMessage) (pq.Float64Array, bool, error) {
	t, ok := trimRaw(raw)
	if !ok {
		return nil, false, nil
	}
	switch t[0] {
	case '[':
		var p []float64
		if err := json.Unmarshal(t, &p); err != nil {
			return nil, false, fmt.Errorf("%w: want [lat, lon]: %v", ErrFieldType, err)
		}
		if len(p) != 2 {
			return nil, false, fmt.Errorf("%w: want [lat, lon], got %d values", ErrFieldType, len(p))
		}
		return pq.Float64Array(p), true, nil
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return nil, false, err
		}
		parts := strings.Split(s, ",")
		p := make(pq.Float64Array, 0, len(parts))
		for _, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, false, fmt.Errorf("%w: want \"lat, lon\", got %q", ErrFieldType, s)
			}
			p = append(p, f)
		}
		if len(p) != 2 {
			return nil, false, fmt.Errorf("%w: want \"lat, lon\", got %d values", ErrFieldType, len(p))
		}
		return p, true, nil
	default:
		return nil, false, fmt.Errorf("%w: want point, got %s", ErrFieldType, jsonKind(t))
	}
}
