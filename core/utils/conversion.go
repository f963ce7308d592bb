package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AsString converts a decoded JSON value to a string.
// Non-string scalars are formatted; nil yields "".
func AsString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsInt converts a decoded JSON value to an int.
// It accepts integer types, whole floats (encoding/json decodes numbers as
// float64), numeric strings, and json.Number. Fractional floats and
// non-numeric strings are rejected.
func AsInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		return int(v), nil
	case float32:
		return AsInt(float64(v))
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", v.String())
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", v)
		}
		return i, nil
	case []byte:
		return AsInt(string(v))
	case nil:
		return 0, fmt.Errorf("value is missing")
	default:
		return 0, fmt.Errorf("value of type %T is not an integer", val)
	}
}

// AsFloat converts a decoded JSON value to a float64.
// It accepts numeric types, json.Number, and numeric strings.
func AsFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("value is missing")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}
