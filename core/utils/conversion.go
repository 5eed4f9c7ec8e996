package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToInt converts loosely typed values, as found in decoded JSON, to an int.
// The second return value is false when val holds no usable number.
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint:
		return int(v), true
	case uint32:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Round(v)), true
	case float32:
		return ToInt(float64(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return ToInt(f)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ToInt(f)
		}
		return 0, false
	case []byte:
		return ToInt(string(v))
	default:
		return 0, false
	}
}

// ToScore returns a pointer to the integer held by val, or nil when val is
// empty, null or not a non-negative number.
func ToScore(val any) *int {
	i, ok := ToInt(val)
	if !ok || i < 0 {
		return nil
	}
	return &i
}

// ToString converts various types to a trimmed string. nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		if i, ok := ToInt(v); ok {
			return strconv.Itoa(i)
		}
		return ""
	}
}

// ToStrings converts a decoded JSON array, or a comma separated string, to
// a list of non-empty strings.
func ToStrings(val any) []string {
	var out []string
	switch v := val.(type) {
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s := ToString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		i, ok := ToInt(v)
		return ok && i == 1
	}
}
