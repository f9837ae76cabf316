package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// pickPrice tries an ordered list of candidate field names on a decoded JSON
// object and returns the first one that parses to a positive finite number.
// Providers are not schema-stable across revisions, so every spot adapter
// declares its field list explicitly instead of probing ad hoc.
func pickPrice(obj map[string]json.RawMessage, fields []string) (float64, bool) {
	for _, field := range fields {
		raw, ok := obj[field]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if n := asFloat(v); n > 0 && !math.IsInf(n, 0) {
			return n, true
		}
	}
	return 0, false
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseFloatString(n)
	default:
		return 0
	}
}

func parseFloatString(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}
