// Package normalize coerces loosely-typed provider fields into defaulted
// domain values. All functions are total: a missing, null, or uncoercible
// field yields the caller's default, never a panic or an error.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// maxDescriptionLen caps stored business summaries.
const maxDescriptionLen = 500

// Number extracts a float64 field from a provider bag. Yahoo wraps most
// numbers as {"raw": n, "fmt": "..."} objects; plain numbers and numeric
// strings are accepted too.
func Number(bag map[string]any, key string, def float64) float64 {
	v, ok := bag[key]
	if !ok || v == nil {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Int extracts an integer field, truncating fractional values.
func Int(bag map[string]any, key string, def int64) int64 {
	v, ok := bag[key]
	if !ok || v == nil {
		return def
	}
	if f, ok := toFloat(v); ok {
		return int64(f)
	}
	return def
}

// String extracts a non-empty string field.
func String(bag map[string]any, key string, def string) string {
	v, ok := bag[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", ""), 64)
		return f, err == nil
	case map[string]any:
		// Wrapped value: {"raw": 1234.5, "fmt": "1.23k"}
		raw, ok := value["raw"]
		if !ok {
			return 0, false
		}
		return toFloat(raw)
	default:
		return 0, false
	}
}

// Location joins the non-empty parts of a headquarters address with ", ".
// When every part is empty it returns "N/A", never an empty string.
func Location(city, state, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{city, state, country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

// Description picks the business summary from the bag, truncated with an
// ellipsis marker. Priority: longBusinessSummary, description, "N/A".
func Description(bag map[string]any) string {
	if desc := String(bag, "longBusinessSummary", ""); desc != "" {
		// Truncate on runes so multibyte text never ends mid-character.
		if runes := []rune(desc); len(runes) > maxDescriptionLen {
			return string(runes[:maxDescriptionLen]) + "..."
		}
		return desc
	}
	return String(bag, "description", "N/A")
}

// ParseMarketValue parses scraped market-value text like "2.5T", "$150.3B"
// or "45M" into an absolute amount. An unsuffixed numeric string parses
// literally. Any parse failure yields 0.
func ParseMarketValue(s string) float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	scale := 1.0
	switch s[len(s)-1] {
	case 'T':
		scale = 1e12
		s = s[:len(s)-1]
	case 'B':
		scale = 1e9
		s = s[:len(s)-1]
	case 'M':
		scale = 1e6
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value * scale
}
