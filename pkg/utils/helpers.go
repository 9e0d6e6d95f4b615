package utils

import (
	"strconv"
	"strings"
)

// ParseValue coerces a raw cell string into int, float64 or string.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ToFloat converts supported numeric types to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	default:
		return 0, false
	}
}

// IsNumeric reports whether v carries a numeric type.
func IsNumeric(v interface{}) bool {
	_, ok := ToFloat(v)
	return ok
}

// HumanizeColumn derives a business-friendly fallback label from a technical
// column name: separators become spaces, each word is title-cased.
// "cust_id" -> "Cust Id".
func HumanizeColumn(technical string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(technical)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
