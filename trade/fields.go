package trade

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names accepted in a raw field mapping. These double as the
// persisted column names.
const (
	FieldDate       = "date"
	FieldSymbol     = "symbol"
	FieldStrategy   = "strategy"
	FieldEntryPrice = "entry_price"
	FieldExitPrice  = "exit_price"
	FieldQuantity   = "quantity"
	FieldNotes      = "notes"
)

// Fields is a raw, loosely typed field mapping as supplied by a form
// layer or an import row. Values may be strings or native numbers.
type Fields map[string]any

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge overlays other onto a copy of f and returns it.
func (f Fields) Merge(other Fields) Fields {
	out := f.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ParseFloat coerces a raw field value to a float64. Strings tolerate a
// leading currency symbol, thousands separators and accounting-style
// parentheses for negatives.
func ParseFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		s := CleanNumber(x)
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// ParseInt coerces a raw field value to an int64 using the same string
// tolerance as ParseFloat. Fractional values are rejected.
func ParseInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("not an integer: %v", x)
		}
		return int64(x), nil
	case string:
		s := CleanNumber(x)
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return n, nil
		}
		// Accept "10.0" style quantities from spreadsheets.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, err
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// ParseString coerces a raw field value to a string.
func ParseString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

// CleanNumber strips the decoration commonly found around numbers in
// exported spreadsheets: currency symbols, surrounding space, thousands
// separators and accounting parentheses. "1.234,56" style input with a
// comma decimal separator is normalized to a dot.
func CleanNumber(s string) string {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: dot groups, comma decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		// A lone comma is a decimal separator only when it is not
		// followed by exactly three digits (which reads as grouping).
		i := strings.LastIndex(s, ",")
		if strings.Count(s, ",") == 1 && len(s)-i-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	if neg && s != "" && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}
