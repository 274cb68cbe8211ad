package numfmt

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericValue converts native numeric kinds to float64. Strings are not
// handled here. NaN and Inf are returned as is.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case *big.Int:
		if x == nil {
			return 0, true
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	case *big.Float:
		if x == nil {
			return 0, true
		}
		f, _ := x.Float64()
		return f, true
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// toFloat validates v as a finite number. Numeric strings are accepted in
// strconv syntax after trimming; thousands separators and magnitude
// suffixes are not (see Parser for those).
func toFloat(v any) (float64, bool) {
	f, ok := numericValue(v)
	if !ok {
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case fmt.Stringer:
			s = x.String()
		default:
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *big.Int:
		return x == nil
	case *big.Float:
		return x == nil
	}
	return false
}

// plainText renders v without exponent notation, for digit grouping.
func plainText(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case *big.Float:
		if x == nil {
			return "0"
		}
		return x.Text('f', -1)
	}
	return fmt.Sprint(v)
}
