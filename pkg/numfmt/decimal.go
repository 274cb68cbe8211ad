package numfmt

import (
	"fmt"
	"math"
	"strings"
)

// FormatNumber renders v with decimals fraction digits using the Default
// formatter.
func FormatNumber(v any, decimals int, withGrouping bool) string {
	return Default.Number(v, decimals, withGrouping)
}

// CurrencyFormat renders amount as USD using the Default formatter.
func CurrencyFormat(amount any) string {
	return Default.Currency(amount)
}

// FormatWithCommas renders v grouped with exactly two fraction digits using
// the Default formatter.
func FormatWithCommas(v any) string {
	return Default.WithCommas(v)
}

// Number renders v with decimals fraction digits, grouped when
// withGrouping is set. Values strictly between 0 and the small-value
// threshold use the small-value digit count instead, so 0.005 does not
// print as "0.00".
//
// nil renders as "0.00"; non-numeric input is returned as text.
func (f *Formatter) Number(v any, decimals int, withGrouping bool) string {
	if isNil(v) {
		return "0.00"
	}
	x, ok := toFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	if decimals < 0 {
		decimals = 0
	}
	if abs := math.Abs(x); abs > 0 && abs < f.opts.SmallThreshold {
		decimals = f.opts.SmallDecimals
	}
	if !withGrouping {
		return fixed(x, decimals)
	}
	return f.grouped(x, decimals)
}

// Currency renders amount with the currency symbol, grouping and the
// currency's standard fraction digits: 1234.5 -> "$1,234.50",
// -3 -> "-$3.00". nil renders as a zero amount; non-numeric input falls
// back to the symbol followed by the raw text.
func (f *Formatter) Currency(amount any) string {
	if isNil(amount) {
		return f.opts.CurrencySymbol + f.grouped(0, f.currencyScale)
	}
	x, ok := toFloat(amount)
	if !ok {
		return f.opts.CurrencySymbol + fmt.Sprint(amount)
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	return sign + f.opts.CurrencySymbol + f.grouped(x, f.currencyScale)
}

// WithCommas renders v grouped with exactly two fraction digits. nil is
// treated as zero; non-numeric input is returned as text.
func (f *Formatter) WithCommas(v any) string {
	if isNil(v) {
		return f.grouped(0, 2)
	}
	x, ok := toFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return f.grouped(x, 2)
}

// FormatAmount groups the integer digits of v's textual form without
// rounding: 1234567.891 -> "1,234,567.891". nil renders as "".
func FormatAmount(v any) string {
	if isNil(v) {
		return ""
	}
	return AddCommas(plainText(v))
}

// AddCommas inserts a comma between every three integer digits of s.
// Anything after the first '.' is left alone.
func AddCommas(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") || strings.HasPrefix(intPart, "+") {
		sign, intPart = intPart[:1], intPart[1:]
	}
	if len(intPart) <= 3 {
		return s
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
