package numfmt

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/number"
)

type tier struct {
	divisor float64
	suffix  string
}

// Checked largest first; the first divisor the value reaches wins.
var magnitudeTiers = []tier{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "k"},
}

var compactTiers = []tier{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

var thousand = decimal.NewFromInt(1000)

// FormatBigNumber abbreviates v with a k/M/B/T suffix and precision
// fraction digits: 1500 -> "1.5k", -1200 -> "-1.2k", 999 -> "999.0".
// NaN and infinities render as "0".
func FormatBigNumber(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if precision < 0 {
		precision = 0
	}
	sign := ""
	if math.Signbit(v) {
		sign = "-"
	}
	abs := math.Abs(v)
	for _, t := range magnitudeTiers {
		if abs >= t.divisor {
			return sign + fixed(abs/t.divisor, precision) + t.suffix
		}
	}
	return sign + fixed(abs, precision)
}

// BigNumber is FormatBigNumber at the configured precision.
func (f *Formatter) BigNumber(v float64) string {
	return FormatBigNumber(v, f.opts.MagnitudePrecision)
}

// FormatCompact renders v in short compact notation with the Default
// formatter.
func FormatCompact(v any) string {
	return Default.Compact(v)
}

// Compact renders v in short compact notation ("1.2K", "12K", "3.4M").
// Non-numeric input is returned as text unchanged.
func (f *Formatter) Compact(v any) string {
	x, ok := toFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	idx := len(compactTiers)
	for i, t := range compactTiers {
		if x >= t.divisor {
			idx = i
			break
		}
	}
	d, places := compactScaled(x, idx)
	// 999_999 rounds to 1000K; carry into the next tier.
	if idx > 0 && d.GreaterThanOrEqual(thousand) {
		idx--
		d, places = compactScaled(x, idx)
	}

	suffix := ""
	if idx < len(compactTiers) {
		suffix = compactTiers[idx].suffix
	}
	rounded, _ := d.Float64()
	return sign + f.printer.Sprintf("%v", number.Decimal(rounded, number.MaxFractionDigits(places))) + suffix
}

// compactScaled divides x by the tier at idx and keeps two significant
// digits below 10, whole numbers above.
func compactScaled(x float64, idx int) (decimal.Decimal, int) {
	s := x
	if idx < len(compactTiers) {
		s = x / compactTiers[idx].divisor
	}
	places := 0
	switch {
	case s == 0 || s >= 10:
	case s >= 1:
		places = 1
	default:
		places = 1 - int(math.Floor(math.Log10(s)))
	}
	return decimal.NewFromFloat(s).Round(int32(places)), places
}
