// Package numfmt renders blockchain-related numbers for display and parses
// human-entered shorthand amounts such as "2.5k" or "1.2B".
//
// Every formatting function degrades to a fixed fallback string instead of
// returning an error, so it is safe to call from a render path.
package numfmt

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultDecimals           = 2
	DefaultSmallDecimals      = 4
	DefaultSmallThreshold     = 0.01
	DefaultMagnitudePrecision = 1
	DefaultHexLength          = 66
)

// Options holds the locale configuration of a Formatter.
type Options struct {
	Locale   language.Tag
	Currency currency.Unit
	// CurrencySymbol prefixes currency amounts. Empty selects the locale's
	// symbol for Currency.
	CurrencySymbol string

	// Decimals is the fraction digit count used by Render for plain numbers.
	Decimals int
	// Grouping toggles thousands separators for plain numbers in Render.
	Grouping bool

	// Values with 0 < |v| < SmallThreshold are rendered with SmallDecimals
	// fraction digits so they do not collapse to zero.
	SmallThreshold float64
	SmallDecimals  int

	MagnitudePrecision int
	HexLength          int

	// TokenDecimals is the fraction digit count for ether amounts. A
	// negative value keeps every significant digit.
	TokenDecimals int
}

// DefaultOptions returns the en-US / USD configuration.
func DefaultOptions() Options {
	return Options{
		Locale:             language.AmericanEnglish,
		Currency:           currency.USD,
		CurrencySymbol:     "$",
		Decimals:           DefaultDecimals,
		Grouping:           true,
		SmallThreshold:     DefaultSmallThreshold,
		SmallDecimals:      DefaultSmallDecimals,
		MagnitudePrecision: DefaultMagnitudePrecision,
		HexLength:          DefaultHexLength,
		TokenDecimals:      -1,
	}
}

// Formatter renders numbers for one locale. It is immutable after New and
// safe for concurrent use.
type Formatter struct {
	opts          Options
	printer       *message.Printer
	currencyScale int
}

// Default is the en-US formatter used by the package-level helpers.
var Default = New(DefaultOptions())

// New builds a Formatter. The currency's standard fraction digits are
// resolved once here.
func New(opts Options) *Formatter {
	if opts.HexLength <= 0 {
		opts.HexLength = DefaultHexLength
	}
	if opts.MagnitudePrecision < 0 {
		opts.MagnitudePrecision = DefaultMagnitudePrecision
	}
	if opts.Decimals < 0 {
		opts.Decimals = DefaultDecimals
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = CurrencySymbol(opts.Locale, opts.Currency)
	}
	scale, _ := currency.Standard.Rounding(opts.Currency)
	return &Formatter{
		opts:          opts,
		printer:       message.NewPrinter(opts.Locale),
		currencyScale: scale,
	}
}

// CurrencySymbol returns the symbol tag uses for unit: "€" for EUR in
// English.
func CurrencySymbol(tag language.Tag, unit currency.Unit) string {
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit))
}

// Options returns the configuration the formatter was built with.
func (f *Formatter) Options() Options {
	return f.opts
}

// grouped renders x with the locale's separators and exactly places
// fraction digits. Rounding is done beforehand so the printer never has to
// break a tie itself.
func (f *Formatter) grouped(x float64, places int) string {
	rounded, _ := decimal.NewFromFloat(x).Round(int32(places)).Float64()
	return f.printer.Sprintf("%v", number.Decimal(rounded,
		number.MinFractionDigits(places),
		number.MaxFractionDigits(places),
	))
}

// fixed renders x with exactly places fraction digits and no grouping,
// rounding half away from zero.
func fixed(x float64, places int) string {
	return decimal.NewFromFloat(x).StringFixed(int32(places))
}
