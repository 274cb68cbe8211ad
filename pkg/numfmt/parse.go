package numfmt

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrUnparseable is returned by Parser.ParseString for text outside the
// accepted grammar.
var ErrUnparseable = errors.New("unparseable number")

var multipliers = map[byte]decimal.Decimal{
	'k': decimal.New(1, 3),
	'm': decimal.New(1, 6),
	'b': decimal.New(1, 9),
	't': decimal.New(1, 12),
}

// Parser turns shorthand amounts ("2.5k", "1,000", "3 M") into numbers.
type Parser struct {
	logger zerolog.Logger
}

// NewParser returns a Parser that reports unparseable input on logger.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseBigNumber parses input with the global zerolog logger as diagnostic
// sink. See Parser.Parse.
func ParseBigNumber(input any) float64 {
	return NewParser(log.Logger).Parse(input)
}

// Parse never fails. Numbers are returned unchanged, nil and empty input
// yield 0 silently, and anything the grammar rejects yields 0 with a
// warning.
func (p *Parser) Parse(input any) float64 {
	if isNil(input) {
		return 0
	}
	if f, ok := numericValue(input); ok {
		return f
	}

	var s string
	switch x := input.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	case fmt.Stringer:
		s = x.String()
	default:
		p.logger.Warn().
			Str("type", fmt.Sprintf("%T", input)).
			Msg("parseBigNumber: unsupported input, returning 0")
		return 0
	}
	if s == "" {
		return 0
	}

	v, err := p.ParseString(s)
	if err != nil {
		p.logger.Warn().Err(err).Str("input", s).Msg("parseBigNumber: could not parse, returning 0")
		return 0
	}
	return v
}

// ParseString is the strict form of Parse. The accepted grammar, after
// trimming, removing commas and lowercasing, is
//
//	numeral [space...] [k|m|b|t]
//
// where numeral is a run of digits with at most one decimal point.
func (p *Parser) ParseString(s string) (float64, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))

	numeral, suffix, err := splitSuffixed(norm)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrUnparseable, s, err)
	}

	d, err := decimal.NewFromString(numeral)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrUnparseable, s, err)
	}
	if m, ok := multipliers[suffix]; ok {
		d = d.Mul(m)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w %q: out of range", ErrUnparseable, s)
	}
	return f, nil
}

// splitSuffixed separates the numeral run from an optional trailing
// multiplier letter. The returned numeral always has a digit on both sides
// of its decimal point, if any.
func splitSuffixed(s string) (string, byte, error) {
	i, digits, dots := 0, 0, 0
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' {
			dots++
		} else {
			break
		}
	}
	switch {
	case digits == 0:
		return "", 0, errors.New("no digits")
	case dots > 1:
		return "", 0, errors.New("more than one decimal point")
	}

	numeral := s[:i]
	if strings.HasPrefix(numeral, ".") {
		numeral = "0" + numeral
	}
	numeral = strings.TrimSuffix(numeral, ".")

	rest := strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	if rest == "" {
		return numeral, 0, nil
	}
	if len(rest) == 1 {
		if _, ok := multipliers[rest[0]]; ok {
			return numeral, rest[0], nil
		}
	}
	return "", 0, fmt.Errorf("unexpected %q after numeral", rest)
}
