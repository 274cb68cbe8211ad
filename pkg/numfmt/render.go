package numfmt

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Kind names one rendering of an input string.
type Kind string

const (
	KindParse    Kind = "parse"
	KindBig      Kind = "big"
	KindCompact  Kind = "compact"
	KindNumber   Kind = "number"
	KindCurrency Kind = "currency"
	KindCommas   Kind = "commas"
	KindHex      Kind = "hex"
	KindStatus   Kind = "status"
	KindEth      Kind = "eth"
	KindGwei     Kind = "gwei"
)

// Kinds lists every Kind in display order.
var Kinds = []Kind{
	KindParse, KindBig, KindCompact, KindNumber, KindCurrency,
	KindCommas, KindHex, KindStatus, KindEth, KindGwei,
}

var ErrUnknownKind = errors.New("unknown format kind")

// ParseKind resolves a case-insensitive kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Render applies one rendering to user input. Numeric kinds accept the
// shorthand grammar of Parser.ParseString with an optional leading minus,
// so "currency 1.2k" yields "$1,200.00" and "big -1.5m" yields "-1.5M". Unlike the Format* helpers, Render reports bad input as an
// error.
func Render(f *Formatter, p *Parser, kind Kind, input string) (string, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return "", err
	}
	switch kind {
	case KindHex:
		return f.Hex(strings.TrimSpace(input)), nil
	case KindStatus:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return "", fmt.Errorf("status %q: %w", input, err)
		}
		return FormatStatus(n), nil
	case KindEth, KindGwei:
		wei, ok := new(big.Int).SetString(strings.TrimSpace(input), 10)
		if !ok {
			return "", fmt.Errorf("%w %q: expected an integer wei amount", ErrUnparseable, input)
		}
		if kind == KindEth {
			return f.Eth(wei), nil
		}
		return FormatGasPrice(wei), nil
	}

	v, err := parseSigned(p, input)
	if err != nil {
		return "", err
	}
	switch kind {
	case KindParse:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case KindBig:
		return f.BigNumber(v), nil
	case KindCompact:
		return f.Compact(v), nil
	case KindNumber:
		return f.Number(v, f.opts.Decimals, f.opts.Grouping), nil
	case KindCurrency:
		return f.Currency(v), nil
	default: // KindCommas
		return f.WithCommas(v), nil
	}
}

func parseSigned(p *Parser, input string) (float64, error) {
	s := strings.TrimSpace(input)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	v, err := p.ParseString(s)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}
