package numfmt

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

var (
	etherDecimals = unitDecimals(params.Ether)
	gweiDecimals  = unitDecimals(params.GWei)
)

func unitDecimals(wei int64) int {
	return len(strconv.FormatInt(wei, 10)) - 1
}

// FormatUnits renders an integer amount scaled down by 10^decimals,
// exactly, with at least one fraction digit: (1500000, 6) -> "1.5",
// (10^18, 18) -> "1.0".
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0.0"
	}
	s := decimal.NewFromBigInt(v, int32(-decimals)).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatEth renders a wei amount in ether. nil and zero render as "0".
func FormatEth(wei *big.Int) string {
	return FormatTokenValue(wei, etherDecimals)
}

// Eth renders a wei amount in ether rounded to the configured
// TokenDecimals.
func (f *Formatter) Eth(wei *big.Int) string {
	if f.opts.TokenDecimals < 0 {
		return FormatEth(wei)
	}
	return FormatBigInt(wei, etherDecimals, f.opts.TokenDecimals)
}

// FormatTokenValue renders a raw token amount with the token's decimals.
// nil and zero render as "0".
func FormatTokenValue(v *big.Int, decimals int) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	return FormatUnits(v, decimals)
}

// FormatGasPrice renders a wei gas price in gwei: "30.0 Gwei".
func FormatGasPrice(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	return FormatUnits(wei, gweiDecimals) + " Gwei"
}

// FormatBigInt scales v down by 10^decimals and rounds to precision
// fraction digits.
func FormatBigInt(v *big.Int, decimals, precision int) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	if precision < 0 {
		precision = 0
	}
	return decimal.NewFromBigInt(v, int32(-decimals)).StringFixed(int32(precision))
}

// WeiToGwei converts a wei amount to a float gwei value for charts.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(wei, int32(-gweiDecimals)).Float64()
	return f
}
