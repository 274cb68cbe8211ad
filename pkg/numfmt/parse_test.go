package numfmt

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBigNumber(t *testing.T) {
	tests := []struct {
		input    any
		expected float64
	}{
		{"2.5k", 2500},
		{"2.5K", 2500},
		{"1,000", 1000},
		{"1,234,567", 1234567},
		{" 3 m ", 3e6},
		{"1.2b", 1200000000},
		{"1.2B", 1200000000},
		{"4t", 4e12},
		{".5k", 500},
		{"5.", 5},
		{"0", 0},
		{"abc", 0},
		{"", 0},
		{"   ", 0},
		{"1kk", 0},
		{"5x", 0},
		{"-5", 0},
		{"1.2.3", 0},
		{"1, 000", 0},
		{".", 0},
		{"k", 0},
		{42, 42},
		{int64(-7), -7},
		{3.25, 3.25},
		{nil, 0},
		{big.NewInt(7), 7},
		{(*big.Int)(nil), 0},
		{[]byte("2k"), 2000},
		{struct{}{}, 0},
	}

	for _, tt := range tests {
		result := ParseBigNumber(tt.input)
		if result != tt.expected {
			t.Errorf("ParseBigNumber(%#v) = %v; want %v", tt.input, result, tt.expected)
		}
	}
}

func TestParseBigNumber_NumbersPassThrough(t *testing.T) {
	assert.True(t, math.IsNaN(ParseBigNumber(math.NaN())))
	assert.True(t, math.IsInf(ParseBigNumber(math.Inf(-1)), -1))
}

func TestParseBigNumber_SuffixMultiplies(t *testing.T) {
	numerals := []struct {
		text  string
		value float64
	}{
		{"0", 0},
		{"1", 1},
		{"2.5", 2.5},
		{"123.456", 123.456},
		{"0.001", 0.001},
		{"999", 999},
	}
	suffixes := []struct {
		letter string
		mult   float64
	}{
		{"", 1},
		{"k", 1e3},
		{"m", 1e6},
		{"b", 1e9},
		{"t", 1e12},
	}

	for _, n := range numerals {
		for _, s := range suffixes {
			got := ParseBigNumber(n.text + s.letter)
			assert.InDelta(t, n.value*s.mult, got, 1e-6*math.Max(1, n.value*s.mult), "input %q", n.text+s.letter)
		}
	}
}

func TestParser_LogsUnparseableInput(t *testing.T) {
	var buf bytes.Buffer
	p := NewParser(zerolog.New(&buf))

	assert.Equal(t, 0.0, p.Parse("12abc"))
	assert.Contains(t, buf.String(), "parseBigNumber")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "12abc")

	buf.Reset()
	assert.Equal(t, 0.0, p.Parse(""))
	assert.Equal(t, 0.0, p.Parse(nil))
	assert.Empty(t, buf.String(), "empty input must not be logged")

	assert.Equal(t, 0.0, p.Parse(map[string]int{}))
	assert.Contains(t, buf.String(), "unsupported input")
}

func TestParser_ParseString(t *testing.T) {
	p := NewParser(zerolog.Nop())

	v, err := p.ParseString("7.5 M")
	require.NoError(t, err)
	assert.Equal(t, 7500000.0, v)

	for _, bad := range []string{"", "abc", "1..2", "2kb", "2q", "+3", "1e3"} {
		_, err := p.ParseString(bad)
		assert.True(t, errors.Is(err, ErrUnparseable), "ParseString(%q) err = %v", bad, err)
	}
}

func TestParser_OutOfRange(t *testing.T) {
	var buf bytes.Buffer
	p := NewParser(zerolog.New(&buf))
	huge := strings.Repeat("9", 400)

	_, err := p.ParseString(huge)
	assert.True(t, errors.Is(err, ErrUnparseable))
	assert.Contains(t, err.Error(), "out of range")

	_, err = p.ParseString("1" + strings.Repeat("0", 300) + "t")
	assert.True(t, errors.Is(err, ErrUnparseable))

	assert.Equal(t, 0.0, p.Parse(huge))
	assert.Contains(t, buf.String(), "could not parse")
	assert.Equal(t, 0.0, ParseBigNumber(huge))
}

func TestSplitSuffixed(t *testing.T) {
	tests := []struct {
		input   string
		numeral string
		suffix  byte
		wantErr bool
	}{
		{"12", "12", 0, false},
		{"12k", "12", 'k', false},
		{"12 \tb", "12", 'b', false},
		{".25", "0.25", 0, false},
		{"25.", "25", 0, false},
		{"12kb", "", 0, true},
		{"12 z", "", 0, true},
		{"1.2.3", "", 0, true},
		{"m", "", 0, true},
	}

	for _, tt := range tests {
		numeral, suffix, err := splitSuffixed(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "splitSuffixed(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "splitSuffixed(%q)", tt.input)
		assert.Equal(t, tt.numeral, numeral)
		assert.Equal(t, tt.suffix, suffix)
	}
}
