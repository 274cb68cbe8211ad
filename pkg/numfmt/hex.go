package numfmt

import "strings"

// FormatHex lowercases hex, makes sure it starts with "0x" and pads with
// trailing zeros or truncates so the result is exactly length characters
// long. The body is not checked for hex digits. Empty input yields "0x"; a
// non-positive length selects DefaultHexLength (a 32-byte word).
func FormatHex(hex string, length int) string {
	if hex == "" {
		return "0x"
	}
	if length <= 0 {
		length = DefaultHexLength
	}

	s := strings.ToLower(hex)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	r := []rune(s)
	switch {
	case len(r) < length:
		s += strings.Repeat("0", length-len(r))
	case len(r) > length:
		s = string(r[:length])
	}
	return s
}

// Hex is FormatHex at the configured length.
func (f *Formatter) Hex(hex string) string {
	return FormatHex(hex, f.opts.HexLength)
}
