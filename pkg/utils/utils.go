package utils

import (
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
)

// DateLayout mirrors the en-US locale date string.
const DateLayout = "1/2/2006, 3:04:05 PM"

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

// FormatAddress keeps the first start and last end characters of addr:
// "0x1234...abcd". Addresses that already fit are returned unchanged.
func FormatAddress(addr string, start, end int) string {
	if addr == "" {
		return ""
	}
	if start < 0 || end < 0 || len(addr) <= start+end {
		return addr
	}
	return addr[:start] + "..." + addr[len(addr)-end:]
}

// FormatDate renders a unix timestamp in loc, or the local zone when loc
// is nil.
func FormatDate(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(unix, 0).In(loc).Format(DateLayout)
}

// EscapeMarkdownV2 escapes the characters Telegram MarkdownV2 rejects in
// alert text and drops emoji, which break its parser.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case isEmoji(r):
			continue
		case strings.ContainsRune(`.[]()\`, r):
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r == '\u200d', r == '\ufe0f':
		return true
	case r >= 0x1f000 && r <= 0x1faff:
		return true
	case r >= 0x2600 && r <= 0x27bf:
		return true
	}
	return unicode.Is(unicode.So, r) && r > 0x2000
}

// PercentChange is the change from base to current in percent. A zero base
// yields ±Inf or NaN.
func PercentChange(base, current float64) float64 {
	return (current - base) / base * 100
}

// RandomSubset returns up to count distinct elements of items in random
// order. items is not modified.
func RandomSubset[T any](items []T, count int) []T {
	if count <= 0 || len(items) == 0 {
		return []T{}
	}
	if count > len(items) {
		count = len(items)
	}
	return lo.Samples(items, count)
}
