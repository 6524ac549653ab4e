package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// thaiDigits maps Thai numeral glyphs to their Arabic equivalents.
var thaiDigits = map[rune]rune{
	'๐': '0',
	'๑': '1',
	'๒': '2',
	'๓': '3',
	'๔': '4',
	'๕': '5',
	'๖': '6',
	'๗': '7',
	'๘': '8',
	'๙': '9',
}

// NormalizeThaiDigits rewrites any Thai numeral glyphs in s as Arabic digits.
// Registry lookups and parcel-number parsing only accept Arabic numerals, so
// every extraction result passes through here regardless of what the model
// was instructed to return.
func NormalizeThaiDigits(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if d, ok := thaiDigits[r]; ok {
			b.WriteRune(d)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
