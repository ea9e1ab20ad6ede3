package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Canonicalize applies NFKC normalization followed by full Unicode lowercasing.
func Canonicalize(s string) string {
	// A Caser keeps state between calls, so it is created per use.
	return cases.Lower(language.Und).String(norm.NFKC.String(s))
}

// isWordRune matches letters, numbers and the underscore. Combining marks are
// not word runes.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace extends unicode.IsSpace with the ASCII information separators,
// which the upstream tooling also treats as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Normalize canonicalizes s, replaces every run of non-word runes with a single
// space and trims the result. The output is a fixed point: Normalize(Normalize(s))
// equals Normalize(s).
func Normalize(s string) string {
	s = Canonicalize(s)

	var sb strings.Builder

	sb.Grow(len(s))

	gap := false

	for _, r := range s {
		if !isWordRune(r) {
			gap = true
			continue
		}

		if gap && sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		gap = false

		sb.WriteRune(r)
	}

	return sb.String()
}

// TrimSpace trims leading and trailing whitespace as defined by isSpace.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// digitSigns holds the runes with Unicode Numeric_Type=Digit: digit-valued
// signs that are not decimal digits, such as superscripts, circled digits and
// the Ethiopic numerals. Most fold to ASCII under NFKC; the Ethiopic, Tai Tham,
// dingbat, Kharoshthi, Rumi and Brahmi forms do not.
var digitSigns = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// isDigitRune matches decimal digits and digit signs.
func isDigitRune(r rune) bool {
	return unicode.IsDigit(r) || unicode.Is(digitSigns, r)
}

// isAllDigits reports whether s is non-empty and made only of digits in the
// broad sense of isDigitRune.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isDigitRune(r) {
			return false
		}
	}

	return true
}
