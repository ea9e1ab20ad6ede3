package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"

	"productprep/internal/tokenizer"
)

// UnknownBrand replaces missing or blank brand names.
const UnknownBrand = "unknown"

var (
	numberPattern  = regexp.MustCompile(`\p{Nd}+(?:\.\p{Nd}+)?`)
	percentPattern = regexp.MustCompile(`(\p{Nd}+(?:\.\p{Nd}+)?)`)
)

// isNull reports whether v is missing or JSON null.
func isNull(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null
}

// Facet normalizes a categorical field: non-strings become "", strings are
// canonicalized, stripped of punctuation and whitespace-collapsed.
func Facet(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}

	return tokenizer.Normalize(v.Str)
}

// Brand normalizes a brand name without stripping punctuation, so names like
// "H&M" or "U.S. Polo" keep their identity. Blank or non-string values map to
// UnknownBrand.
func Brand(v gjson.Result) string {
	if v.Type != gjson.String {
		return UnknownBrand
	}

	brand := tokenizer.TrimSpace(tokenizer.Canonicalize(v.Str))
	if brand == "" {
		return UnknownBrand
	}

	return brand
}

// Number extracts the first integer or decimal from a price-like value after
// removing thousands separators. Any decimal digit script counts, so
// "₹１,２９９" is 1299. It returns nil when nothing numeric is found.
func Number(v gjson.Result) *float64 {
	if isNull(v) {
		return nil
	}

	s := strings.ReplaceAll(str(v), ",", "")

	match := numberPattern.FindString(s)
	if match == "" {
		return nil
	}

	return finite(strconv.ParseFloat(asciiDigits(match), 64))
}

// DiscountFraction reads the first number in v as a percentage and returns it
// as a fraction. The result is not clamped: "150% off" yields 1.5.
func DiscountFraction(v gjson.Result) *float64 {
	if isNull(v) {
		return nil
	}

	m := percentPattern.FindStringSubmatch(str(v))
	if m == nil {
		return nil
	}

	pct := finite(strconv.ParseFloat(asciiDigits(m[1]), 64))
	if pct == nil {
		return nil
	}

	frac := *pct / 100.0

	return &frac
}

// Rating casts v directly to a float. Strings must hold a complete numeric
// literal; booleans count as 1 and 0. Anything else, including NaN and
// infinities, yields nil.
func Rating(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		return finite(strconv.ParseFloat(v.Raw, 64))
	case gjson.True:
		one := 1.0
		return &one
	case gjson.False:
		zero := 0.0
		return &zero
	case gjson.String:
		return parseFloatLiteral(v.Str)
	default:
		return nil
	}
}

// Truthy applies the record source's truthiness rules: missing, null, false,
// zero, "" and empty containers are false; everything else is true.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		f, err := strconv.ParseFloat(v.Raw, 64)
		return err != nil || f != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		nonEmpty := false

		v.ForEach(func(_, _ gjson.Result) bool {
			nonEmpty = true
			return false
		})

		return nonEmpty
	default:
		return false
	}
}

func parseFloatLiteral(s string) *float64 {
	s = asciiDigits(tokenizer.TrimSpace(s))
	if s == "" {
		return nil
	}

	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return nil
	}

	if strings.Contains(s, "_") {
		var ok bool
		if s, ok = stripDigitSeparators(s); !ok {
			return nil
		}
	}

	return finite(strconv.ParseFloat(s, 64))
}

// stripDigitSeparators removes underscores that sit between two digits and
// rejects any other underscore.
func stripDigitSeparators(s string) (string, bool) {
	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			sb.WriteByte(s[i])
			continue
		}

		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}

	return sb.String(), true
}

// asciiDigits rewrites every decimal digit of any script as its ASCII form.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitValue(r); ok {
			return '0' + rune(d)
		}

		return r
	}, s)
}

// digitValue returns the value of a decimal digit rune. Unicode keeps each
// script's digits in a contiguous run starting at zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}

	if r < 0x80 || !unicode.Is(unicode.Nd, r) {
		return 0, false
	}

	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}

	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}

	return 0, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func finite(f float64, err error) *float64 {
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}
