package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// str renders a JSON value as the upstream record tooling printed it: null as
// "None", booleans as "True"/"False", floats in shortest round-trip form with a
// trailing ".0" for integral values, and containers as dict/list literals.
// Numeric extraction and details tokens depend on this rendering.
func str(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "None"
	case gjson.False:
		return "False"
	case gjson.True:
		return "True"
	case gjson.Number:
		return numberString(v.Raw)
	case gjson.String:
		return v.Str
	case gjson.JSON:
		var sb strings.Builder

		writeRepr(&sb, v)

		return sb.String()
	default:
		return ""
	}
}

// numberString renders a JSON number literal. Integer literals keep their
// digits; anything with a fraction or exponent is rendered as a float.
func numberString(lit string) string {
	lit = strings.TrimSpace(lit)
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}

		return lit
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return lit
	}

	return floatString(f)
}

// floatString formats f with fixed notation for decimal exponents in
// [-4, 15] and scientific notation otherwise.
func floatString(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}

		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)

	exp, _ := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if exp < -4 || exp > 15 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}

	return fixed
}

func writeRepr(sb *strings.Builder, v gjson.Result) {
	switch {
	case v.IsObject():
		sb.WriteByte('{')

		for i, p := range orderedPairs(v) {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(quote(p.Key))
			sb.WriteString(": ")
			writeRepr(sb, p.Value)
		}

		sb.WriteByte('}')
	case v.IsArray():
		sb.WriteByte('[')

		i := 0

		v.ForEach(func(_, elem gjson.Result) bool {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeRepr(sb, elem)

			i++

			return true
		})

		sb.WriteByte(']')
	case v.Type == gjson.String:
		sb.WriteString(quote(v.Str))
	default:
		sb.WriteString(str(v))
	}
}

// quote wraps s in single quotes, or double quotes when s holds a single
// quote and no double quote. Non-printable runes are written as \xNN, \uNNNN
// or \UNNNNNNNN escapes; the space is the only printable separator.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = '"'
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte(q)

	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case rune(q):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
				break
			}

			switch {
			case r < 0x100:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		}
	}

	sb.WriteByte(q)

	return sb.String()
}
