package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// missing is the result of looking up an absent key.
var missing = gjson.Result{}

func jsonValue(t *testing.T, raw string) gjson.Result {
	t.Helper()
	require.True(t, gjson.Valid(raw), "invalid test JSON %s", raw)

	return gjson.Parse(raw)
}

func assertFloat(t *testing.T, want *float64, got *float64, input string) {
	t.Helper()

	if want == nil {
		assert.Nil(t, got, "input %s", input)
		return
	}

	require.NotNil(t, got, "input %s", input)
	assert.InDelta(t, *want, *got, 1e-9, "input %s", input)
}

func ptr(f float64) *float64 {
	return &f
}

func TestNumber(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{`"1,299"`, ptr(1299)},
		{`"Rs. 499.50 only"`, ptr(499.5)},
		{`"₹2,499"`, ptr(2499)},
		{`1299`, ptr(1299)},
		{`1299.0`, ptr(1299)},
		{`"12,34,567.89"`, ptr(1234567.89)},
		{`"₹１,２９９"`, ptr(1299)},
		{`"रु १,२९९"`, ptr(1299)},
		{`"٤٩٩.٥٠"`, ptr(499.5)},
		{`[5, 6]`, ptr(5)},
		{`null`, nil},
		{`"no price"`, nil},
		{`""`, nil},
		{`true`, nil},
	}

	for _, tt := range tests {
		assertFloat(t, tt.want, Number(jsonValue(t, tt.input)), tt.input)
	}

	assert.Nil(t, Number(missing))
}

func TestDiscountFraction(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{`"50% off"`, ptr(0.5)},
		{`"20% off"`, ptr(0.2)},
		{`"12.5% off"`, ptr(0.125)},
		{`35`, ptr(0.35)},
		{`"1,299% off"`, ptr(0.01)},
		{`"５０% off"`, ptr(0.5)},
		{`"२०% छूट"`, ptr(0.2)},
		{`"NO DISCOUNT"`, nil},
		{`""`, nil},
		{`null`, nil},
	}

	for _, tt := range tests {
		assertFloat(t, tt.want, DiscountFraction(jsonValue(t, tt.input)), tt.input)
	}

	assert.Nil(t, DiscountFraction(missing))
}

// Discounts above 100% come from malformed upstream data. They are passed
// through unclamped.
func TestDiscountFraction_NotClamped(t *testing.T) {
	got := DiscountFraction(jsonValue(t, `"150% off"`))

	require.NotNil(t, got)
	assert.InDelta(t, 1.5, *got, 1e-9)
}

func TestRating(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{`"4.3"`, ptr(4.3)},
		{`" 3.5 "`, ptr(3.5)},
		{`4`, ptr(4)},
		{`3.9`, ptr(3.9)},
		{`"1e1"`, ptr(10)},
		{`"4_5"`, ptr(45)},
		{`"４.５"`, ptr(4.5)},
		{`" ३.५ "`, ptr(3.5)},
		{`true`, ptr(1)},
		{`false`, ptr(0)},
		{`"N/A"`, nil},
		{`"4.3 stars"`, nil},
		{`"nan"`, nil},
		{`"inf"`, nil},
		{`"0x10"`, nil},
		{`"_4"`, nil},
		{`""`, nil},
		{`null`, nil},
		{`[4]`, nil},
		{`{"value": 4}`, nil},
	}

	for _, tt := range tests {
		assertFloat(t, tt.want, Rating(jsonValue(t, tt.input)), tt.input)
	}

	assert.Nil(t, Rating(missing))
}

func TestDigitValue(t *testing.T) {
	for r, want := range map[rune]int{
		'7': 7, '０': 0, '９': 9, '٣': 3, '۸': 8, '५': 5, '๒': 2, '𝟘': 0, '𝟡': 9, '𝟿': 9,
	} {
		got, ok := digitValue(r)
		require.True(t, ok, "%q", r)
		assert.Equal(t, want, got, "%q", r)
	}

	for _, r := range []rune{'a', '²', '½', 'Ⅻ', '٫'} {
		_, ok := digitValue(r)
		assert.False(t, ok, "%q", r)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`0`, false},
		{`0.0`, false},
		{`1`, true},
		{`-2.5`, true},
		{`""`, false},
		{`"false"`, true},
		{`[]`, false},
		{`[0]`, true},
		{`{}`, false},
		{`{"a": 1}`, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truthy(jsonValue(t, tt.input)), "input %s", tt.input)
	}

	assert.False(t, Truthy(missing))
}

func TestFacet(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"Clothing and Accessories"`, "clothing and accessories"},
		{`"  Men's  Wear!! "`, "men s wear"},
		{`"Topwear / T-Shirts"`, "topwear t shirts"},
		{`"RetailNet_Pvt"`, "retailnet_pvt"},
		{`""`, ""},
		{`42`, ""},
		{`null`, ""},
		{`["Clothing"]`, ""},
	}

	for _, tt := range tests {
		got := Facet(jsonValue(t, tt.input))
		assert.Equal(t, tt.want, got, "input %s", tt.input)

		again := Facet(gjson.Result{Type: gjson.String, Str: got})
		assert.Equal(t, got, again, "Facet is not idempotent for %s", tt.input)
	}

	assert.Empty(t, Facet(missing))
}

func TestBrand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"H&M"`, "h&m"},
		{`"  U.S. Polo Assn. "`, "u.s. polo assn."},
		{`"X"`, "x"},
		{`"ＡＤＩＤＡＳ"`, "adidas"},
		{`""`, UnknownBrand},
		{`"   "`, UnknownBrand},
		{`null`, UnknownBrand},
		{`5`, UnknownBrand},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Brand(jsonValue(t, tt.input)), "input %s", tt.input)
	}

	assert.Equal(t, UnknownBrand, Brand(missing))
}

func TestStr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"Cotton"`, "Cotton"},
		{`null`, "None"},
		{`true`, "True"},
		{`false`, "False"},
		{`1299`, "1299"},
		{`-0`, "0"},
		{`1299.0`, "1299.0"},
		{`1e5`, "100000.0"},
		{`1.5e-5`, "1.5e-05"},
		{`0.0001`, "0.0001"},
		{`1e16`, "1e+16"},
		{`12345678901234567890`, "12345678901234567890"},
		{`{"a": [1, "x'y", null, true]}`, `{'a': [1, "x'y", None, True]}`},
		{`["it's \"q\""]`, `['it\'s "q"']`},
		{`["a\u0001b\u007f"]`, `['a\x01b\x7f']`},
		{`["no\u00a0break\u200bzero"]`, `['no\xa0break\u200bzero']`},
		{`{"k\u2028": "\ud83d\ude00 \ue000"}`, `{'k\u2028': '😀 \ue000'}`},
		{`["tab\there"]`, `['tab\there']`},
		{`["tag\udb40\udc01"]`, `['tag\U000e0001']`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, str(jsonValue(t, tt.input)), "input %s", tt.input)
	}
}
