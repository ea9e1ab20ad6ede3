package tokenizer

import "strings"

// PorterStemmer implements Porter's algorithm with the common extensions used
// by most text toolkits: an irregular-forms pool, "ies"/"ied" on four-letter
// words giving "ie", y->i only after a consonant, "alli", "fulli" and "logi"
// in step 2, and words of one or two runes left alone.
// Letters outside a-z count as consonants.
type PorterStemmer struct{}

// porterIrregular maps irregular forms to their stems.
var porterIrregular = map[string]string{
	"sky":      "sky",
	"skies":    "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"innings":  "inning",
	"inning":   "inning",
	"outings":  "outing",
	"outing":   "outing",
	"cannings": "canning",
	"canning":  "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// Stem returns the Porter stem of a lowercase word.
func (PorterStemmer) Stem(word string) string {
	if stem, ok := porterIrregular[word]; ok {
		return stem
	}

	w := []rune(word)
	if len(w) <= 2 {
		return word
	}

	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5a(w)
	w = step5b(w)

	return string(w)
}

type porterRule struct {
	suffix      string
	replacement string
	// cond is checked against the word without suffix; nil always holds.
	cond func(stem []rune) bool
}

func isVowel(r rune) bool {
	return r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u'
}

func isConsonant(w []rune, i int) bool {
	if isVowel(w[i]) {
		return false
	}

	if w[i] == 'y' {
		return i == 0 || !isConsonant(w, i-1)
	}

	return true
}

// measure counts the vowel-consonant sequences of w.
func measure(w []rune) int {
	m := 0
	prevVowel := false

	for i := range w {
		c := isConsonant(w, i)
		if c && prevVowel {
			m++
		}

		prevVowel = !c
	}

	return m
}

func positiveMeasure(w []rune) bool {
	return measure(w) > 0
}

func measureAboveOne(w []rune) bool {
	return measure(w) > 1
}

func containsVowel(w []rune) bool {
	for i := range w {
		if !isConsonant(w, i) {
			return true
		}
	}

	return false
}

func endsDoubleConsonant(w []rune) bool {
	n := len(w)

	return n >= 2 && w[n-1] == w[n-2] && isConsonant(w, n-1)
}

// endsCVC reports consonant-vowel-consonant at the end of w where the last
// consonant is not w, x or y. A two-rune vowel-consonant word also matches.
func endsCVC(w []rune) bool {
	n := len(w)

	if n >= 3 && isConsonant(w, n-3) && !isConsonant(w, n-2) && isConsonant(w, n-1) {
		last := w[n-1]
		return last != 'w' && last != 'x' && last != 'y'
	}

	return n == 2 && !isConsonant(w, 0) && isConsonant(w, 1)
}

func hasSuffix(w []rune, suffix string) bool {
	s := []rune(suffix)
	if len(s) > len(w) {
		return false
	}

	return string(w[len(w)-len(s):]) == suffix
}

func trimSuffix(w []rune, suffix string) []rune {
	return w[:len(w)-len([]rune(suffix))]
}

func withSuffix(stem []rune, suffix string) []rune {
	out := make([]rune, 0, len(stem)+len(suffix))
	out = append(out, stem...)

	return append(out, []rune(suffix)...)
}

// applyRules applies the first rule whose suffix matches. A matching rule
// whose condition fails stops the search.
func applyRules(w []rune, rules []porterRule) []rune {
	for _, r := range rules {
		if !hasSuffix(w, r.suffix) {
			continue
		}

		stem := trimSuffix(w, r.suffix)
		if r.cond == nil || r.cond(stem) {
			return withSuffix(stem, r.replacement)
		}

		return w
	}

	return w
}

func step1a(w []rune) []rune {
	if len(w) == 4 && hasSuffix(w, "ies") {
		return withSuffix(trimSuffix(w, "ies"), "ie")
	}

	return applyRules(w, []porterRule{
		{"sses", "ss", nil},
		{"ies", "i", nil},
		{"ss", "ss", nil},
		{"s", "", nil},
	})
}

func step1b(w []rune) []rune {
	if hasSuffix(w, "ied") {
		if len(w) == 4 {
			return withSuffix(trimSuffix(w, "ied"), "ie")
		}

		return withSuffix(trimSuffix(w, "ied"), "i")
	}

	if hasSuffix(w, "eed") {
		stem := trimSuffix(w, "eed")
		if positiveMeasure(stem) {
			return withSuffix(stem, "ee")
		}

		return w
	}

	var stem []rune

	found := false

	for _, suffix := range []string{"ed", "ing"} {
		if hasSuffix(w, suffix) {
			stem = trimSuffix(w, suffix)
			if containsVowel(stem) {
				found = true
				break
			}
		}
	}

	if !found {
		return w
	}

	for _, r := range []porterRule{{"at", "ate", nil}, {"bl", "ble", nil}, {"iz", "ize", nil}} {
		if hasSuffix(stem, r.suffix) {
			return withSuffix(trimSuffix(stem, r.suffix), r.replacement)
		}
	}

	if endsDoubleConsonant(stem) {
		last := stem[len(stem)-1]
		if last != 'l' && last != 's' && last != 'z' {
			return stem[:len(stem)-1]
		}

		return stem
	}

	if measure(stem) == 1 && endsCVC(stem) {
		return withSuffix(stem, "e")
	}

	return stem
}

func step1c(w []rune) []rune {
	return applyRules(w, []porterRule{
		{"y", "i", func(stem []rune) bool {
			return len(stem) > 1 && isConsonant(stem, len(stem)-1)
		}},
	})
}

func step2(w []rune) []rune {
	if hasSuffix(w, "alli") {
		if stem := trimSuffix(w, "alli"); positiveMeasure(stem) {
			return step2(withSuffix(stem, "al"))
		}
	}

	return applyRules(w, []porterRule{
		{"ational", "ate", positiveMeasure},
		{"tional", "tion", positiveMeasure},
		{"enci", "ence", positiveMeasure},
		{"anci", "ance", positiveMeasure},
		{"izer", "ize", positiveMeasure},
		{"bli", "ble", positiveMeasure},
		{"alli", "al", positiveMeasure},
		{"entli", "ent", positiveMeasure},
		{"eli", "e", positiveMeasure},
		{"ousli", "ous", positiveMeasure},
		{"ization", "ize", positiveMeasure},
		{"ation", "ate", positiveMeasure},
		{"ator", "ate", positiveMeasure},
		{"alism", "al", positiveMeasure},
		{"iveness", "ive", positiveMeasure},
		{"fulness", "ful", positiveMeasure},
		{"ousness", "ous", positiveMeasure},
		{"aliti", "al", positiveMeasure},
		{"iviti", "ive", positiveMeasure},
		{"biliti", "ble", positiveMeasure},
		{"fulli", "ful", positiveMeasure},
		// The "l" stays with the stem so short stems like "geo" qualify.
		{"logi", "log", func([]rune) bool { return positiveMeasure(trimSuffix(w, "ogi")) }},
	})
}

func step3(w []rune) []rune {
	return applyRules(w, []porterRule{
		{"icate", "ic", positiveMeasure},
		{"ative", "", positiveMeasure},
		{"alize", "al", positiveMeasure},
		{"iciti", "ic", positiveMeasure},
		{"ical", "ic", positiveMeasure},
		{"ful", "", positiveMeasure},
		{"ness", "", positiveMeasure},
	})
}

func step4(w []rune) []rune {
	return applyRules(w, []porterRule{
		{"al", "", measureAboveOne},
		{"ance", "", measureAboveOne},
		{"ence", "", measureAboveOne},
		{"er", "", measureAboveOne},
		{"ic", "", measureAboveOne},
		{"able", "", measureAboveOne},
		{"ible", "", measureAboveOne},
		{"ant", "", measureAboveOne},
		{"ement", "", measureAboveOne},
		{"ment", "", measureAboveOne},
		{"ent", "", measureAboveOne},
		{"ion", "", func(stem []rune) bool {
			return measureAboveOne(stem) && strings.ContainsRune("st", stem[len(stem)-1])
		}},
		{"ou", "", measureAboveOne},
		{"ism", "", measureAboveOne},
		{"ate", "", measureAboveOne},
		{"iti", "", measureAboveOne},
		{"ous", "", measureAboveOne},
		{"ive", "", measureAboveOne},
		{"ize", "", measureAboveOne},
	})
}

func step5a(w []rune) []rune {
	if !hasSuffix(w, "e") {
		return w
	}

	stem := trimSuffix(w, "e")
	if m := measure(stem); m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}

	return w
}

func step5b(w []rune) []rune {
	if hasSuffix(w, "ll") && measureAboveOne(w[:len(w)-1]) {
		return w[:len(w)-1]
	}

	return w
}
