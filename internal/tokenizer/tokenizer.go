// Package tokenizer turns free text into ordered retrieval tokens.
//
// The pipeline per text is: NFKC + lowercase, punctuation stripping, whitespace
// split, stopword removal, stemming, and a noise filter that drops tokens of a
// single rune and tokens made only of digits. Token order follows the source
// text and duplicates are kept.
package tokenizer

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Tokenizer holds the read-only resources of the pipeline. It is safe for
// concurrent use.
type Tokenizer struct {
	stopwords *StopwordSet
	stemmer   Stemmer
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStopwords replaces the default English stopword set.
func WithStopwords(set *StopwordSet) Option {
	return func(t *Tokenizer) {
		t.stopwords = set
	}
}

// WithStemmer replaces the default Porter stemmer.
func WithStemmer(s Stemmer) Option {
	return func(t *Tokenizer) {
		t.stemmer = s
	}
}

// New creates a Tokenizer. Without options it uses the English stopword set
// and the Porter stemmer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		stopwords: EnglishStopwords(),
		stemmer:   PorterStemmer{},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

var defaultOnce = sync.OnceValue(func() *Tokenizer { return New() })

// Default returns the process-wide default Tokenizer.
func Default() *Tokenizer {
	return defaultOnce()
}

// BuildTerms runs text through the full pipeline. The result is never nil.
func (t *Tokenizer) BuildTerms(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}

	fields := strings.Split(normalized, " ")
	terms := make([]string, 0, len(fields))

	for _, f := range fields {
		if t.stopwords.Contains(f) {
			continue
		}

		stem := f
		if t.stemmer != nil {
			stem = t.stemmer.Stem(f)
		}

		if utf8.RuneCountInString(stem) <= 1 || isAllDigits(stem) {
			continue
		}

		terms = append(terms, stem)
	}

	return terms
}

// BuildTermsValue tokenizes v if it is a string. Any other value, including
// nil, yields an empty sequence.
func (t *Tokenizer) BuildTermsValue(v any) []string {
	s, ok := v.(string)
	if !ok {
		return []string{}
	}

	return t.BuildTerms(s)
}

// BuildTerms tokenizes text with the default Tokenizer.
func BuildTerms(text string) []string {
	return Default().BuildTerms(text)
}
