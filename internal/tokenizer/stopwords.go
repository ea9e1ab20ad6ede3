package tokenizer

import (
	"strings"
	"sync"
)

// englishStopwords is the NLTK English stopword list.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or", "because",
	"as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't",
	"haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn",
	"mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't", "wasn",
	"wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}

// StopwordSet is an immutable set of lowercase stopwords.
type StopwordSet struct {
	words map[string]struct{}
}

// NewStopwordSet builds a set from words, lowercasing each entry.
func NewStopwordSet(words ...string) *StopwordSet {
	set := &StopwordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		set.words[strings.ToLower(w)] = struct{}{}
	}

	return set
}

var englishOnce = sync.OnceValue(func() *StopwordSet {
	return NewStopwordSet(englishStopwords...)
})

// EnglishStopwords returns the shared English stopword set. It is built once
// per process.
func EnglishStopwords() *StopwordSet {
	return englishOnce()
}

// With returns a new set containing s plus extra. s itself is not modified.
func (s *StopwordSet) With(extra ...string) *StopwordSet {
	words := make([]string, 0, s.Len()+len(extra))
	if s != nil {
		for w := range s.words {
			words = append(words, w)
		}
	}

	words = append(words, extra...)

	return NewStopwordSet(words...)
}

// Contains reports whether word is a stopword. word must already be lowercase.
func (s *StopwordSet) Contains(word string) bool {
	if s == nil {
		return false
	}

	_, ok := s.words[word]

	return ok
}

// Len returns the number of stopwords.
func (s *StopwordSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.words)
}
