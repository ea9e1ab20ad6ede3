package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"github.com/kljensen/snowball"
)

// Stemmer names accepted by NewStemmer.
const (
	StemmerPorter        = "porter"
	StemmerPorterClassic = "porter-classic"
	StemmerSnowball      = "snowball"
)

// ErrUnknownStemmer is returned by NewStemmer for unsupported names.
var ErrUnknownStemmer = errors.New("unknown stemmer")

// Stemmer reduces an inflected word to its stem.
type Stemmer interface {
	// Stem returns the stemmed form of a lowercase word.
	Stem(word string) string
}

// ClassicPorterStemmer implements Porter's original suffix-stripping
// algorithm without extensions.
type ClassicPorterStemmer struct{}

// Stem returns the classic Porter stem of word.
func (ClassicPorterStemmer) Stem(word string) string {
	if word == "" {
		return ""
	}

	return porterstemmer.StemString(word)
}

// SnowballStemmer implements the Snowball English (Porter2) stemmer.
type SnowballStemmer struct {
	language string
}

// NewSnowballStemmer creates a Snowball stemmer for English.
func NewSnowballStemmer() *SnowballStemmer {
	return &SnowballStemmer{language: "english"}
}

// Stem returns the Snowball stem of word. The word is returned unchanged if
// stemming fails.
func (s *SnowballStemmer) Stem(word string) string {
	if word == "" {
		return ""
	}

	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}

	return stemmed
}

// CachedStemmer memoizes another Stemmer. It is safe for concurrent use and
// never changes the wrapped stemmer's results.
type CachedStemmer struct {
	next  Stemmer
	cache map[string]string
	limit int
	mu    sync.RWMutex
}

// NewCachedStemmer wraps next with a cache holding at most limit entries.
// A limit <= 0 means unbounded.
func NewCachedStemmer(next Stemmer, limit int) *CachedStemmer {
	return &CachedStemmer{
		next:  next,
		cache: make(map[string]string),
		limit: limit,
	}
}

// Stem returns the cached stem of word, computing it on first use.
func (c *CachedStemmer) Stem(word string) string {
	c.mu.RLock()
	if stem, ok := c.cache[word]; ok {
		c.mu.RUnlock()
		return stem
	}
	c.mu.RUnlock()

	stem := c.next.Stem(word)

	c.mu.Lock()
	if c.limit <= 0 || len(c.cache) < c.limit {
		c.cache[word] = stem
	}
	c.mu.Unlock()

	return stem
}

// Size returns the number of cached entries.
func (c *CachedStemmer) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}

// NewStemmer returns the stemmer registered under name. An empty name selects
// the Porter stemmer.
func NewStemmer(name string) (Stemmer, error) {
	switch name {
	case "", StemmerPorter:
		return PorterStemmer{}, nil
	case StemmerPorterClassic:
		return ClassicPorterStemmer{}, nil
	case StemmerSnowball:
		return NewSnowballStemmer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStemmer, name)
	}
}
