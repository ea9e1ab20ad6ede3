package normalizer

import (
	"github.com/tidwall/gjson"

	"productprep/internal/tokenizer"
)

// DetailsKind tags the shape a product_details value arrived in.
type DetailsKind int

const (
	// DetailsAbsent covers missing, null and any non-container value.
	DetailsAbsent DetailsKind = iota
	// DetailsMapping is a single object of attribute -> value.
	DetailsMapping
	// DetailsList is a list of objects, each usually holding one entry.
	DetailsList
)

// String returns the kind name.
func (k DetailsKind) String() string {
	switch k {
	case DetailsMapping:
		return "mapping"
	case DetailsList:
		return "list"
	default:
		return "absent"
	}
}

// DetailPair is one attribute of a product_details value.
type DetailPair struct {
	Key   string
	Value gjson.Result
}

// Details is product_details resolved to a flat, ordered list of pairs.
type Details struct {
	Pairs []DetailPair
	Kind  DetailsKind
}

// ResolveDetails flattens v. Objects contribute their entries; lists
// contribute the entries of every object element, in order, and skip other
// elements.
func ResolveDetails(v gjson.Result) Details {
	switch {
	case v.IsObject():
		return Details{Kind: DetailsMapping, Pairs: orderedPairs(v)}
	case v.IsArray():
		d := Details{Kind: DetailsList}

		v.ForEach(func(_, elem gjson.Result) bool {
			if elem.IsObject() {
				d.Pairs = append(d.Pairs, orderedPairs(elem)...)
			}

			return true
		})

		return d
	default:
		return Details{Kind: DetailsAbsent}
	}
}

// Tokens tokenizes each key and each value independently and concatenates
// the results pair by pair, key tokens first. The result is never nil.
func (d Details) Tokens(tok *tokenizer.Tokenizer) []string {
	out := []string{}

	for _, p := range d.Pairs {
		out = append(out, tok.BuildTerms(p.Key)...)
		out = append(out, tok.BuildTerms(str(p.Value))...)
	}

	return out
}

// orderedPairs returns the entries of object v in source order. A repeated
// key keeps its first position and its last value.
func orderedPairs(v gjson.Result) []DetailPair {
	var pairs []DetailPair

	index := make(map[string]int)

	v.ForEach(func(k, val gjson.Result) bool {
		if i, ok := index[k.Str]; ok {
			pairs[i].Value = val
			return true
		}

		index[k.Str] = len(pairs)
		pairs = append(pairs, DetailPair{Key: k.Str, Value: val})

		return true
	})

	return pairs
}
