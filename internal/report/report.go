// Package report computes exploratory statistics over a normalized table.
package report

import (
	"cmp"
	"math"
	"slices"

	"productprep/internal/models"
)

// Summary holds dataset-level statistics. Averages skip absent values and
// are nil when no value is present.
type Summary struct {
	Docs             int      `json:"docs"`
	UniqueBrands     int      `json:"unique_brands"`
	UniqueCategories int      `json:"unique_categories"`
	AvgPrice         *float64 `json:"avg_price"`
	PriceCount       int      `json:"price_count"`
	AvgDiscountFrac  *float64 `json:"avg_discount_frac"`
	DiscountCount    int      `json:"discount_count"`
	AvgRating        *float64 `json:"avg_rating"`
	RatingCount      int      `json:"rating_count"`
	OutOfStockPct    *float64 `json:"out_of_stock_pct"`
	VocabularySize   int      `json:"vocabulary_size"`
}

// Count is one value with its number of occurrences.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summarize computes the summary statistics of table.
func Summarize(table *models.Table) Summary {
	s := Summary{Docs: table.Len()}

	brands := make(map[string]struct{})
	categories := make(map[string]struct{})
	vocab := make(map[string]struct{})

	var price, discount, rating mean

	outOfStock := 0

	for i := range table.Records {
		rec := &table.Records[i]

		brands[rec.Brand] = struct{}{}
		categories[rec.Category] = struct{}{}

		for _, tok := range rec.TitleTokens {
			vocab[tok] = struct{}{}
		}

		price.add(rec.SellingPrice)
		discount.add(rec.DiscountFrac)
		rating.add(rec.AverageRating)

		if rec.OutOfStock {
			outOfStock++
		}
	}

	s.UniqueBrands = len(brands)
	s.UniqueCategories = len(categories)
	s.VocabularySize = len(vocab)
	s.AvgPrice, s.PriceCount = price.value(), price.n
	s.AvgDiscountFrac, s.DiscountCount = discount.value(), discount.n
	s.AvgRating, s.RatingCount = rating.value(), rating.n

	if s.Docs > 0 {
		pct := 100 * float64(outOfStock) / float64(s.Docs)
		s.OutOfStockPct = &pct
	}

	return s
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}

	m.sum += *v
	m.n++
}

func (m *mean) value() *float64 {
	if m.n == 0 {
		return nil
	}

	avg := m.sum / float64(m.n)

	return &avg
}

// TopBrands returns the n most frequent brands.
func TopBrands(table *models.Table, n int) []Count {
	return topValues(table, n, func(rec *models.NormalizedRecord) []string {
		return []string{rec.Brand}
	})
}

// TopCategories returns the n most frequent categories.
func TopCategories(table *models.Table, n int) []Count {
	return topValues(table, n, func(rec *models.NormalizedRecord) []string {
		return []string{rec.Category}
	})
}

// TopTerms returns the n most frequent tokens of a token column.
func TopTerms(table *models.Table, column string, n int) []Count {
	return topValues(table, n, func(rec *models.NormalizedRecord) []string {
		return rec.Tokens(column)
	})
}

func topValues(table *models.Table, n int, values func(*models.NormalizedRecord) []string) []Count {
	freq := make(map[string]int)

	for i := range table.Records {
		for _, v := range values(&table.Records[i]) {
			freq[v]++
		}
	}

	counts := make([]Count, 0, len(freq))
	for v, c := range freq {
		counts = append(counts, Count{Value: v, Count: c})
	}

	// Most frequent first; ties in lexicographic order.
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.Value, b.Value)
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}

	return counts
}

// Bin is one histogram bucket covering [Lower, Upper); the last bucket also
// includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is an equal-width distribution of one numeric quantity.
type Histogram struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Bins  []Bin  `json:"bins"`
}

// NewHistogram buckets values into bins equal-width bins spanning their
// range. Non-finite values are ignored. A single distinct value yields one
// bin.
func NewHistogram(name string, values []float64, bins int) Histogram {
	h := Histogram{Name: name, Bins: []Bin{}}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	if len(finite) == 0 || bins < 1 {
		return h
	}

	lo, hi := slices.Min(finite), slices.Max(finite)
	h.Total = len(finite)

	if lo == hi {
		h.Bins = append(h.Bins, Bin{Lower: lo, Upper: hi, Count: len(finite)})
		return h
	}

	width := (hi - lo) / float64(bins)
	h.Bins = make([]Bin, bins)

	for i := range h.Bins {
		h.Bins[i].Lower = lo + float64(i)*width
		h.Bins[i].Upper = lo + float64(i+1)*width
	}

	h.Bins[bins-1].Upper = hi

	for _, v := range finite {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}

		h.Bins[idx].Count++
	}

	return h
}

// NumericValues collects the present values of a numeric column.
func NumericValues(table *models.Table, column string) []float64 {
	var out []float64

	for i := range table.Records {
		rec := &table.Records[i]

		var v *float64

		switch column {
		case models.ColSellingPrice:
			v = rec.SellingPrice
		case models.ColActualPrice:
			v = rec.ActualPrice
		case models.ColDiscountFrac:
			v = rec.DiscountFrac
		case models.ColAverageRating:
			v = rec.AverageRating
		}

		if v != nil {
			out = append(out, *v)
		}
	}

	return out
}

// TokenLengths returns the token count of column for every record.
func TokenLengths(table *models.Table, column string) []float64 {
	out := make([]float64, 0, table.Len())

	for i := range table.Records {
		out = append(out, float64(len(table.Records[i].Tokens(column))))
	}

	return out
}
