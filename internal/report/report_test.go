package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productprep/internal/models"
)

func ptr(f float64) *float64 {
	return &f
}

func sampleTable() *models.Table {
	table := models.NewTable(4)

	table.Append(models.NormalizedRecord{
		Brand: "york", Category: "clothing",
		TitleTokens: []string{"red", "shirt"}, DescTokens: []string{"cotton"}, DetailsTokens: []string{},
		SellingPrice: ptr(100), DiscountFrac: ptr(0.5), AverageRating: ptr(4),
	})
	table.Append(models.NormalizedRecord{
		Brand: "york", Category: "clothing",
		TitleTokens: []string{"blue", "shirt"}, DescTokens: []string{}, DetailsTokens: []string{"fit", "slim"},
		SellingPrice: ptr(300), AverageRating: ptr(3), OutOfStock: true,
	})
	table.Append(models.NormalizedRecord{
		Brand: "unknown", Category: "footwear",
		TitleTokens: []string{"shoe"}, DescTokens: []string{}, DetailsTokens: []string{},
	})
	table.Append(models.NormalizedRecord{
		Brand: "aero", Category: "",
		TitleTokens: []string{"shirt", "shoe"}, DescTokens: []string{"cotton", "soft"}, DetailsTokens: []string{},
		DiscountFrac: ptr(0.1),
	})

	return table
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTable())

	assert.Equal(t, 4, s.Docs)
	assert.Equal(t, 3, s.UniqueBrands)
	assert.Equal(t, 3, s.UniqueCategories)
	assert.Equal(t, 4, s.VocabularySize)

	require.NotNil(t, s.AvgPrice)
	assert.InDelta(t, 200.0, *s.AvgPrice, 1e-9)
	assert.Equal(t, 2, s.PriceCount)

	require.NotNil(t, s.AvgDiscountFrac)
	assert.InDelta(t, 0.3, *s.AvgDiscountFrac, 1e-9)

	require.NotNil(t, s.AvgRating)
	assert.InDelta(t, 3.5, *s.AvgRating, 1e-9)

	require.NotNil(t, s.OutOfStockPct)
	assert.InDelta(t, 25.0, *s.OutOfStockPct, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(models.NewTable(0))

	assert.Equal(t, 0, s.Docs)
	assert.Nil(t, s.AvgPrice)
	assert.Nil(t, s.AvgRating)
	assert.Nil(t, s.OutOfStockPct)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"avg_price":null`)
}

func TestTopBrands(t *testing.T) {
	got := TopBrands(sampleTable(), 2)

	assert.Equal(t, []Count{{"york", 2}, {"aero", 1}}, got)
}

func TestTopTerms(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, []Count{{"shirt", 3}, {"shoe", 2}, {"blue", 1}, {"red", 1}}, TopTerms(table, models.ColTitleTokens, 10))
	assert.Equal(t, []Count{{"cotton", 2}}, TopTerms(table, models.ColDescTokens, 1))
	assert.Empty(t, TopTerms(table, "nope", 5))
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram("price", []float64{0, 1, 2, 3, 4, 10}, 5)

	require.Len(t, h.Bins, 5)
	assert.Equal(t, 6, h.Total)
	assert.Equal(t, []int{2, 2, 1, 0, 1}, binCounts(h))
	assert.InDelta(t, 10.0, h.Bins[4].Upper, 1e-9)
}

func TestNewHistogram_Degenerate(t *testing.T) {
	assert.Empty(t, NewHistogram("none", nil, 10).Bins)

	single := NewHistogram("same", []float64{4, 4, 4}, 10)
	require.Len(t, single.Bins, 1)
	assert.Equal(t, 3, single.Bins[0].Count)
}

func binCounts(h Histogram) []int {
	out := make([]int, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = b.Count
	}

	return out
}

func TestBuild_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "eda")

	r := Build(sampleTable(), DefaultOptions)
	paths, err := r.WriteDir(dir)
	require.NoError(t, err)
	assert.Len(t, paths, 7)

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.InDelta(t, 4, summary["docs"], 0)

	f, err := os.Open(filepath.Join(dir, "top_terms_title.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"term", "count"}, rows[0])
	assert.Equal(t, []string{"shirt", "3"}, rows[1])

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# Dataset report"))
	assert.Contains(t, string(md), "| york    | 2     |")
}
