package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"productprep/internal/formatter"
	"productprep/internal/models"
)

// Options bound the size of a report.
type Options struct {
	TopBrands     int
	TopTerms      int
	HistogramBins int
}

// DefaultOptions mirror the report section of the default configuration.
var DefaultOptions = Options{TopBrands: 20, TopTerms: 50, HistogramBins: 20}

// termColumns are the token columns that get a frequency table.
var termColumns = []struct {
	column string
	label  string
}{
	{models.ColTitleTokens, "title"},
	{models.ColDescTokens, "desc"},
	{models.ColDetailsTokens, "details"},
}

// Report bundles every statistic the EDA step produces.
type Report struct {
	Summary       Summary            `json:"summary"`
	TopBrands     []Count            `json:"top_brands"`
	TopCategories []Count            `json:"top_categories"`
	TopTerms      map[string][]Count `json:"top_terms"`
	Histograms    []Histogram        `json:"histograms"`
}

// Build computes the full report for table.
func Build(table *models.Table, opts Options) *Report {
	r := &Report{
		Summary:       Summarize(table),
		TopBrands:     TopBrands(table, opts.TopBrands),
		TopCategories: TopCategories(table, opts.TopBrands),
		TopTerms:      make(map[string][]Count, len(termColumns)),
	}

	for _, tc := range termColumns {
		r.TopTerms[tc.label] = TopTerms(table, tc.column, opts.TopTerms)
	}

	r.Histograms = []Histogram{
		NewHistogram(models.ColSellingPrice, NumericValues(table, models.ColSellingPrice), opts.HistogramBins),
		NewHistogram(models.ColDiscountFrac, NumericValues(table, models.ColDiscountFrac), opts.HistogramBins),
		NewHistogram(models.ColAverageRating, NumericValues(table, models.ColAverageRating), opts.HistogramBins),
		NewHistogram("title_length", TokenLengths(table, models.ColTitleTokens), opts.HistogramBins),
		NewHistogram("desc_length", TokenLengths(table, models.ColDescTokens), opts.HistogramBins),
	}

	return r
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Dataset report\n\n## Summary\n\n")

	s := r.Summary
	sb.WriteString(formatter.RenderTable([]string{"metric", "value"}, [][]string{
		{"docs", strconv.Itoa(s.Docs)},
		{"unique_brands", strconv.Itoa(s.UniqueBrands)},
		{"unique_categories", strconv.Itoa(s.UniqueCategories)},
		{"avg_price", optFloat(s.AvgPrice, 2)},
		{"avg_discount_frac", optFloat(s.AvgDiscountFrac, 4)},
		{"avg_rating", optFloat(s.AvgRating, 3)},
		{"out_of_stock_pct", optFloat(s.OutOfStockPct, 2)},
		{"vocabulary_size", strconv.Itoa(s.VocabularySize)},
	}))

	writeCounts(&sb, "Top brands", "brand", r.TopBrands)
	writeCounts(&sb, "Top categories", "category", r.TopCategories)

	for _, tc := range termColumns {
		writeCounts(&sb, "Top "+tc.label+" terms", "term", r.TopTerms[tc.label])
	}

	for _, h := range r.Histograms {
		fmt.Fprintf(&sb, "\n## Distribution: %s\n\n", h.Name)

		rows := make([][]string, 0, len(h.Bins))
		for _, b := range h.Bins {
			rows = append(rows, []string{
				fmt.Sprintf("%.4g to %.4g", b.Lower, b.Upper),
				strconv.Itoa(b.Count),
			})
		}

		sb.WriteString(formatter.RenderTable([]string{"range", "count"}, rows))
	}

	return sb.String()
}

func writeCounts(sb *strings.Builder, title, label string, counts []Count) {
	fmt.Fprintf(sb, "\n## %s\n\n", title)

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
	}

	sb.WriteString(formatter.RenderTable([]string{label, "count"}, rows))
}

func optFloat(v *float64, prec int) string {
	if v == nil {
		return "n/a"
	}

	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// WriteDir writes summary.json, report.json, report.md and one CSV per
// frequency table into dir. It returns the written paths.
func (r *Report) WriteDir(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var written []string

	write := func(name string, fn func(string) error) error {
		path := filepath.Join(dir, name)
		if err := fn(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}

		written = append(written, path)

		return nil
	}

	if err := write("summary.json", func(p string) error { return writeJSON(p, r.Summary) }); err != nil {
		return nil, err
	}

	if err := write("report.json", func(p string) error { return writeJSON(p, r) }); err != nil {
		return nil, err
	}

	if err := write("top_brands.csv", func(p string) error { return writeCSV(p, "brand", r.TopBrands) }); err != nil {
		return nil, err
	}

	for _, tc := range termColumns {
		counts := r.TopTerms[tc.label]
		if err := write("top_terms_"+tc.label+".csv", func(p string) error { return writeCSV(p, "term", counts) }); err != nil {
			return nil, err
		}
	}

	md, err := formatter.FormatMarkdown(r.Markdown())
	if err != nil {
		return nil, err
	}

	if err := write("report.md", func(p string) error { return os.WriteFile(p, []byte(md), 0644) }); err != nil {
		return nil, err
	}

	return written, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writeCSV(path, label string, counts []Count) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{label, "count"}); err != nil {
		return err
	}

	for _, c := range counts {
		if err := w.Write([]string{c.Value, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}
