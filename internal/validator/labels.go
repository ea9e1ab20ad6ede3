// Package validator checks a cleaned product table against validation labels.
package validator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"productprep/internal/models"
)

// Validation errors.
var (
	ErrMissingPIDColumn = errors.New("labels file has no pid column")
	ErrEmptyLabels      = errors.New("labels file has no header")
	ErrMissingPID       = errors.New("label pid not present in clean table")
)

// Expected value ranges. Values outside them are reported, never corrected.
const (
	MinDiscountFrac = 0.0
	MaxDiscountFrac = 1.0
	MinRating       = 0.0
	MaxRating       = 5.0
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Line    int
	Err     error
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Sample   []SampleRow
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalLabels        int
	UniqueLabels       int
	TotalRows          int
	MatchedLabels      int
	MissingLabels      int
	DiscountOutOfRange int
	RatingOutOfRange   int
}

// SampleRow is one clean row shown for manual spot checking.
type SampleRow struct {
	PID           string
	Brand         string
	Category      string
	SellingPrice  *float64
	AverageRating *float64
}

// Label is one row of the labels file. Line is the 1-based CSV line.
type Label struct {
	PID  string
	Line int
}

// LoadLabels reads a labels CSV. The header must contain a pid column;
// other columns are ignored.
func LoadLabels(path string) ([]Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	return ReadLabels(f)
}

// ReadLabels reads labels CSV data from r.
func ReadLabels(r io.Reader) ([]Label, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyLabels
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read labels header: %w", err)
	}

	col := -1

	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(name), "pid") {
			col = i
			break
		}
	}

	if col < 0 {
		return nil, ErrMissingPIDColumn
	}

	var labels []Label

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read labels: %w", err)
		}

		line, _ := cr.FieldPos(0)

		pid := ""
		if col < len(rec) {
			pid = strings.TrimSpace(rec[col])
		}

		labels = append(labels, Label{PID: pid, Line: line})
	}

	return labels, nil
}

// LabelValidator checks label coverage and value ranges of a clean table.
type LabelValidator struct {
	sample int
}

// NewLabelValidator creates a validator that keeps up to sample matching
// rows for spot checking.
func NewLabelValidator(sample int) *LabelValidator {
	return &LabelValidator{sample: max(sample, 0)}
}

// Validate compares labels with table. Every label pid absent from the table
// is an error. Out-of-range discounts and ratings are warnings.
func (v *LabelValidator) Validate(table *models.Table, labels []Label) *ValidationResult {
	result := &ValidationResult{
		Stats: ValidationStats{
			TotalLabels: len(labels),
			TotalRows:   table.Len(),
		},
	}

	rows := make(map[string]int, table.Len())
	for i := range table.Records {
		if _, ok := rows[table.Records[i].PID]; !ok {
			rows[table.Records[i].PID] = i
		}
	}

	seen := make(map[string]struct{}, len(labels))

	for _, label := range labels {
		if _, dup := seen[label.PID]; dup {
			continue
		}

		seen[label.PID] = struct{}{}

		idx, ok := rows[label.PID]
		if !ok {
			result.Stats.MissingLabels++
			result.Errors = append(result.Errors, ValidationError{
				Field:   models.ColPID,
				Value:   label.PID,
				Message: fmt.Sprintf("pid %q not found in clean table", label.PID),
				Line:    label.Line,
				Err:     ErrMissingPID,
			})

			continue
		}

		result.Stats.MatchedLabels++

		if len(result.Sample) < v.sample {
			rec := &table.Records[idx]
			result.Sample = append(result.Sample, SampleRow{
				PID:           rec.PID,
				Brand:         rec.Brand,
				Category:      rec.Category,
				SellingPrice:  rec.SellingPrice,
				AverageRating: rec.AverageRating,
			})
		}
	}

	result.Stats.UniqueLabels = len(seen)

	for i := range table.Records {
		rec := &table.Records[i]

		if outside(rec.DiscountFrac, MinDiscountFrac, MaxDiscountFrac) {
			result.Stats.DiscountOutOfRange++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"row %d (pid %q): discount_frac %s outside [%g, %g]",
				i, rec.PID, formatFloat(*rec.DiscountFrac), MinDiscountFrac, MaxDiscountFrac))
		}

		if outside(rec.AverageRating, MinRating, MaxRating) {
			result.Stats.RatingOutOfRange++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"row %d (pid %q): average_rating %s outside [%g, %g]",
				i, rec.PID, formatFloat(*rec.AverageRating), MinRating, MaxRating))
		}
	}

	result.IsValid = len(result.Errors) == 0

	return result
}

func outside(v *float64, lo, hi float64) bool {
	return v != nil && (*v < lo || *v > hi)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Labels: %d | Rows: %d | Matched: %d | Missing: %d | Warnings: %d",
		status,
		r.Stats.UniqueLabels,
		r.Stats.TotalRows,
		r.Stats.MatchedLabels,
		r.Stats.MissingLabels,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line > 0 {
			fmt.Fprintf(w, "  Line %d", err.Line)

			if err.Field != "" {
				fmt.Fprintf(w, " [%s]", err.Field)
			}

			fmt.Fprintf(w, ": %s\n", err.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", err.Message)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}

// SampleTable returns the spot-check rows as table cells with a header.
// Absent numerics are shown as "NaN".
func (r *ValidationResult) SampleTable() ([]string, [][]string) {
	header := []string{
		models.ColPID, models.ColBrand, models.ColCategory,
		models.ColSellingPrice, models.ColAverageRating,
	}

	rows := make([][]string, 0, len(r.Sample))
	for _, s := range r.Sample {
		rows = append(rows, []string{
			s.PID, s.Brand, s.Category,
			optFloat(s.SellingPrice), optFloat(s.AverageRating),
		})
	}

	return header, rows
}

func optFloat(f *float64) string {
	if f == nil {
		return "NaN"
	}

	return formatFloat(*f)
}
