package sink

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"productprep/internal/models"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "products"

// XLSXWriter writes the table to a spreadsheet: a header row, then one row per
// record. Token sequences are joined by spaces and absent numerics are left
// blank. A cell longer than excelize.TotalCellChars fails the write with
// ErrCellTooLong instead of being truncated.
type XLSXWriter struct {
	path  string
	sheet string
}

// NewXLSXWriter creates a writer for path.
func NewXLSXWriter(path, sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = DefaultSheet
	}

	return &XLSXWriter{path: path, sheet: sheet}
}

// Write writes table, replacing any existing file.
func (w *XLSXWriter) Write(ctx context.Context, table *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	if err := sw.SetColWidth(1, len(models.Columns), 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	header := make([]any, len(models.Columns))
	for i, col := range models.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range table.Records {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row, err := spreadsheetRow(&table.Records[i])
		if err != nil {
			return fmt.Errorf("row %d (pid %q): %w", i, table.Records[i].PID, err)
		}

		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

func spreadsheetRow(rec *models.NormalizedRecord) ([]any, error) {
	values := rec.Values()

	for i, v := range values {
		switch cell := v.(type) {
		case []string:
			values[i] = models.JoinTokens(cell)
		case nil:
			values[i] = ""
		}

		if s, ok := values[i].(string); ok {
			if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
				return nil, fmt.Errorf("%w: column %s has %d characters, limit %d",
					ErrCellTooLong, models.Columns[i], n, excelize.TotalCellChars)
			}
		}
	}

	return values, nil
}
