package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"productprep/internal/models"
)

// JSONWriter writes the table as a single JSON array.
type JSONWriter struct {
	path   string
	pretty bool
}

// NewJSONWriter creates a writer for path.
func NewJSONWriter(path string, pretty bool) *JSONWriter {
	return &JSONWriter{path: path, pretty: pretty}
}

// Write writes table, replacing any existing file.
func (w *JSONWriter) Write(ctx context.Context, table *models.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if w.pretty {
		enc.SetIndent("", "  ")
	}

	records := table.Records
	if records == nil {
		records = []models.NormalizedRecord{}
	}

	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}

	return f.Close()
}
