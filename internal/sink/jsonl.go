package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"productprep/internal/models"
)

// ctxCheckEvery is how many rows a writer emits between context checks.
const ctxCheckEvery = 1024

// JSONLWriter writes one JSON object per line.
type JSONLWriter struct {
	path string
}

// NewJSONLWriter creates a writer for path.
func NewJSONLWriter(path string) *JSONLWriter {
	return &JSONLWriter{path: path}
}

// Write writes every record of table, replacing any existing file.
func (w *JSONLWriter) Write(ctx context.Context, table *models.Table) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	for i := range table.Records {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if err := enc.Encode(&table.Records[i]); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}

	return f.Close()
}

// ReadJSONL loads a table previously written by JSONLWriter.
func ReadJSONL(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table := models.NewTable(0)
	r := bufio.NewReader(f)

	for line := 1; ; line++ {
		data, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
			var rec models.NormalizedRecord
			if uerr := json.Unmarshal(trimmed, &rec); uerr != nil {
				return nil, fmt.Errorf("failed to decode %s line %d: %w", path, line, uerr)
			}

			table.Append(rec)
		}

		if err != nil {
			return table, nil
		}
	}
}
