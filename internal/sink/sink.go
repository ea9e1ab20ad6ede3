// Package sink persists normalized tables in one of several storage formats.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"productprep/internal/models"
)

// Supported output formats.
const (
	FormatJSONL    = "jsonl"
	FormatJSON     = "json"
	FormatXLSX     = "xlsx"
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

// DefaultTable is the SQL table name used when none is configured.
const DefaultTable = "products"

// Sink errors.
var (
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrMissingDSN       = errors.New("postgres output requires a DSN")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrCellTooLong      = errors.New("cell exceeds spreadsheet limit")
)

// Writer persists a whole table.
type Writer interface {
	Write(ctx context.Context, table *models.Table) error
}

// Options tune writer construction. Zero values select defaults.
type Options struct {
	// DSN is the postgres connection string. It falls back to the target.
	DSN string
	// Table is the SQL table name.
	Table string
	// Pretty indents JSON array output.
	Pretty bool
	// Sheet is the xlsx worksheet name.
	Sheet string
}

// New builds the writer for format. For file formats target is the output
// path; for postgres it may hold the DSN.
func New(format, target string, opts Options) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatJSONL:
		return NewJSONLWriter(target), nil
	case FormatJSON:
		return NewJSONWriter(target, opts.Pretty), nil
	case FormatXLSX:
		return NewXLSXWriter(target, opts.Sheet), nil
	case FormatSQLite:
		return NewSQLWriter(SQLite, target, opts.Table)
	case FormatPostgres:
		dsn := opts.DSN
		if dsn == "" {
			dsn = target
		}

		if dsn == "" {
			return nil, ErrMissingDSN
		}

		return NewSQLWriter(Postgres, dsn, opts.Table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath infers the output format from a path or connection string.
func FormatFromPath(path string) (string, error) {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return FormatPostgres, nil
	}

	switch filepath.Ext(lower) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
	}
}

// IsFile reports whether format writes a local file.
func IsFile(format string) bool {
	return format != FormatPostgres
}
