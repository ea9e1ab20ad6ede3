package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"productprep/internal/models"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name     string
	Driver   string
	TextType string
	RealType string
	BoolType string
	TimeType string
	numbered bool
}

// Supported dialects.
var (
	SQLite = Dialect{
		Name:     FormatSQLite,
		Driver:   "sqlite3",
		TextType: "TEXT",
		RealType: "REAL",
		BoolType: "INTEGER",
		TimeType: "TEXT",
	}
	Postgres = Dialect{
		Name:     FormatPostgres,
		Driver:   "postgres",
		TextType: "TEXT",
		RealType: "DOUBLE PRECISION",
		BoolType: "BOOLEAN",
		TimeType: "TIMESTAMPTZ",
		numbered: true,
	}
)

// placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}

	return "?"
}

func (d Dialect) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.placeholder(i + 1)
	}

	return strings.Join(marks, ", ")
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RunsTable records one row per completed write.
const RunsTable = "runs"

// SQLWriter inserts a table into a relational database in a single
// transaction and registers the run in RunsTable.
type SQLWriter struct {
	dialect Dialect
	dsn     string
	table   string
	now     func() time.Time
	runID   string
}

// NewSQLWriter creates a writer. An empty table selects DefaultTable.
func NewSQLWriter(dialect Dialect, dsn, table string) (*SQLWriter, error) {
	if table == "" {
		table = DefaultTable
	}

	if !tableNamePattern.MatchString(table) || table == RunsTable {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	return &SQLWriter{
		dialect: dialect,
		dsn:     dsn,
		table:   table,
		now:     time.Now,
	}, nil
}

// RunID returns the id of the last successful write.
func (w *SQLWriter) RunID() string {
	return w.runID
}

// columnType maps a table column to its SQL type.
func (w *SQLWriter) columnType(col string) string {
	switch col {
	case models.ColOutOfStock:
		return w.dialect.BoolType
	case models.ColSellingPrice, models.ColActualPrice, models.ColDiscountFrac, models.ColAverageRating:
		return w.dialect.RealType
	default:
		return w.dialect.TextType
	}
}

func (w *SQLWriter) schema(columns []string) []string {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, "run_id "+w.dialect.TextType+" NOT NULL")

	for _, col := range columns {
		defs = append(defs, col+" "+w.columnType(col))
	}

	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id %s PRIMARY KEY, target_table %s NOT NULL, records INTEGER NOT NULL, created_at %s NOT NULL)",
			RunsTable, w.dialect.TextType, w.dialect.TextType, w.dialect.TimeType),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", w.table, strings.Join(defs, ", ")),
	}
}

// Write opens the database, creates the tables if needed and inserts every
// record. Nothing is committed when any insert fails.
func (w *SQLWriter) Write(ctx context.Context, table *models.Table) error {
	db, err := sql.Open(w.dialect.Driver, w.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range w.schema(models.Columns) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	runID := uuid.NewString()

	insert := fmt.Sprintf("INSERT INTO %s (run_id, %s) VALUES (%s)",
		w.table, strings.Join(models.Columns, ", "), w.dialect.placeholders(len(models.Columns)+1))

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range table.Records {
		args, err := sqlRow(runID, &table.Records[i])
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	register := fmt.Sprintf("INSERT INTO %s (id, target_table, records, created_at) VALUES (%s)",
		RunsTable, w.dialect.placeholders(4))

	createdAt := w.now().UTC()

	var created any = createdAt
	if w.dialect.TimeType == "TEXT" {
		created = createdAt.Format(time.RFC3339)
	}

	if _, err := tx.ExecContext(ctx, register, runID, w.table, table.Len(), created); err != nil {
		return fmt.Errorf("failed to register run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	w.runID = runID

	return nil
}

// sqlRow converts a record to insert arguments. Token sequences are stored as
// JSON arrays.
func sqlRow(runID string, rec *models.NormalizedRecord) ([]any, error) {
	values := rec.Values()
	args := make([]any, 0, len(values)+1)
	args = append(args, runID)

	for _, v := range values {
		if tokens, ok := v.([]string); ok {
			data, err := json.Marshal(tokens)
			if err != nil {
				return nil, err
			}

			v = string(data)
		}

		args = append(args, v)
	}

	return args, nil
}
