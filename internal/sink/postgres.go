package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/stockprice-etl/internal/model"
	"github.com/rickgao/stockprice-etl/internal/schema"
)

// DB is the subset of *pgxpool.Pool used by PostgresWriter.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresWriter appends records to a PostgreSQL table with one INSERT per
// record, sent as a single pgx.Batch.
type PostgresWriter struct {
	db      DB
	table   string
	timeout time.Duration

	insertSQL string
}

// NewPostgresWriter creates a writer for table. A zero timeout means writes
// may block indefinitely.
func NewPostgresWriter(db DB, table string, timeout time.Duration) *PostgresWriter {
	return &PostgresWriter{
		db:        db,
		table:     table,
		timeout:   timeout,
		insertSQL: insertStatement(table),
	}
}

// Table returns the destination table name.
func (w *PostgresWriter) Table() string {
	return w.table
}

// EnsureTable creates the table with the enriched record columns if it does
// not exist. Existing tables are left untouched.
func (w *PostgresWriter) EnsureTable(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createTableStatement(w.table)); err != nil {
		return fmt.Errorf("create table %s: %w", w.table, err)
	}
	return nil
}

// Write appends records. The batch commits as a single implicit
// transaction, so on error nothing is written and Write returns 0.
func (w *PostgresWriter) Write(ctx context.Context, records []model.EnrichedRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(w.insertSQL, r.Values()...)
	}

	results := w.db.SendBatch(ctx, batch)

	written := 0
	for range records {
		ct, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("insert into %s: %w", w.table, err)
		}
		written += int(ct.RowsAffected())
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}
	return written, nil
}

// insertStatement builds the parameterized INSERT for table.
func insertStatement(table string) string {
	cols := schema.Columns()
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(params, ", "),
	)
}

// createTableStatement builds the CREATE TABLE IF NOT EXISTS for table.
func createTableStatement(table string) string {
	defs := make([]string, len(schema.PriceEvent))
	for i, f := range schema.PriceEvent {
		defs[i] = pgx.Identifier{f.Column}.Sanitize() + " " + f.Type.SQLType()
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(defs, ", "),
	)
}
