package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// SQLiteConnector reads tables from a SQLite database file using the pure-Go
// driver, so no cgo toolchain is needed.
type SQLiteConnector struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteConnector opens a SQLite database file. If logger is nil, a no-op
// logger is used.
func NewSQLiteConnector(cfg *Config, logger *zap.Logger) (*SQLiteConnector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &SQLiteConnector{db: db, logger: logger.Named("sqlite")}, nil
}

// Tables lists user tables from sqlite_master, excluding SQLite internals.
func (c *SQLiteConnector) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sqlite tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ReadDataset loads up to maxRows rows of a table.
func (c *SQLiteConnector) ReadDataset(ctx context.Context, table string, maxRows int) (*models.Dataset, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, table, maxRows)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	defer rows.Close()

	ds, err := datasetFromRows(table, rows)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Loaded sqlite table",
		zap.String("table", table),
		zap.Int("rows", ds.RowCount))
	return ds, nil
}

// Close releases the database connection.
func (c *SQLiteConnector) Close() error {
	return c.db.Close()
}

// validateTableName rejects names that cannot be safely quoted into a query.
func validateTableName(table string) error {
	if table == "" || strings.ContainsAny(table, `"'[];`) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// datasetFromRows drains a *sql.Rows into a Dataset, normalizing every cell
// through the closed Value variant.
func datasetFromRows(table string, rows *sql.Rows) (*models.Dataset, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []models.Record
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := make(models.Record, len(cols))
		for i, col := range cols {
			rec[col] = models.NormalizeValue(cells[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &models.Dataset{
		Name:     table,
		Columns:  cols,
		Records:  records,
		RowCount: len(records),
	}, nil
}
