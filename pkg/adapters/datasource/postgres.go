package datasource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// PostgresConnector reads tables from a PostgreSQL database via pgx.
type PostgresConnector struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresConnector connects to PostgreSQL. If logger is nil, a no-op
// logger is used.
func NewPostgresConnector(ctx context.Context, cfg *Config, logger *zap.Logger) (*PostgresConnector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Database, sslMode)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresConnector{pool: pool, logger: logger.Named("postgres")}, nil
}

// Tables lists user tables from information_schema, excluding system schemas.
func (c *PostgresConnector) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_type = 'BASE TABLE'
		   AND table_schema NOT IN ('pg_catalog', 'information_schema')
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list postgres tables: %w", err)
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
func (c *PostgresConnector) ReadDataset(ctx context.Context, table string, maxRows int) (*models.Dataset, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s LIMIT %d`, pgx.Identifier{table}.Sanitize(), maxRows)
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var records []models.Record
	for rows.Next() {
		cells, err := rows.Values()
		if err != nil {
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

	c.logger.Debug("Loaded postgres table",
		zap.String("table", table),
		zap.Int("rows", len(records)))

	return &models.Dataset{
		Name:     table,
		Columns:  cols,
		Records:  records,
		RowCount: len(records),
	}, nil
}

// Close releases the connection pool.
func (c *PostgresConnector) Close() error {
	c.pool.Close()
	return nil
}
