package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// MSSQLConnector reads tables from a SQL Server database.
type MSSQLConnector struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMSSQLConnector connects to SQL Server. If logger is nil, a no-op logger
// is used.
func NewMSSQLConnector(cfg *Config, logger *zap.Logger) (*MSSQLConnector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, port),
		RawQuery: url.Values{"database": {cfg.Database}}.Encode(),
	}
	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("connect to sql server: %w", err)
	}
	return &MSSQLConnector{db: db, logger: logger.Named("mssql")}, nil
}

// Tables lists user tables from INFORMATION_SCHEMA.
func (c *MSSQLConnector) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`)
	if err != nil {
		return nil, fmt.Errorf("list sql server tables: %w", err)
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
func (c *MSSQLConnector) ReadDataset(ctx context.Context, table string, maxRows int) (*models.Dataset, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT TOP %d * FROM [%s]`, maxRows, table)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	defer rows.Close()

	ds, err := datasetFromRows(table, rows)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Loaded sql server table",
		zap.String("table", table),
		zap.Int("rows", ds.RowCount))
	return ds, nil
}

// Close releases the database connection.
func (c *MSSQLConnector) Close() error {
	return c.db.Close()
}
