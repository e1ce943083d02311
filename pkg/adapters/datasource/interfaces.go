// Package datasource implements the ingestion collaborator: connectors that
// pull a database table into an in-memory Dataset. The engine core never
// touches these; it only consumes the resulting {columns, records} shape.
package datasource

import (
	"context"
	"fmt"

	"github.com/dqanalyst/dq-engine/pkg/models"
)

// Connector reads tables from an external database. Each implementation
// owns its connection and must be closed when done.
type Connector interface {
	// Tables returns the names of all user tables, sorted.
	Tables(ctx context.Context) ([]string, error)

	// ReadDataset loads up to maxRows rows of a table into a Dataset. The
	// returned dataset has a zero ID; the workspace service assigns one on
	// import.
	ReadDataset(ctx context.Context, table string, maxRows int) (*models.Dataset, error)

	// Close releases the database connection.
	Close() error
}

// Driver names the supported connector implementations.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMSSQL    Driver = "mssql"
)

// Config holds connection settings for a datasource pull.
type Config struct {
	Driver   Driver `json:"driver"`
	Path     string `json:"path,omitempty"` // sqlite file path
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"-"`
	Database string `json:"database,omitempty"`
	SSLMode  string `json:"ssl_mode,omitempty"` // postgres only
}

// Validate checks that the config carries what its driver needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("sqlite datasource requires a path")
		}
	case DriverPostgres, DriverMSSQL:
		if c.Host == "" || c.Database == "" {
			return fmt.Errorf("%s datasource requires host and database", c.Driver)
		}
	default:
		return fmt.Errorf("unsupported datasource driver %q", c.Driver)
	}
	return nil
}
