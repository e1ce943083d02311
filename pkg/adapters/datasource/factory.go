package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// New creates the connector matching the config's driver.
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (Connector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return NewSQLiteConnector(cfg, logger)
	case DriverPostgres:
		return NewPostgresConnector(ctx, cfg, logger)
	case DriverMSSQL:
		return NewMSSQLConnector(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported datasource driver %q", cfg.Driver)
	}
}
