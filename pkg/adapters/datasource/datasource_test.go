package datasource

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "sqlite with path",
			cfg:  Config{Driver: DriverSQLite, Path: "/tmp/db.sqlite"},
		},
		{
			name:    "sqlite without path",
			cfg:     Config{Driver: DriverSQLite},
			wantErr: true,
		},
		{
			name: "postgres with host and database",
			cfg:  Config{Driver: DriverPostgres, Host: "localhost", Database: "app"},
		},
		{
			name:    "postgres missing database",
			cfg:     Config{Driver: DriverPostgres, Host: "localhost"},
			wantErr: true,
		},
		{
			name:    "mssql missing host",
			cfg:     Config{Driver: DriverMSSQL, Database: "app"},
			wantErr: true,
		},
		{
			name: "mssql with host and database",
			cfg:  Config{Driver: DriverMSSQL, Host: "localhost", Database: "app"},
		},
		{
			name:    "unsupported driver",
			cfg:     Config{Driver: Driver("oracle"), Host: "localhost", Database: "app"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("orders"))
	assert.NoError(t, validateTableName("order_items_2024"))

	for _, table := range []string{
		"",
		`orders"; DROP TABLE users --`,
		"orders'",
		"orders]",
		"a;b",
	} {
		assert.Error(t, validateTableName(table), "table %q should be rejected", table)
	}
}

func TestFactoryUnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), &Config{Driver: Driver("oracle")}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported datasource driver")
}

// seedSQLiteFixture creates a SQLite database file with a small orders table.
func seedSQLiteFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		customer TEXT,
		amount REAL,
		note TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO orders (id, customer, amount, note) VALUES
		(1, 'alice', 12.5, 'first'),
		(2, 'bob', 20.0, NULL),
		(3, 'carol', 7.25, 'rush')`)
	require.NoError(t, err)

	return path
}

func TestSQLiteConnectorReadDataset(t *testing.T) {
	path := seedSQLiteFixture(t)

	conn, err := NewSQLiteConnector(&Config{Driver: DriverSQLite, Path: path}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()

	tables, err := conn.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables)

	ds, err := conn.ReadDataset(ctx, "orders", 100)
	require.NoError(t, err)
	assert.Equal(t, "orders", ds.Name)
	assert.Equal(t, []string{"id", "customer", "amount", "note"}, ds.Columns)
	require.Equal(t, 3, ds.RowCount)

	// Cells come back through the closed value variant: integers widen to
	// float64 and SQL NULL becomes nil.
	assert.Equal(t, float64(1), ds.Records[0]["id"])
	assert.Equal(t, "alice", ds.Records[0]["customer"])
	assert.Equal(t, 12.5, ds.Records[0]["amount"])
	assert.Nil(t, ds.Records[1]["note"])
}

func TestSQLiteConnectorMaxRows(t *testing.T) {
	path := seedSQLiteFixture(t)

	conn, err := NewSQLiteConnector(&Config{Driver: DriverSQLite, Path: path}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer conn.Close()

	ds, err := conn.ReadDataset(context.Background(), "orders", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount)
}

func TestSQLiteConnectorRejectsBadTableName(t *testing.T) {
	path := seedSQLiteFixture(t)

	conn, err := NewSQLiteConnector(&Config{Driver: DriverSQLite, Path: path}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ReadDataset(context.Background(), `orders"; DROP TABLE orders --`, 100)
	assert.Error(t, err)
}
