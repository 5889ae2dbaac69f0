package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/shell/config"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper interface to abstract over different adapter types
type Wrapper interface {
	GetLendingStore() postgresengine.LendingStore
	Close()

	exec(query string) error
	queryRow(query string, dest ...any) error
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	ls   postgresengine.LendingStore
}

func (w *PGXPoolWrapper) GetLendingStore() postgresengine.LendingStore {
	return w.ls
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

func (w *PGXPoolWrapper) exec(query string) error {
	_, err := w.pool.Exec(context.Background(), query)
	return err
}

func (w *PGXPoolWrapper) queryRow(query string, dest ...any) error {
	return w.pool.QueryRow(context.Background(), query).Scan(dest...)
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db *sql.DB
	ls postgresengine.LendingStore
}

func (w *SQLDBWrapper) GetLendingStore() postgresengine.LendingStore {
	return w.ls
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

func (w *SQLDBWrapper) exec(query string) error {
	_, err := w.db.Exec(query)
	return err
}

func (w *SQLDBWrapper) queryRow(query string, dest ...any) error {
	return w.db.QueryRow(query).Scan(dest...)
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db *sqlx.DB
	ls postgresengine.LendingStore
}

func (w *SQLXWrapper) GetLendingStore() postgresengine.LendingStore {
	return w.ls
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

func (w *SQLXWrapper) exec(query string) error {
	_, err := w.db.Exec(query)
	return err
}

func (w *SQLXWrapper) queryRow(query string, dest ...any) error {
	return w.db.QueryRow(query).Scan(dest...)
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the
// LENDING_ADAPTER_TYPE environment variable and ensures the schema exists.
// The given store options are applied on top of the test defaults.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("LENDING_ADAPTER_TYPE"))

	var wrapper Wrapper

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")

		ls, err := postgresengine.NewLendingStoreFromPGXPool(connPool, options...)
		require.NoError(t, err, "error creating lending store")

		wrapper = &PGXPoolWrapper{pool: connPool, ls: ls}

	case typeSQLDB:
		db := config.PostgresSQLDBTestConfig()

		ls, err := postgresengine.NewLendingStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating lending store")

		wrapper = &SQLDBWrapper{db: db, ls: ls}

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()

		ls, err := postgresengine.NewLendingStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating lending store")

		wrapper = &SQLXWrapper{db: db, ls: ls}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}

	bootstrapSchema(t, wrapper)

	return wrapper
}

// TryCreateLendingStoreWithOptions tries to create a lending store with the
// given options and returns the error, for testing construction error cases.
func TryCreateLendingStoreWithOptions(t testing.TB, options ...postgresengine.Option) error {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("LENDING_ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")
		defer connPool.Close()

		_, err = postgresengine.NewLendingStoreFromPGXPool(connPool, options...)
		return err

	case typeSQLDB:
		db := config.PostgresSQLDBTestConfig()
		defer func(db *sql.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresengine.NewLendingStoreFromSQLDB(db, options...)
		return err

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()
		defer func(db *sqlx.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresengine.NewLendingStoreFromSQLX(db, options...)
		return err

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CleanUp truncates all lending tables for the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	err := wrapper.exec(`TRUNCATE TABLE loans, items, borrowers RESTART IDENTITY CASCADE`)
	assert.NoError(t, err, "error cleaning up the lending tables")
}

// bootstrapSchema creates the lending tables if they do not exist yet.
func bootstrapSchema(t testing.TB, wrapper Wrapper) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id uuid PRIMARY KEY,
			title text NOT NULL,
			creator text NOT NULL DEFAULT '',
			category text NOT NULL DEFAULT '',
			publication_year integer NOT NULL DEFAULT 0,
			cover_reference text NOT NULL DEFAULT '',
			available boolean NOT NULL DEFAULT true,
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS borrowers (
			id uuid PRIMARY KEY,
			address text NOT NULL DEFAULT '',
			phone text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id uuid PRIMARY KEY,
			item_id uuid NOT NULL REFERENCES items (id),
			borrower_id uuid NOT NULL REFERENCES borrowers (id),
			opened_at timestamptz NOT NULL,
			due_at timestamptz NOT NULL,
			closed boolean NOT NULL DEFAULT false,
			closed_at timestamptz
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_borrower_open ON loans (borrower_id) WHERE closed = false`,
		`CREATE INDEX IF NOT EXISTS idx_loans_item ON loans (item_id)`,
	}

	for _, statement := range statements {
		require.NoError(t, wrapper.exec(statement), "error bootstrapping the lending schema")
	}
}
