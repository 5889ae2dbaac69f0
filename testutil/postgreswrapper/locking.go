package postgreswrapper

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/shell/config"
)

// CreateLockTimeoutStore creates a store whose database sessions run with the
// given lock_timeout, so a blocked FOR UPDATE fails with SQLSTATE 55P03
// instead of waiting for the lock holder. Always backed by the pgx pool
// adapter - the SQLSTATE classification in the engine is the same for all
// drivers. The returned func closes the pool.
func CreateLockTimeoutStore(t testing.TB, lockTimeout time.Duration, options ...postgresengine.Option) (postgresengine.LendingStore, func()) {
	poolConfig := config.PostgresPGXPoolTestConfig()
	poolConfig.ConnConfig.RuntimeParams["lock_timeout"] = strconv.FormatInt(lockTimeout.Milliseconds(), 10)

	connPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	require.NoError(t, err, "error connecting to DB pool in test setup")

	ls, err := postgresengine.NewLendingStoreFromPGXPool(connPool, options...)
	require.NoError(t, err, "error creating lending store")

	return ls, connPool.Close
}

// HoldItemLock locks the item row FOR UPDATE on a dedicated connection and
// keeps the transaction open, blocking everyone else's lock attempts on that
// row. The returned release func rolls the transaction back and is safe to
// call more than once.
func HoldItemLock(t testing.TB, itemID uuid.UUID) func() {
	ctx := context.Background()

	query, _, err := goqu.Dialect("postgres").
		From("items").
		Select("id").
		Where(goqu.C("id").Eq(itemID.String())).
		ForUpdate(exp.Wait).
		ToSQL()
	require.NoError(t, err, "error building the item lock query")

	conn, err := pgx.Connect(ctx, config.PostgresTestDSN())
	require.NoError(t, err, "error opening the lock-holding connection")

	tx, err := conn.Begin(ctx)
	require.NoError(t, err, "error beginning the lock-holding transaction")

	_, err = tx.Exec(ctx, query)
	require.NoError(t, err, "error locking the item row")

	released := false

	return func() {
		if released {
			return
		}

		released = true

		_ = tx.Rollback(ctx)
		_ = conn.Close(ctx)
	}
}
