package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine/internal/adapters"
)

// The availability tracker keeps Item.Available consistent with the loan state.
// Both operations run on the caller's transaction - the flag is only ever
// mutated together with the loan change that implies it, so it needs no
// background reconciliation pass.

var errAvailabilityFlagNotUpdated = errors.New("availability flag update affected no rows")

// markItemUnavailable sets Available = false. The caller has just opened a
// loan for this item inside the current transaction and still holds its lock.
func (ls LendingStore) markItemUnavailable(ctx context.Context, tx adapters.DBTx, itemID uuid.UUID) error {
	return ls.setItemAvailability(ctx, tx, itemID, false)
}

// markItemAvailable sets Available = true. The caller has just closed the
// loan that was holding this item unavailable.
func (ls LendingStore) markItemAvailable(ctx context.Context, tx adapters.DBTx, itemID uuid.UUID) error {
	return ls.setItemAvailability(ctx, tx, itemID, true)
}

func (ls LendingStore) setItemAvailability(ctx context.Context, tx adapters.DBTx, itemID uuid.UUID, available bool) error {
	updateStmt := ls.builder().
		Update(ls.tables.Items).
		Set(goqu.Record{
			colAvailable: available,
			colUpdatedAt: lending.ToTimestamp(ls.clock()),
		}).
		Where(goqu.Ex{colID: itemID.String()})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := ls.execStatement(ctx, tx, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected != 1 {
		// Items are never deleted while a loan references them, so anything but 1 is a wiring bug.
		return errors.Join(lending.ErrExecutingStatementFailed, errAvailabilityFlagNotUpdated)
	}

	return nil
}
