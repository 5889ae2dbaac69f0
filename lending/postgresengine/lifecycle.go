package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine/internal/adapters"
)

const (
	operationOpenLoan  = "open_loan"
	operationCloseLoan = "close_loan"
)

// OpenLoan creates a new loan for the borrower on the item, atomically.
//
// The item row is loaded with an exclusive lock and the borrower row is locked
// as well, so the availability check and the open-loan count check are
// serialized against concurrent OpenLoan calls on the same item or borrower.
// Without the locks two concurrent calls could both observe an available item
// (or a count below the limit) and both insert a loan - a check-then-act race.
//
// Failing paths (ErrItemNotFound, ErrBorrowerNotFound, ErrItemUnavailable,
// ErrLoanLimitExceeded, ErrTransientConflict) roll the transaction back and
// leave no persisted mutation.
func (ls LendingStore) OpenLoan(ctx context.Context, borrowerID uuid.UUID, itemID uuid.UUID) (lending.Loan, error) {
	var loan lending.Loan

	start := time.Now()
	ctx, span := ls.startTraceSpan(ctx, operationOpenLoan, map[string]string{
		logAttrItemID:     itemID.String(),
		logAttrBorrowerID: borrowerID.String(),
	})

	txErr := ls.withinTx(ctx, func(tx adapters.DBTx) error {
		item, itemErr := ls.itemForUpdate(ctx, tx, itemID)
		if itemErr != nil {
			return itemErr
		}

		if !item.Available {
			return lending.ErrItemUnavailable
		}

		if borrowerErr := ls.borrowerForUpdate(ctx, tx, borrowerID); borrowerErr != nil {
			return borrowerErr
		}

		openLoanCount, countErr := ls.countOpenLoans(ctx, tx, borrowerID)
		if countErr != nil {
			return countErr
		}

		if openLoanCount >= ls.loanLimit {
			return lending.ErrLoanLimitExceeded
		}

		loan = lending.BuildLoan(itemID, borrowerID, ls.clock(), ls.loanPeriod)

		if insertErr := ls.insertLoan(ctx, tx, loan); insertErr != nil {
			return insertErr
		}

		return ls.markItemUnavailable(ctx, tx, itemID)
	})

	duration := time.Since(start)

	if txErr != nil {
		ls.finishTraceSpan(span, statusError, nil)
		ls.recordOperationMetrics(ctx, operationOpenLoan, duration, statusError)

		return lending.Loan{}, txErr
	}

	ls.finishTraceSpan(span, statusOK, map[string]string{logAttrLoanID: loan.ID.String()})
	ls.recordOperationMetrics(ctx, operationOpenLoan, duration, statusOK)
	ls.logOperationContext(
		ctx,
		logMsgLoanOpened,
		logAttrLoanID, loan.ID.String(),
		logAttrItemID, itemID.String(),
		logAttrBorrowerID, borrowerID.String(),
		logAttrDurationMS, toMilliseconds(duration))

	return loan, nil
}

// CloseLoan closes the loan on behalf of the requesting borrower, atomically.
//
// The loan row is loaded with an exclusive lock; ownership and the
// already-closed guard are checked before any mutation. The item becomes
// available again in the same transaction.
func (ls LendingStore) CloseLoan(ctx context.Context, loanID uuid.UUID, requestingBorrowerID uuid.UUID) (lending.Loan, error) {
	var loan lending.Loan

	start := time.Now()
	ctx, span := ls.startTraceSpan(ctx, operationCloseLoan, map[string]string{
		logAttrLoanID:     loanID.String(),
		logAttrBorrowerID: requestingBorrowerID.String(),
	})

	txErr := ls.withinTx(ctx, func(tx adapters.DBTx) error {
		loaded, loanErr := ls.loanForUpdate(ctx, tx, loanID)
		if loanErr != nil {
			return loanErr
		}

		if loaded.BorrowerID != requestingBorrowerID {
			return lending.ErrNotLoanBorrower
		}

		if loaded.Closed {
			return lending.ErrLoanAlreadyClosed
		}

		loaded.Close(ls.clock())
		loan = loaded

		if updateErr := ls.updateLoanClosed(ctx, tx, loan); updateErr != nil {
			return updateErr
		}

		return ls.markItemAvailable(ctx, tx, loan.ItemID)
	})

	duration := time.Since(start)

	if txErr != nil {
		ls.finishTraceSpan(span, statusError, nil)
		ls.recordOperationMetrics(ctx, operationCloseLoan, duration, statusError)

		return lending.Loan{}, txErr
	}

	ls.finishTraceSpan(span, statusOK, nil)
	ls.recordOperationMetrics(ctx, operationCloseLoan, duration, statusOK)
	ls.logOperationContext(
		ctx,
		logMsgLoanClosed,
		logAttrLoanID, loan.ID.String(),
		logAttrItemID, loan.ItemID.String(),
		logAttrBorrowerID, loan.BorrowerID.String(),
		logAttrDurationMS, toMilliseconds(duration))

	return loan, nil
}

// itemForUpdate loads the item row with an exclusive lock held until commit.
func (ls LendingStore) itemForUpdate(ctx context.Context, tx adapters.DBTx, itemID uuid.UUID) (lending.Item, error) {
	selectStmt := ls.builder().
		From(ls.tables.Items).
		Select(itemColumns()...).
		Where(goqu.Ex{colID: itemID.String()}).
		ForUpdate(exp.Wait)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return lending.Item{}, errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRows(ctx, tx, sqlQuery)
	if queryErr != nil {
		return lending.Item{}, queryErr
	}
	defer ls.closeRows(rows)

	if !rows.Next() {
		if iterErr := ls.rowsIterationError(rows); iterErr != nil {
			return lending.Item{}, iterErr
		}

		return lending.Item{}, lending.ErrItemNotFound
	}

	item, scanErr := scanItem(rows)
	if scanErr != nil {
		ls.logError(logMsgScanRowFailed, scanErr)
		return lending.Item{}, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
	}

	return item, nil
}

// borrowerForUpdate locks the borrower row so the open-loan count check and the
// loan insert form one serialized unit per borrower.
func (ls LendingStore) borrowerForUpdate(ctx context.Context, tx adapters.DBTx, borrowerID uuid.UUID) error {
	selectStmt := ls.builder().
		From(ls.tables.Borrowers).
		Select(colID).
		Where(goqu.Ex{colID: borrowerID.String()}).
		ForUpdate(exp.Wait)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRows(ctx, tx, sqlQuery)
	if queryErr != nil {
		return queryErr
	}
	defer ls.closeRows(rows)

	if !rows.Next() {
		if iterErr := ls.rowsIterationError(rows); iterErr != nil {
			return iterErr
		}

		return lending.ErrBorrowerNotFound
	}

	return nil
}

// loanForUpdate loads the loan row with an exclusive lock held until commit,
// so concurrent CloseLoan calls on the same loan serialize and the second one
// sees the closed flag.
func (ls LendingStore) loanForUpdate(ctx context.Context, tx adapters.DBTx, loanID uuid.UUID) (lending.Loan, error) {
	selectStmt := ls.builder().
		From(ls.tables.Loans).
		Select(loanColumns()...).
		Where(goqu.Ex{colID: loanID.String()}).
		ForUpdate(exp.Wait)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return lending.Loan{}, errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRows(ctx, tx, sqlQuery)
	if queryErr != nil {
		return lending.Loan{}, queryErr
	}
	defer ls.closeRows(rows)

	if !rows.Next() {
		if iterErr := ls.rowsIterationError(rows); iterErr != nil {
			return lending.Loan{}, iterErr
		}

		return lending.Loan{}, lending.ErrLoanNotFound
	}

	loan, scanErr := scanLoan(rows)
	if scanErr != nil {
		ls.logError(logMsgScanRowFailed, scanErr)
		return lending.Loan{}, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
	}

	return loan, nil
}

// countOpenLoans counts the borrower's open loans inside the transaction.
// No cached count is ever used - the decision always re-reads the locked rows.
func (ls LendingStore) countOpenLoans(ctx context.Context, tx adapters.DBTx, borrowerID uuid.UUID) (int, error) {
	selectStmt := ls.builder().
		From(ls.tables.Loans).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			colBorrowerID: borrowerID.String(),
			colClosed:     false,
		})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return 0, errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRows(ctx, tx, sqlQuery)
	if queryErr != nil {
		return 0, queryErr
	}
	defer ls.closeRows(rows)

	var count int

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			ls.logError(logMsgScanRowFailed, scanErr)
			return 0, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
		}
	} else if iterErr := ls.rowsIterationError(rows); iterErr != nil {
		return 0, iterErr
	}

	return count, nil
}

func (ls LendingStore) insertLoan(ctx context.Context, tx adapters.DBTx, loan lending.Loan) error {
	insertStmt := ls.builder().
		Insert(ls.tables.Loans).
		Rows(goqu.Record{
			colID:         loan.ID.String(),
			colItemID:     loan.ItemID.String(),
			colBorrowerID: loan.BorrowerID.String(),
			colOpenedAt:   loan.OpenedAt,
			colDueAt:      loan.DueAt,
			colClosed:     loan.Closed,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := ls.execStatement(ctx, tx, sqlQuery)

	return execErr
}

func (ls LendingStore) updateLoanClosed(ctx context.Context, tx adapters.DBTx, loan lending.Loan) error {
	updateStmt := ls.builder().
		Update(ls.tables.Loans).
		Set(goqu.Record{
			colClosed:   loan.Closed,
			colClosedAt: *loan.ClosedAt,
		}).
		Where(goqu.Ex{colID: loan.ID.String()})

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
		// The row is locked by this transaction, anything but 1 is a wiring bug.
		return errors.Join(lending.ErrExecutingStatementFailed, errLoanRowNotUpdated)
	}

	return nil
}

var errLoanRowNotUpdated = errors.New("loan row update affected no rows")
