package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine/internal/adapters"
)

const (
	operationMostBorrowed   = "most_borrowed"
	operationPendingOverdue = "pending_overdue"

	aliasBorrowCount = "borrow_count"
)

// MostBorrowed returns the items ranked by their total number of loans, open
// and closed - historical popularity includes returned loans. Ordering is
// count descending with ties broken by item id ascending, so repeated calls
// over unchanged data return the same ranking. A non-positive limit falls
// back to the default of 10.
//
// This is a read-only aggregate: it takes no locks and tolerates eventual
// visibility of very recent writes.
func (ls LendingStore) MostBorrowed(ctx context.Context, limit int) ([]lending.ItemBorrowCount, error) {
	if limit <= 0 {
		limit = lending.DefaultMostBorrowedLimit
	}

	start := time.Now()
	ctx, span := ls.startTraceSpan(ctx, operationMostBorrowed, nil)

	itemsT := goqu.T(ls.tables.Items)
	loansT := goqu.T(ls.tables.Loans)

	selectStmt := ls.builder().
		From(loansT).
		Join(itemsT, goqu.On(loansT.Col(colItemID).Eq(itemsT.Col(colID)))).
		Select(
			itemsT.Col(colID),
			itemsT.Col(colTitle),
			itemsT.Col(colCreator),
			itemsT.Col(colCategory),
			itemsT.Col(colPublicationYear),
			itemsT.Col(colCoverReference),
			itemsT.Col(colAvailable),
			itemsT.Col(colCreatedAt),
			itemsT.Col(colUpdatedAt),
			goqu.COUNT(loansT.Col(colID)).As(aliasBorrowCount),
		).
		GroupBy(itemsT.Col(colID)).
		Order(goqu.I(aliasBorrowCount).Desc(), itemsT.Col(colID).Asc()).
		Limit(uint(limit))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		ls.finishQueryWithError(ctx, span, operationMostBorrowed, start)

		return nil, errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRowsWithoutTx(ctx, sqlQuery)
	if queryErr != nil {
		ls.finishQueryWithError(ctx, span, operationMostBorrowed, start)
		return nil, queryErr
	}
	defer ls.closeRows(rows)

	ranking := make([]lending.ItemBorrowCount, 0, limit)

	for rows.Next() {
		entry, scanErr := scanItemBorrowCount(rows)
		if scanErr != nil {
			ls.logError(logMsgScanRowFailed, scanErr)
			ls.finishQueryWithError(ctx, span, operationMostBorrowed, start)

			return nil, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
		}

		ranking = append(ranking, entry)
	}

	// A mid-iteration failure would otherwise pass as a truncated result set.
	if iterErr := ls.rowsIterationError(rows); iterErr != nil {
		ls.finishQueryWithError(ctx, span, operationMostBorrowed, start)
		return nil, iterErr
	}

	duration := time.Since(start)
	ls.finishTraceSpan(span, statusOK, nil)
	ls.recordOperationMetrics(ctx, operationMostBorrowed, duration, statusOK)
	ls.logOperationContext(
		ctx,
		logMsgQueryCompleted,
		logAttrRowCount, len(ranking),
		logAttrDurationMS, toMilliseconds(duration))

	return ranking, nil
}

// PendingOverdue returns every open loan of the borrower whose due timestamp
// has passed. Results are ordered by due timestamp, then loan id, so repeated
// calls over unchanged data are stable. Read-only, no locks taken.
func (ls LendingStore) PendingOverdue(ctx context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	start := time.Now()
	ctx, span := ls.startTraceSpan(ctx, operationPendingOverdue, map[string]string{
		logAttrBorrowerID: borrowerID.String(),
	})

	selectStmt := ls.builder().
		From(ls.tables.Loans).
		Select(loanColumns()...).
		Where(goqu.Ex{
			colBorrowerID: borrowerID.String(),
			colClosed:     false,
		}).
		Where(goqu.C(colDueAt).Lt(lending.ToTimestamp(ls.clock()))).
		Order(goqu.C(colDueAt).Asc(), goqu.C(colID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		ls.logError(logMsgBuildQueryFailed, toSQLErr)
		ls.finishQueryWithError(ctx, span, operationPendingOverdue, start)

		return nil, errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := ls.queryRowsWithoutTx(ctx, sqlQuery)
	if queryErr != nil {
		ls.finishQueryWithError(ctx, span, operationPendingOverdue, start)
		return nil, queryErr
	}
	defer ls.closeRows(rows)

	overdue := make([]lending.Loan, 0)

	for rows.Next() {
		loan, scanErr := scanLoan(rows)
		if scanErr != nil {
			ls.logError(logMsgScanRowFailed, scanErr)
			ls.finishQueryWithError(ctx, span, operationPendingOverdue, start)

			return nil, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
		}

		overdue = append(overdue, loan)
	}

	// A mid-iteration failure would otherwise pass as a truncated result set.
	if iterErr := ls.rowsIterationError(rows); iterErr != nil {
		ls.finishQueryWithError(ctx, span, operationPendingOverdue, start)
		return nil, iterErr
	}

	duration := time.Since(start)
	ls.finishTraceSpan(span, statusOK, nil)
	ls.recordOperationMetrics(ctx, operationPendingOverdue, duration, statusOK)
	ls.logOperationContext(
		ctx,
		logMsgQueryCompleted,
		logAttrRowCount, len(overdue),
		logAttrDurationMS, toMilliseconds(duration))

	return overdue, nil
}

// queryRowsWithoutTx executes a read-only select outside any transaction,
// which lets the pgx adapter route it to a replica when one is configured.
func (ls LendingStore) queryRowsWithoutTx(ctx context.Context, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := ls.db.Query(ctx, sqlQuery)
	ls.logQueryWithDuration(sqlQuery, time.Since(start))

	if queryErr != nil {
		ls.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, ls.asEngineError(lending.ErrQueryingRowsFailed, queryErr)
	}

	return rows, nil
}

// scanItemBorrowCount scans one ranking row: the item columns plus the count.
func scanItemBorrowCount(rows adapters.DBRows) (lending.ItemBorrowCount, error) {
	var entry lending.ItemBorrowCount
	var rawID string

	scanErr := rows.Scan(
		&rawID,
		&entry.Item.Title,
		&entry.Item.Creator,
		&entry.Item.Category,
		&entry.Item.PublicationYear,
		&entry.Item.CoverReference,
		&entry.Item.Available,
		&entry.Item.CreatedAt,
		&entry.Item.UpdatedAt,
		&entry.BorrowCount,
	)
	if scanErr != nil {
		return lending.ItemBorrowCount{}, scanErr
	}

	id, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return lending.ItemBorrowCount{}, parseErr
	}

	entry.Item.ID = id

	return entry, nil
}
