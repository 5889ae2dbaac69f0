package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine/internal/adapters"
)

const (
	defaultItemsTableName     = "items"
	defaultBorrowersTableName = "borrowers"
	defaultLoansTableName     = "loans"

	logMsgBuildQueryFailed    = "failed to build sql query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackTxFailed    = "failed to roll back transaction"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgLoanOpened          = "loan opened"
	logMsgLoanClosed          = "loan closed"
	logMsgQueryCompleted      = "query completed"
	logMsgTransientConflict   = "transient conflict detected"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "lending operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrItemID             = "item_id"
	logAttrBorrowerID         = "borrower_id"
	logAttrLoanID             = "loan_id"
	logAttrRowCount           = "row_count"
	logAttrDurationMS         = "duration_ms"

	colID              = "id"
	colTitle           = "title"
	colCreator         = "creator"
	colCategory        = "category"
	colPublicationYear = "publication_year"
	colCoverReference  = "cover_reference"
	colAvailable       = "available"
	colCreatedAt       = "created_at"
	colUpdatedAt       = "updated_at"
	colItemID          = "item_id"
	colBorrowerID      = "borrower_id"
	colOpenedAt        = "opened_at"
	colDueAt           = "due_at"
	colClosed          = "closed"
	colClosedAt        = "closed_at"

	dialectPostgres = "postgres"

	// Postgres SQLSTATE classes that surface as a retryable transient conflict.
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

type sqlQueryString = string

// LendingStore keeps an item's availability flag, a borrower's open-loan
// count, and the loan records mutually consistent under concurrent access.
// Every state-mutating operation runs inside a single database transaction
// with the affected rows locked for its duration; the store itself holds no
// state between calls.
type LendingStore struct {
	db               adapters.DBAdapter
	tables           TableNames
	loanLimit        int
	loanPeriod       time.Duration
	clock            func() time.Time
	logger           lending.Logger
	metricsCollector lending.MetricsCollector
	tracingCollector lending.TracingCollector
	contextualLogger lending.ContextualLogger
}

// NewLendingStoreFromPGXPool creates a new LendingStore using a pgx Pool with optional configuration.
func NewLendingStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (LendingStore, error) {
	if db == nil {
		return LendingStore{}, lending.ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewPGXAdapter(db), options...)
}

// NewLendingStoreFromSQLDB creates a new LendingStore using a sql.DB with optional configuration.
func NewLendingStoreFromSQLDB(db *sql.DB, options ...Option) (LendingStore, error) {
	if db == nil {
		return LendingStore{}, lending.ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewSQLAdapter(db), options...)
}

// NewLendingStoreFromSQLX creates a new LendingStore using a sqlx.DB with optional configuration.
func NewLendingStoreFromSQLX(db *sqlx.DB, options ...Option) (LendingStore, error) {
	if db == nil {
		return LendingStore{}, lending.ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewSQLXAdapter(db), options...)
}

func newLendingStore(db adapters.DBAdapter, options ...Option) (LendingStore, error) {
	ls := LendingStore{
		db: db,
		tables: TableNames{
			Items:     defaultItemsTableName,
			Borrowers: defaultBorrowersTableName,
			Loans:     defaultLoansTableName,
		},
		loanLimit:  lending.DefaultLoanLimit,
		loanPeriod: lending.DefaultLoanPeriod,
		clock:      time.Now,
	}

	for _, option := range options {
		if err := option(&ls); err != nil {
			return LendingStore{}, err
		}
	}

	return ls, nil
}

// withinTx runs fn inside one transaction and commits it if fn succeeds.
// The rollback is deferred so every failing path leaves zero persisted mutation.
func (ls LendingStore) withinTx(ctx context.Context, fn func(tx adapters.DBTx) error) error {
	tx, beginErr := ls.db.BeginTx(ctx)
	if beginErr != nil {
		ls.logError(logMsgBeginTxFailed, beginErr)
		return ls.asEngineError(lending.ErrBeginningTxFailed, beginErr)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			ls.logWarn(logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
		}
	}()

	if fnErr := fn(tx); fnErr != nil {
		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		ls.logError(logMsgCommitTxFailed, commitErr)
		return ls.asEngineError(lending.ErrCommittingTxFailed, commitErr)
	}

	return nil
}

// asEngineError joins a database error with the matching sentinel, promoting
// lock contention, deadlocks and serialization failures to ErrTransientConflict
// so callers know to retry the whole operation.
func (ls LendingStore) asEngineError(sentinel error, cause error) error {
	if isTransientConflict(cause) {
		ls.logOperation(logMsgTransientConflict, logAttrError, cause.Error())
		ls.recordConflictMetrics()

		return errors.Join(lending.ErrTransientConflict, cause)
	}

	return errors.Join(sentinel, cause)
}

func isTransientConflict(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return isTransientSQLState(pgxErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isTransientSQLState(string(pqErr.Code))
	}

	return false
}

func isTransientSQLState(code string) bool {
	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	default:
		return false
	}
}

// queryRows executes a select statement on the transaction with timing and logging.
func (ls LendingStore) queryRows(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := tx.Query(ctx, sqlQuery)
	ls.logQueryWithDuration(sqlQuery, time.Since(start))

	if queryErr != nil {
		ls.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, ls.asEngineError(lending.ErrQueryingRowsFailed, queryErr)
	}

	return rows, nil
}

// execStatement executes a mutating statement on the transaction and returns rows affected.
func (ls LendingStore) execStatement(ctx context.Context, tx adapters.DBTx, sqlQuery sqlQueryString) (int64, error) {
	start := time.Now()
	result, execErr := tx.Exec(ctx, sqlQuery)
	ls.logQueryWithDuration(sqlQuery, time.Since(start))

	if execErr != nil {
		ls.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, ls.asEngineError(lending.ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		ls.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(lending.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// rowsIterationError surfaces an error the driver deferred to row iteration.
// pgx reports server-side execution failures this way, so a deadlock abort or
// lock timeout during a FOR UPDATE wait shows up here, not on Query - without
// this check it would be mistaken for an absent row.
func (ls LendingStore) rowsIterationError(rows adapters.DBRows) error {
	rowsErr := rows.Err()
	if rowsErr == nil {
		return nil
	}

	ls.logError(logMsgDBQueryFailed, rowsErr)

	return ls.asEngineError(lending.ErrQueryingRowsFailed, rowsErr)
}

// closeRows safely closes database rows and logs any errors.
func (ls LendingStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		ls.logWarn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (ls LendingStore) builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

func itemColumns() []any {
	return []any{colID, colTitle, colCreator, colCategory, colPublicationYear, colCoverReference, colAvailable, colCreatedAt, colUpdatedAt}
}

func loanColumns() []any {
	return []any{colID, colItemID, colBorrowerID, colOpenedAt, colDueAt, colClosed, colClosedAt}
}

// scanItem scans one item row in itemColumns order.
func scanItem(rows adapters.DBRows) (lending.Item, error) {
	var item lending.Item
	var rawID string

	scanErr := rows.Scan(
		&rawID,
		&item.Title,
		&item.Creator,
		&item.Category,
		&item.PublicationYear,
		&item.CoverReference,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if scanErr != nil {
		return lending.Item{}, scanErr
	}

	id, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return lending.Item{}, parseErr
	}

	item.ID = id

	return item, nil
}

// scanLoan scans one loan row in loanColumns order.
func scanLoan(rows adapters.DBRows) (lending.Loan, error) {
	var loan lending.Loan
	var rawID, rawItemID, rawBorrowerID string
	var closedAt sql.NullTime

	scanErr := rows.Scan(
		&rawID,
		&rawItemID,
		&rawBorrowerID,
		&loan.OpenedAt,
		&loan.DueAt,
		&loan.Closed,
		&closedAt,
	)
	if scanErr != nil {
		return lending.Loan{}, scanErr
	}

	id, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return lending.Loan{}, parseErr
	}

	itemID, parseErr := uuid.Parse(rawItemID)
	if parseErr != nil {
		return lending.Loan{}, parseErr
	}

	borrowerID, parseErr := uuid.Parse(rawBorrowerID)
	if parseErr != nil {
		return lending.Loan{}, parseErr
	}

	loan.ID = id
	loan.ItemID = itemID
	loan.BorrowerID = borrowerID

	if closedAt.Valid {
		ts := closedAt.Time
		loan.ClosedAt = &ts
	}

	return loan, nil
}
