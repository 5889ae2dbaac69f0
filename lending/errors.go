package lending

import (
	"errors"
)

// Operation errors. Every failing path of an engine operation rolls the
// transaction back as a unit - none of these leaves partial state behind.
// The request-handling layer maps them to its own responses; the engine
// never produces user-facing text.
var (
	// ErrItemNotFound is returned when the referenced catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrBorrowerNotFound is returned when the referenced borrower does not exist.
	ErrBorrowerNotFound = errors.New("borrower not found")

	// ErrLoanNotFound is returned when the referenced loan does not exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrItemUnavailable is returned when the item is already held by an open loan.
	ErrItemUnavailable = errors.New("item is not available for lending")

	// ErrLoanLimitExceeded is returned when the borrower already holds the maximum number of open loans.
	ErrLoanLimitExceeded = errors.New("borrower has reached the open loan limit")

	// ErrNotLoanBorrower is returned when the requesting identity does not match the loan's borrower.
	ErrNotLoanBorrower = errors.New("loan belongs to a different borrower")

	// ErrLoanAlreadyClosed is returned when closing a loan that was already closed.
	// Closing twice is rejected, not silently accepted, so callers can detect double submissions.
	ErrLoanAlreadyClosed = errors.New("loan is already closed")

	// ErrTransientConflict is returned for lock contention, deadlocks and
	// serialization failures. The caller should retry the whole operation.
	ErrTransientConflict = errors.New("transient conflict, retry the whole operation")
)

// Engine configuration errors.
var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("empty table name supplied")
	ErrInvalidLoanLimit      = errors.New("loan limit must be positive")
	ErrInvalidLoanPeriod     = errors.New("loan period must be positive")
	ErrNilClock              = errors.New("clock must not be nil")
)

// Infrastructure failure sentinels, joined with the causing error.
var (
	ErrBuildingQueryFailed       = errors.New("building sql query failed")
	ErrQueryingRowsFailed        = errors.New("database query execution failed")
	ErrScanningDBRowFailed       = errors.New("scanning database row failed")
	ErrExecutingStatementFailed  = errors.New("database statement execution failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")
	ErrBeginningTxFailed         = errors.New("beginning database transaction failed")
	ErrCommittingTxFailed        = errors.New("committing database transaction failed")
)
