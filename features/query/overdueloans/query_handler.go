package overdueloans

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// LendingQueries defines the interface needed by the QueryHandler for lending engine operations.
type LendingQueries interface {
	PendingOverdue(ctx context.Context, borrowerID uuid.UUID) ([]lending.Loan, error)
}

// QueryHandler orchestrates the pending overdue loans query.
// Filtering and ordering happen in the database; the handler only shapes the result.
type QueryHandler struct {
	engine LendingQueries
}

// NewQueryHandler creates a new QueryHandler with the provided engine dependency.
func NewQueryHandler(engine LendingQueries) QueryHandler {
	return QueryHandler{
		engine: engine,
	}
}

// Handle executes the query and returns the borrower's overdue loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PendingOverdueLoans, error) {
	loans, err := h.engine.PendingOverdue(ctx, query.BorrowerID)
	if err != nil {
		return PendingOverdueLoans{}, err
	}

	return PendingOverdueLoans{
		BorrowerID: query.BorrowerID,
		Loans:      loans,
		Count:      len(loans),
	}, nil
}
