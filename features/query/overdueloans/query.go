package overdueloans

import (
	"github.com/google/uuid"
)

const (
	queryType = "PendingOverdueLoans"
)

// Query represents the intent to query a borrower's pending overdue loans.
type Query struct {
	BorrowerID uuid.UUID
}

// BuildQuery creates a new Query with the provided borrower ID.
func BuildQuery(borrowerID uuid.UUID) Query {
	return Query{
		BorrowerID: borrowerID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
