package overdueloans

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// PendingOverdueLoans represents the query result: the borrower's open loans
// past their due timestamp, longest overdue first.
type PendingOverdueLoans struct {
	BorrowerID uuid.UUID
	Loans      []lending.Loan
	Count      int
}
