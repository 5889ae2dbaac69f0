package lending

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLoanPeriod is the fixed lending period: DueAt = OpenedAt + period.
	DefaultLoanPeriod = 14 * 24 * time.Hour

	// DefaultLoanLimit is the maximum number of concurrently open loans per borrower.
	DefaultLoanLimit = 3

	// DefaultMostBorrowedLimit is the ranking size used when the caller supplies none.
	DefaultMostBorrowedLimit = 10
)

// Loan is one borrow transaction. OpenedAt and DueAt are immutable after
// creation; Closed/ClosedAt transition exactly once. Loans are never deleted,
// they are retained as history.
type Loan struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	OpenedAt   time.Time
	DueAt      time.Time
	Closed     bool
	ClosedAt   *time.Time
}

// BuildLoan creates a new open Loan with a fresh ID and DueAt derived from openedAt.
func BuildLoan(itemID uuid.UUID, borrowerID uuid.UUID, openedAt time.Time, loanPeriod time.Duration) Loan {
	opened := ToTimestamp(openedAt)

	return Loan{
		ID:         uuid.New(),
		ItemID:     itemID,
		BorrowerID: borrowerID,
		OpenedAt:   opened,
		DueAt:      opened.Add(loanPeriod),
		Closed:     false,
		ClosedAt:   nil,
	}
}

// Close marks the loan as closed at the given time.
// Closed and ClosedAt transition together so they can never drift apart.
func (l *Loan) Close(closedAt time.Time) {
	closed := ToTimestamp(closedAt)
	l.Closed = true
	l.ClosedAt = &closed
}

// IsOverdue reports whether the loan is open and past its due timestamp.
func (l Loan) IsOverdue(now time.Time) bool {
	return !l.Closed && l.DueAt.Before(now)
}
