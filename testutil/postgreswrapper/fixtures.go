package postgreswrapper

import (
	"database/sql"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect for fixture SQL
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// GivenItem inserts a catalog item and returns it.
func GivenItem(t testing.TB, wrapper Wrapper, title string, available bool) lending.Item {
	now := lending.ToTimestamp(time.Now())

	item := lending.Item{
		ID:        uuid.New(),
		Title:     title,
		Available: available,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, _, err := goqu.Dialect("postgres").
		Insert("items").
		Rows(goqu.Record{
			"id":               item.ID.String(),
			"title":            item.Title,
			"creator":          item.Creator,
			"category":         item.Category,
			"publication_year": item.PublicationYear,
			"cover_reference":  item.CoverReference,
			"available":        item.Available,
			"created_at":       item.CreatedAt,
			"updated_at":       item.UpdatedAt,
		}).
		ToSQL()
	require.NoError(t, err, "error building item fixture query")
	require.NoError(t, wrapper.exec(query), "error inserting item fixture")

	return item
}

// GivenBorrower inserts a borrower and returns it.
func GivenBorrower(t testing.TB, wrapper Wrapper) lending.Borrower {
	now := lending.ToTimestamp(time.Now())

	borrower := lending.Borrower{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, _, err := goqu.Dialect("postgres").
		Insert("borrowers").
		Rows(goqu.Record{
			"id":         borrower.ID.String(),
			"address":    borrower.Address,
			"phone":      borrower.Phone,
			"created_at": borrower.CreatedAt,
			"updated_at": borrower.UpdatedAt,
		}).
		ToSQL()
	require.NoError(t, err, "error building borrower fixture query")
	require.NoError(t, wrapper.exec(query), "error inserting borrower fixture")

	return borrower
}

// GivenLoan inserts a loan row directly, bypassing the engine.
// An open loan also flips the item to unavailable, matching what OpenLoan
// would have done. A closed loan gets its closed_at set to the due timestamp.
func GivenLoan(t testing.TB, wrapper Wrapper, item lending.Item, borrower lending.Borrower, openedAt time.Time, closed bool) lending.Loan {
	loan := lending.BuildLoan(item.ID, borrower.ID, openedAt, lending.DefaultLoanPeriod)

	record := goqu.Record{
		"id":          loan.ID.String(),
		"item_id":     loan.ItemID.String(),
		"borrower_id": loan.BorrowerID.String(),
		"opened_at":   loan.OpenedAt,
		"due_at":      loan.DueAt,
		"closed":      closed,
	}

	if closed {
		loan.Close(loan.DueAt)
		record["closed_at"] = *loan.ClosedAt
	}

	query, _, err := goqu.Dialect("postgres").
		Insert("loans").
		Rows(record).
		ToSQL()
	require.NoError(t, err, "error building loan fixture query")
	require.NoError(t, wrapper.exec(query), "error inserting loan fixture")

	if !closed {
		markQuery, _, markErr := goqu.Dialect("postgres").
			Update("items").
			Set(goqu.Record{"available": false}).
			Where(goqu.C("id").Eq(item.ID.String())).
			ToSQL()
		require.NoError(t, markErr, "error building item update query")
		require.NoError(t, wrapper.exec(markQuery), "error marking item unavailable")
	}

	return loan
}

// FetchItemAvailable reads the availability flag of an item straight from the DB.
func FetchItemAvailable(t testing.TB, wrapper Wrapper, itemID uuid.UUID) bool {
	query, _, err := goqu.Dialect("postgres").
		From("items").
		Select("available").
		Where(goqu.C("id").Eq(itemID.String())).
		ToSQL()
	require.NoError(t, err, "error building item probe query")

	var available bool
	require.NoError(t, wrapper.queryRow(query, &available), "error probing item availability")

	return available
}

// FetchLoanState reads the closed flag and closed_at of a loan straight from the DB.
func FetchLoanState(t testing.TB, wrapper Wrapper, loanID uuid.UUID) (bool, sql.NullTime) {
	query, _, err := goqu.Dialect("postgres").
		From("loans").
		Select("closed", "closed_at").
		Where(goqu.C("id").Eq(loanID.String())).
		ToSQL()
	require.NoError(t, err, "error building loan probe query")

	var closed bool
	var closedAt sql.NullTime
	require.NoError(t, wrapper.queryRow(query, &closed, &closedAt), "error probing loan state")

	return closed, closedAt
}

// CountOpenLoansForBorrower counts a borrower's open loans straight from the DB.
func CountOpenLoansForBorrower(t testing.TB, wrapper Wrapper, borrowerID uuid.UUID) int {
	query, _, err := goqu.Dialect("postgres").
		From("loans").
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("borrower_id").Eq(borrowerID.String()),
			goqu.C("closed").IsFalse(),
		).
		ToSQL()
	require.NoError(t, err, "error building loan count query")

	var count int
	require.NoError(t, wrapper.queryRow(query, &count), "error counting open loans")

	return count
}
