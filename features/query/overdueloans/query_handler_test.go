package overdueloans_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending-go/lending"
)

type lendingQueriesStub struct {
	loans        []lending.Loan
	err          error
	seenBorrower uuid.UUID
}

func (s *lendingQueriesStub) PendingOverdue(_ context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	s.seenBorrower = borrowerID

	return s.loans, s.err
}

func Test_QueryHandler_Handle_ReturnsOverdueLoans(t *testing.T) {
	// setup
	borrowerID := uuid.New()
	openedAt := time.Now().Add(-30 * 24 * time.Hour)
	engine := &lendingQueriesStub{
		loans: []lending.Loan{
			lending.BuildLoan(uuid.New(), borrowerID, openedAt, lending.DefaultLoanPeriod),
			lending.BuildLoan(uuid.New(), borrowerID, openedAt.Add(24*time.Hour), lending.DefaultLoanPeriod),
		},
	}
	handler := overdueloans.NewQueryHandler(engine)

	// act
	result, err := handler.Handle(context.Background(), overdueloans.BuildQuery(borrowerID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, borrowerID, engine.seenBorrower)
	assert.Equal(t, borrowerID, result.BorrowerID)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Loans, 2)
	assert.True(t, result.Loans[0].DueAt.Before(result.Loans[1].DueAt))
}

func Test_QueryHandler_Handle_EmptyResultForBorrowerWithoutOverdueLoans(t *testing.T) {
	// setup
	engine := &lendingQueriesStub{}
	handler := overdueloans.NewQueryHandler(engine)

	// act
	result, err := handler.Handle(context.Background(), overdueloans.BuildQuery(uuid.New()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Loans)
}

func Test_QueryHandler_Handle_PropagatesEngineError(t *testing.T) {
	// setup
	engineErr := errors.New("connection refused")
	engine := &lendingQueriesStub{err: engineErr}
	handler := overdueloans.NewQueryHandler(engine)

	// act
	_, err := handler.Handle(context.Background(), overdueloans.BuildQuery(uuid.New()))

	// assert
	assert.ErrorIs(t, err, engineErr)
}

func Test_Query_QueryType(t *testing.T) {
	query := overdueloans.BuildQuery(uuid.New())
	assert.Equal(t, "PendingOverdueLoans", query.QueryType())
}
