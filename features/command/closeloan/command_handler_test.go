package closeloan_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/features/command/closeloan"
	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/shell"
)

// loanCloserStub fails with the configured errors before succeeding.
type loanCloserStub struct {
	failWith    []error
	calls       int
	seenLoan    uuid.UUID
	seenRequest uuid.UUID
}

func (s *loanCloserStub) CloseLoan(_ context.Context, loanID uuid.UUID, requestingBorrowerID uuid.UUID) (lending.Loan, error) {
	s.calls++
	s.seenLoan = loanID
	s.seenRequest = requestingBorrowerID

	if s.calls <= len(s.failWith) {
		return lending.Loan{}, s.failWith[s.calls-1]
	}

	loan := lending.BuildLoan(uuid.New(), requestingBorrowerID, time.Now(), lending.DefaultLoanPeriod)
	loan.ID = loanID
	loan.Close(time.Now())

	return loan, nil
}

func Test_CommandHandler_Handle_ClosesLoan(t *testing.T) {
	// setup
	engine := &loanCloserStub{}
	handler := closeloan.NewCommandHandler(engine)

	// arrange
	command := closeloan.BuildCommand(uuid.New(), uuid.New())

	// act
	loan, result, err := handler.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, command.LoanID, engine.seenLoan)
	assert.Equal(t, command.RequestedBy, engine.seenRequest)
	assert.True(t, loan.Closed)
	assert.Equal(t, 1, result.RetryAttempts)
}

func Test_CommandHandler_Handle_RetriesTransientConflicts(t *testing.T) {
	// setup
	engine := &loanCloserStub{
		failWith: []error{lending.ErrTransientConflict},
	}
	handler := closeloan.NewCommandHandler(engine,
		closeloan.WithRetryOptions(shell.WithBaseDelay(1*time.Millisecond)),
	)

	// act
	loan, result, err := handler.Handle(context.Background(), closeloan.BuildCommand(uuid.New(), uuid.New()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, engine.calls)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.True(t, loan.Closed)
}

func Test_CommandHandler_Handle_DoesNotRetryOwnershipRejection(t *testing.T) {
	// setup
	engine := &loanCloserStub{
		failWith: []error{lending.ErrNotLoanBorrower},
	}
	handler := closeloan.NewCommandHandler(engine)

	// act
	_, result, err := handler.Handle(context.Background(), closeloan.BuildCommand(uuid.New(), uuid.New()))

	// assert
	assert.ErrorIs(t, err, lending.ErrNotLoanBorrower)
	assert.Equal(t, 1, engine.calls)
	assert.False(t, result.RetriesExhausted)
}

func Test_CommandHandler_Handle_DoesNotRetryAlreadyClosed(t *testing.T) {
	// setup
	engine := &loanCloserStub{
		failWith: []error{lending.ErrLoanAlreadyClosed},
	}
	handler := closeloan.NewCommandHandler(engine)

	// act
	_, _, err := handler.Handle(context.Background(), closeloan.BuildCommand(uuid.New(), uuid.New()))

	// assert
	assert.ErrorIs(t, err, lending.ErrLoanAlreadyClosed)
	assert.Equal(t, 1, engine.calls)
}

func Test_Command_CommandType(t *testing.T) {
	command := closeloan.BuildCommand(uuid.New(), uuid.New())
	assert.Equal(t, "CloseLoan", command.CommandType())
}
