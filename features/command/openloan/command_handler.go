package openloan

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/shell"
)

// LoanOpener defines the interface needed by the CommandHandler for lending engine operations.
type LoanOpener interface {
	OpenLoan(ctx context.Context, borrowerID uuid.UUID, itemID uuid.UUID) (lending.Loan, error)
}

// CommandHandler orchestrates the open loan workflow.
// The lending engine holds the business rules; the handler adds retry with
// exponential backoff for transient conflicts.
type CommandHandler struct {
	engine       LoanOpener
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(engine LoanOpener, opts ...Option) CommandHandler {
	handler := CommandHandler{
		engine: engine,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the open loan workflow with retry logic.
// Returns the opened loan together with a HandlerResult carrying retry metadata.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Loan, shell.HandlerResult, error) {
	var loan lending.Loan

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		loan, execErr = h.engine.OpenLoan(retryCtx, command.BorrowerID, command.ItemID)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return lending.Loan{}, shell.NewErrorResult(retryMetrics), err
	}

	return loan, shell.NewSuccessResult(retryMetrics), nil
}
