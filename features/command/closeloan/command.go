package closeloan

import (
	"github.com/google/uuid"
)

const (
	commandType = "CloseLoan"
)

// Command represents the intent to close an open loan on behalf of a borrower.
type Command struct {
	LoanID      uuid.UUID
	RequestedBy uuid.UUID
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, requestedBy uuid.UUID) Command {
	return Command{
		LoanID:      loanID,
		RequestedBy: requestedBy,
	}
}
