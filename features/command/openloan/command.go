package openloan

import (
	"github.com/google/uuid"
)

const (
	commandType = "OpenLoan"
)

// Command represents the intent to open a loan for a borrower on a catalog item.
type Command struct {
	BorrowerID uuid.UUID
	ItemID     uuid.UUID
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(borrowerID uuid.UUID, itemID uuid.UUID) Command {
	return Command{
		BorrowerID: borrowerID,
		ItemID:     itemID,
	}
}
