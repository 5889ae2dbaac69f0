package lending

import (
	"time"

	"github.com/google/uuid"
)

// Borrower is one registered account, one-to-one with an external identity.
// Rows are created and mutated by the registration / profile layer; the
// engine only reads them (and locks them while counting open loans).
type Borrower struct {
	ID        uuid.UUID
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
