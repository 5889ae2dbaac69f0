package lending

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single-copy catalog entry. Available is a derived, redundant
// cache of "no open loan references this item" - it is mutated only inside
// the same transaction as the loan state change that implies it, never
// recomputed lazily or repaired by a background pass.
type Item struct {
	ID              uuid.UUID
	Title           string
	Creator         string
	Category        string
	PublicationYear int
	CoverReference  string
	Available       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemBorrowCount is one row of the most-borrowed ranking.
type ItemBorrowCount struct {
	Item        Item
	BorrowCount int
}
