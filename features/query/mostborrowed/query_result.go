package mostborrowed

import (
	"github.com/AntonStoeckl/library-lending-go/lending"
)

// MostBorrowedItems represents the query result: items ranked by loan count,
// most borrowed first.
type MostBorrowedItems struct {
	Items []lending.ItemBorrowCount
	Count int
}
