package mostborrowed

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// LendingQueries defines the interface needed by the QueryHandler for lending engine operations.
type LendingQueries interface {
	MostBorrowed(ctx context.Context, limit int) ([]lending.ItemBorrowCount, error)
}

// QueryHandler orchestrates the most borrowed items query.
// Ranking happens in the database; the handler only shapes the result.
type QueryHandler struct {
	engine LendingQueries
}

// NewQueryHandler creates a new QueryHandler with the provided engine dependency.
func NewQueryHandler(engine LendingQueries) QueryHandler {
	return QueryHandler{
		engine: engine,
	}
}

// Handle executes the query and returns the ranked items.
func (h QueryHandler) Handle(ctx context.Context, query Query) (MostBorrowedItems, error) {
	items, err := h.engine.MostBorrowed(ctx, query.Limit)
	if err != nil {
		return MostBorrowedItems{}, err
	}

	return MostBorrowedItems{
		Items: items,
		Count: len(items),
	}, nil
}
