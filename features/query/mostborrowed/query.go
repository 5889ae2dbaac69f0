package mostborrowed

const (
	queryType = "MostBorrowedItems"
)

// Query represents the intent to query the most borrowed catalog items.
// A Limit of zero or less means the default ranking size is used.
type Query struct {
	Limit int
}

// BuildQuery creates a new Query with the provided result limit.
func BuildQuery(limit int) Query {
	return Query{
		Limit: limit,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
