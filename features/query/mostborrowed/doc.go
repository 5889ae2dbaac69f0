// Package mostborrowed implements the Most Borrowed Items query.
//
// It ranks catalog items by their all-time loan count, open and closed loans
// alike. Items that were never loaned do not appear in the ranking. Ties are
// broken by item ID so the ordering is stable across calls.
package mostborrowed
