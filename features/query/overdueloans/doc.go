// Package overdueloans implements the Pending Overdue Loans query.
//
// It lists a borrower's open loans whose due timestamp has passed, ordered by
// due timestamp so the longest-overdue loan comes first. Closed loans never
// appear, no matter when they were returned.
package overdueloans
