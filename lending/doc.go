// Package lending provides the shared data model and error taxonomy for the
// lending consistency engine: catalog items, borrowers, and the loan records
// that tie them together.
//
// The package holds no behavior beyond pure helpers on the row types. All
// state lives in the persistence layer; the transactional logic that keeps
// an item's availability flag, a borrower's open-loan count, and the loan
// records mutually consistent is implemented by lending/postgresengine.
//
// Key invariants maintained by the engine over these types:
//   - Item.Available is true iff no open loan references the item
//   - Loan.ClosedAt is non-nil iff Loan.Closed is true
//   - at most one open loan per item, at most LoanLimit open loans per borrower
package lending
