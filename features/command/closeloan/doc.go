// Package closeloan implements the Close Loan use case.
//
// Closing is restricted to the borrower who opened the loan. The lending
// engine verifies ownership and rejects loans that are already closed, all
// inside one transaction. The handler adds retry with exponential backoff for
// transient serialization and lock conflicts.
package closeloan
