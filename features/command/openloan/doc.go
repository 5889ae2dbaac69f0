// Package openloan implements the Open Loan use case.
//
// A loan is opened for a borrower on an available catalog item. The lending
// engine enforces the constraints inside one transaction: the item must exist
// and be available, the borrower must exist and hold fewer open loans than the
// configured limit. The handler adds retry with exponential backoff for
// transient serialization and lock conflicts.
package openloan
