package shell

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// LoanDocument is the JSON shape of a loan exchanged with the
// request-handling collaborator. ClosedAt is omitted while the loan is open.
type LoanDocument struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"itemId"`
	BorrowerID string     `json:"borrowerId"`
	OpenedAt   time.Time  `json:"openedAt"`
	DueAt      time.Time  `json:"dueAt"`
	Closed     bool       `json:"closed"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
}

// LoanDocumentFrom maps a loan row to its transport document.
func LoanDocumentFrom(loan lending.Loan) LoanDocument {
	return LoanDocument{
		ID:         loan.ID.String(),
		ItemID:     loan.ItemID.String(),
		BorrowerID: loan.BorrowerID.String(),
		OpenedAt:   loan.OpenedAt,
		DueAt:      loan.DueAt,
		Closed:     loan.Closed,
		ClosedAt:   loan.ClosedAt,
	}
}

// LoanDocumentsFrom maps a slice of loan rows to transport documents.
func LoanDocumentsFrom(loans []lending.Loan) []LoanDocument {
	documents := make([]LoanDocument, 0, len(loans))
	for _, loan := range loans {
		documents = append(documents, LoanDocumentFrom(loan))
	}

	return documents
}

// MarshalJSONDocument serializes any document with the shared jsoniter config.
func MarshalJSONDocument(document any) ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(document)
}

// LoanFromDocument maps a transport document back to a loan row,
// for collaborators that round-trip loans through JSON.
func LoanFromDocument(document LoanDocument) (lending.Loan, error) {
	id, err := uuid.Parse(document.ID)
	if err != nil {
		return lending.Loan{}, err
	}

	itemID, err := uuid.Parse(document.ItemID)
	if err != nil {
		return lending.Loan{}, err
	}

	borrowerID, err := uuid.Parse(document.BorrowerID)
	if err != nil {
		return lending.Loan{}, err
	}

	return lending.Loan{
		ID:         id,
		ItemID:     itemID,
		BorrowerID: borrowerID,
		OpenedAt:   document.OpenedAt,
		DueAt:      document.DueAt,
		Closed:     document.Closed,
		ClosedAt:   document.ClosedAt,
	}, nil
}

// LoanDocumentFromJSON deserializes a loan document.
func LoanDocumentFromJSON(data []byte) (LoanDocument, error) {
	var document LoanDocument

	if err := jsoniter.ConfigFastest.Unmarshal(data, &document); err != nil {
		return LoanDocument{}, err
	}

	return document, nil
}
