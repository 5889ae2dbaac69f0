package shell

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// ItemDocument is the JSON shape of a catalog item exchanged with the
// request-handling collaborator.
type ItemDocument struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Creator         string    `json:"creator"`
	Category        string    `json:"category"`
	PublicationYear int       `json:"publicationYear"`
	CoverReference  string    `json:"coverReference,omitempty"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RankedItemDocument is one entry of the most-borrowed ranking with its count.
type RankedItemDocument struct {
	ItemDocument
	BorrowCount int `json:"borrowCount"`
}

// ItemDocumentFrom maps an item row to its transport document.
func ItemDocumentFrom(item lending.Item) ItemDocument {
	return ItemDocument{
		ID:              item.ID.String(),
		Title:           item.Title,
		Creator:         item.Creator,
		Category:        item.Category,
		PublicationYear: item.PublicationYear,
		CoverReference:  item.CoverReference,
		Available:       item.Available,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// RankedItemDocumentsFrom maps a most-borrowed ranking to transport documents.
func RankedItemDocumentsFrom(ranking []lending.ItemBorrowCount) []RankedItemDocument {
	documents := make([]RankedItemDocument, 0, len(ranking))
	for _, entry := range ranking {
		documents = append(documents, RankedItemDocument{
			ItemDocument: ItemDocumentFrom(entry.Item),
			BorrowCount:  entry.BorrowCount,
		})
	}

	return documents
}

// ItemDocumentFromJSON deserializes an item document.
func ItemDocumentFromJSON(data []byte) (ItemDocument, error) {
	var document ItemDocument

	if err := jsoniter.ConfigFastest.Unmarshal(data, &document); err != nil {
		return ItemDocument{}, err
	}

	return document, nil
}
