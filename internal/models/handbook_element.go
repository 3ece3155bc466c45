package models

// HandbookElement is a code/value pair. An element may belong to several
// versions, possibly of different handbooks.
type HandbookElement struct {
	Versioned
	ID           int64   `json:"id"`
	ElementCode  string  `json:"element_code"`
	ElementValue string  `json:"element_value"`
	VersionIDs   []int64 `json:"handbook"`
}

func (e *HandbookElement) GetID() int64 { return e.ID }
