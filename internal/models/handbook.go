package models

// Handbook is a named reference table. Its content lives in HandbookVersion rows.
type Handbook struct {
	Versioned
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
}

func (h *Handbook) GetID() int64 { return h.ID }
