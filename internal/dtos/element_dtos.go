package dtos

import "github.com/poofware/handbook-service/internal/models"

type HandbookElement struct {
	ID           int64   `json:"id"`
	ElementCode  string  `json:"element_code"`
	ElementValue string  `json:"element_value"`
	Handbook     []int64 `json:"handbook"`
}

type RecentElementsResponse struct {
	Elements []HandbookElement `json:"recent_handbook_elements"`
}

type VersionElementsResponse struct {
	Elements []HandbookElement `json:"requested_version_elements"`
}

/*
CreateHandbookElementRequest is the body of POST /post_handbook_element/ and
PUT /handbook_element/{id}/. Handbook lists version labels, not ids. When
HandbookIdentifier is set the labels only resolve inside that handbook.
*/
type CreateHandbookElementRequest struct {
	HandbookElement *HandbookElementInput `json:"handbook_element" validate:"required"`
}

type HandbookElementInput struct {
	Handbook           []string `json:"handbook" validate:"required,min=1,dive,required,max=255"`
	HandbookIdentifier *int64   `json:"handbook_identifier,omitempty" validate:"omitempty,gt=0"`
	ElementCode        string   `json:"element_code" validate:"required,max=255"`
	ElementValue       string   `json:"element_value" validate:"required,max=255"`
}

func NewHandbookElement(e *models.HandbookElement) HandbookElement {
	ids := e.VersionIDs
	if ids == nil {
		ids = []int64{}
	}
	return HandbookElement{
		ID:           e.ID,
		ElementCode:  e.ElementCode,
		ElementValue: e.ElementValue,
		Handbook:     ids,
	}
}

func NewHandbookElements(elems []*models.HandbookElement) []HandbookElement {
	out := make([]HandbookElement, 0, len(elems))
	for _, e := range elems {
		out = append(out, NewHandbookElement(e))
	}
	return out
}
