package dtos

import (
	"time"

	"github.com/poofware/handbook-service/internal/models"
)

// Handbook is the flat wire form used by the short listing and as the nested
// handbook_identifier object of HandbookVersionDeep.
type Handbook struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
}

type HandbookVersion struct {
	ID                 int64     `json:"id"`
	Version            string    `json:"version"`
	StartingDate       time.Time `json:"starting_date"`
	Created            time.Time `json:"created"`
	Updated            time.Time `json:"updated"`
	HandbookIdentifier int64     `json:"handbook_identifier"`
}

// HandbookFull is a handbook with every one of its versions, oldest first.
type HandbookFull struct {
	Handbook
	Versions []HandbookVersion `json:"versions"`
}

// HandbookVersionDeep embeds the owning handbook instead of its id.
type HandbookVersionDeep struct {
	ID                 int64     `json:"id"`
	Version            string    `json:"version"`
	StartingDate       time.Time `json:"starting_date"`
	Created            time.Time `json:"created"`
	Updated            time.Time `json:"updated"`
	HandbookIdentifier Handbook  `json:"handbook_identifier"`
}

type HandbooksFullResponse struct {
	Handbooks []HandbookFull `json:"handbooks"`
}

type HandbooksShortResponse struct {
	Handbooks []Handbook `json:"handbooks_short"`
}

type HandbooksActualResponse struct {
	Versions []HandbookVersionDeep `json:"handbooks_actual_for_date"`
}

/*
CreateHandbookRequest is the body of POST /post_handbook/ and PUT /handbook/{id}/.
The handbook object is required; a nil Handbook means the key was absent.
*/
type CreateHandbookRequest struct {
	Handbook *HandbookInput `json:"handbook" validate:"required"`
}

type HandbookInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	ShortName   string `json:"short_name" validate:"required,max=10"`
	Description string `json:"description" validate:"required"`
}

/*
CreateHandbookVersionRequest is the body of POST /post_handbook_version/ and
PUT /handbook_version/{id}/. StartingDate is optional and defaults to created.
*/
type CreateHandbookVersionRequest struct {
	HandbookVersion *HandbookVersionInput `json:"handbook_version" validate:"required"`
}

type HandbookVersionInput struct {
	HandbookIdentifier int64      `json:"handbook_identifier" validate:"required,gt=0"`
	Version            string     `json:"version" validate:"required,max=255"`
	StartingDate       *time.Time `json:"starting_date,omitempty"`
}

// ---------------------------------------------------------------------
// model -> wire
// ---------------------------------------------------------------------

func NewHandbook(h *models.Handbook) Handbook {
	return Handbook{
		ID:          h.ID,
		Name:        h.Name,
		ShortName:   h.ShortName,
		Description: h.Description,
	}
}

func NewHandbookVersion(v *models.HandbookVersion) HandbookVersion {
	return HandbookVersion{
		ID:                 v.ID,
		Version:            v.Version,
		StartingDate:       v.StartingDate,
		Created:            v.Created,
		Updated:            v.Updated,
		HandbookIdentifier: v.HandbookID,
	}
}

func NewHandbookVersionDeep(v *models.HandbookVersion, h *models.Handbook) HandbookVersionDeep {
	return HandbookVersionDeep{
		ID:                 v.ID,
		Version:            v.Version,
		StartingDate:       v.StartingDate,
		Created:            v.Created,
		Updated:            v.Updated,
		HandbookIdentifier: NewHandbook(h),
	}
}

// NewHandbookFull never returns a nil Versions slice so the field encodes as [].
func NewHandbookFull(h *models.Handbook, versions []*models.HandbookVersion) HandbookFull {
	out := HandbookFull{Handbook: NewHandbook(h), Versions: make([]HandbookVersion, 0, len(versions))}
	for _, v := range versions {
		out.Versions = append(out.Versions, NewHandbookVersion(v))
	}
	return out
}
