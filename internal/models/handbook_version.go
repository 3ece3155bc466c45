package models

import "time"

// HandbookVersion is one dated edition of a handbook. Created never changes after
// insert; Updated is refreshed on every write.
type HandbookVersion struct {
	Versioned
	ID           int64     `json:"id"`
	HandbookID   int64     `json:"handbook_identifier"`
	Version      string    `json:"version"`
	StartingDate time.Time `json:"starting_date"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

func (v *HandbookVersion) GetID() int64 { return v.ID }

// Stamp sets the insert timestamps. A zero StartingDate takes the creation time.
func (v *HandbookVersion) Stamp(now time.Time) {
	v.Created = now
	v.Updated = now
	if v.StartingDate.IsZero() {
		v.StartingDate = now
	}
}
