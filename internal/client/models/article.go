package models

import "time"

// PublishedArticle is the durable, backend-held article record. This client
// only ever creates them; editing, deleting, and archiving are out of scope
// (IsArchived is written as false and filtered on, never set to true here).
type PublishedArticle struct {
	ID          string
	Heading     string
	SubHeading  string
	ImageURL    string
	CreatedAt   time.Time
	OwnerUserID string
	IsArchived  bool
}
