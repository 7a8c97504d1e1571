package models

import (
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HeadingMaxLen is the hard limit on draft headings, enforced at the input
// boundary (oversized input is rejected, never truncated after the fact).
const HeadingMaxLen = 100

// draftDateLayout matches the display string the editor shows for the
// article date, e.g. "July 4, 2025".
const draftDateLayout = "January 2, 2006"

// ArticleDraft is the article currently being authored. It lives in memory
// while editing and is written to local storage only on an explicit save.
type ArticleDraft struct {
	Heading     string `json:"heading"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CreatedDate string `json:"createdDate"`
}

// NewDraft returns an empty draft dated "today".
func NewDraft(now time.Time) ArticleDraft {
	return ArticleDraft{CreatedDate: now.Format(draftDateLayout)}
}

// Validate checks the draft against the publish preconditions: a non-blank
// heading within the length limit, and a syntactically valid absolute image
// URL when one is set.
func (d ArticleDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Heading,
			validation.Required.Error("heading is required"),
			validation.RuneLength(0, HeadingMaxLen),
		),
		validation.Field(&d.ImageURL, validation.By(imageURLRule)),
	)
}

func imageURLRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !ValidImageURL(s) {
		return validation.NewError("validation_invalid_url", "must be a valid absolute URL")
	}
	return nil
}

// ValidImageURL reports whether raw parses as an absolute URL with a host.
// Scheme-less or relative strings are rejected.
func ValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
