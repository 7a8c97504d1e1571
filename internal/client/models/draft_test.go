package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDraft_DatedToday(t *testing.T) {
	now := time.Date(2025, time.July, 4, 10, 0, 0, 0, time.UTC)
	d := NewDraft(now)
	require.Equal(t, "July 4, 2025", d.CreatedDate)
	require.Empty(t, d.Heading)
	require.Empty(t, d.Content)
	require.Empty(t, d.ImageURL)
}

func TestArticleDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   ArticleDraft
		wantErr bool
	}{
		{"valid minimal", ArticleDraft{Heading: "Hello"}, false},
		{"valid with image", ArticleDraft{Heading: "Hello", ImageURL: "https://img.example.com/a.png"}, false},
		{"empty heading", ArticleDraft{Content: "body"}, true},
		{"heading at limit", ArticleDraft{Heading: strings.Repeat("x", HeadingMaxLen)}, false},
		{"heading over limit", ArticleDraft{Heading: strings.Repeat("x", HeadingMaxLen+1)}, true},
		{"relative image url", ArticleDraft{Heading: "Hello", ImageURL: "not a url"}, true},
		{"scheme-less image url", ArticleDraft{Heading: "Hello", ImageURL: "img.example.com/a.png"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidImageURL(t *testing.T) {
	require.True(t, ValidImageURL("https://example.com/x.jpg"))
	require.True(t, ValidImageURL("http://localhost:9000/bucket/key"))
	require.False(t, ValidImageURL("not a url"))
	require.False(t, ValidImageURL(""))
	require.False(t, ValidImageURL("/relative/path.png"))
	require.False(t, ValidImageURL("mailto:someone@example.com"))
}
