// Package models defines the client-side data model: the resolved identity,
// the known-accounts registry entries, the in-progress article draft, and the
// backend-held published article.
package models

// Identity is the canonical representation of the authenticated user for the
// current session. DisplayName and AvatarURL are the result of the
// priority-ordered resolution over the provider record, the provider user
// metadata, and the backend profile record; either may be empty without
// blocking anything else.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Present reports whether the identity refers to a signed-in user.
func (i Identity) Present() bool {
	return i.ID != ""
}

// KnownAccount is a lightweight record of a previously-seen identity, kept
// locally for quick account switching.
type KnownAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	LastLogin int64  `json:"lastLogin"` // unix milliseconds
}

// Profile is the backend-held profile record keyed by user id. It is the last
// fallback source for display name and avatar.
type Profile struct {
	FullName  string
	AvatarURL string
}
