// Package backend declares the collaborator capabilities the client core
// consumes: the identity provider, the profile store, the article table,
// object storage, and client-local persistent storage. Adapters for concrete
// backends live under internal/backend.
package backend

import (
	"context"
	"time"

	"github.com/nannuru/publisher/internal/client/models"
)

// AuthEvent is an asynchronous authentication-state change emitted by the
// identity provider.
type AuthEvent string

const (
	EventSignedIn    AuthEvent = "SIGNED_IN"
	EventSignedOut   AuthEvent = "SIGNED_OUT"
	EventUserUpdated AuthEvent = "USER_UPDATED"
)

// UserMetadata is the free-form metadata block attached to a provider-side
// user record. FullName and AvatarURL are the second resolution source for
// the displayed name and avatar.
type UserMetadata struct {
	FullName  string
	AvatarURL string
}

// User is the provider-side user record. DisplayName is the explicit
// display-name override and takes priority over everything else.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Metadata    UserMetadata
}

// Session is an authenticated provider session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// UserUpdate carries partial updates for the provider-side user record.
// Nil fields are left untouched.
type UserUpdate struct {
	Email       *string
	Password    *string
	DisplayName *string
	Metadata    *UserMetadata
}

// Unsubscribe detaches a previously registered handler.
type Unsubscribe func()

// IdentityProvider is the authentication collaborator.
//
// GetSession and GetCurrentUser return (nil, nil) when there is no session;
// errors are reserved for lookup failures.
type IdentityProvider interface {
	GetSession(ctx context.Context) (*Session, error)
	GetCurrentUser(ctx context.Context) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, upd UserUpdate) (*User, error)
	OnAuthStateChange(handler func(event AuthEvent, session *Session)) Unsubscribe
}

// ProfileStore holds backend profile records keyed by user id.
// GetProfile returns apperr.ErrNotFound when no record exists.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	UpdateProfile(ctx context.Context, id string, p models.Profile) error
}

// ArticleTable is the durable article store. Insert returns the assigned id.
type ArticleTable interface {
	Insert(ctx context.Context, article models.PublishedArticle) (string, error)
	QueryByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]models.PublishedArticle, error)
	GetByID(ctx context.Context, id string) (models.PublishedArticle, error)
}

// ObjectStorage uploads image bytes and resolves their public URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte) error
	GetPublicURL(path string) string
}

// KVStore is client-local persistent string storage. Get reports presence
// explicitly; a missing key is not an error. Writes are last-write-wins;
// Update is the exception and applies fn to the current value atomically.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Update(ctx context.Context, key string, fn func(old string, ok bool) (string, error)) error
	Remove(ctx context.Context, key string) error
}
