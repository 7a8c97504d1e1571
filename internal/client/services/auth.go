package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/client/repositories/accounts"
	"github.com/nannuru/publisher/internal/logging"
)

// AuthService orchestrates sign-in, sign-up, and sign-out against the
// identity provider and keeps the known-accounts registry in step with the
// identity lifecycle.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (models.Identity, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

type authService struct {
	provider backend.IdentityProvider
	registry *accounts.Registry
	log      logging.Logger
}

func NewAuthService(provider backend.IdentityProvider, registry *accounts.Registry, log logging.Logger) AuthService {
	return &authService{provider: provider, registry: registry, log: log}
}

// SignIn authenticates with email and password and records the account in the
// known-accounts registry. Provider rejections come back as apperr.ErrAuth
// with the provider's message, except the invalid-credentials case, which is
// rewritten to also suggest an unverified email.
func (a *authService) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	session, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return models.Identity{}, normalizeAuthErr(err)
	}

	ident := models.Identity{ID: session.User.ID, Email: session.User.Email}
	if err := a.registry.Upsert(ctx, ident); err != nil {
		a.log.Warn(ctx, "known-accounts upsert failed", "error", err)
	}
	return ident, nil
}

// SignUp creates a new account. Whether the returned session is usable right
// away depends on the provider's email-confirmation settings.
func (a *authService) SignUp(ctx context.Context, email, password string) error {
	if _, err := a.provider.SignUp(ctx, email, password); err != nil {
		return normalizeAuthErr(err)
	}
	return nil
}

// SignOut ends the session and removes the signed-out account's registry
// entry. Other known accounts are untouched; the registry is only emptied by
// an explicit Clear.
func (a *authService) SignOut(ctx context.Context) error {
	session, err := a.provider.GetSession(ctx)
	if err != nil {
		a.log.Warn(ctx, "session lookup before sign-out failed", "error", err)
	}

	if err := a.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	if session != nil {
		if err := a.registry.Remove(ctx, session.User.ID); err != nil {
			a.log.Warn(ctx, "known-accounts removal failed", "error", err)
		}
	}
	return nil
}

// normalizeAuthErr wraps provider failures as apperr.ErrAuth. The bare
// "invalid login credentials" message confuses users who simply have not
// confirmed their email yet, so that one case gets a friendlier message.
func normalizeAuthErr(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "invalid login credentials") {
		return fmt.Errorf("%w: invalid email or password; if you just signed up, confirm your email first", apperr.ErrAuth)
	}
	return fmt.Errorf("%w: %v", apperr.ErrAuth, err)
}
