// Package services contains the client application services: the session
// resolver, sign-in/sign-up orchestration, the article authoring coordinator,
// and the my-articles cache.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/backend"
	"github.com/nannuru/publisher/internal/client/models"
	"github.com/nannuru/publisher/internal/client/repositories/accounts"
	"github.com/nannuru/publisher/internal/logging"
)

// SessionState is the snapshot consumers observe. Loading is distinct from
// the resolved identity, so "still resolving" and "resolved to no session"
// are never confused. NeedsDisplayName is true only once resolution finished
// with a present identity and all three name sources came up empty; the UI is
// expected to prompt for a name then.
type SessionState struct {
	Identity         models.Identity
	Present          bool
	Loading          bool
	NeedsDisplayName bool
}

// SessionService produces a single canonical identity and keeps it current
// across asynchronous auth events.
//
// Contract:
//   - Start: attach to provider auth events and run the initial resolution.
//   - Stop: detach; in-flight resolutions are discarded.
//   - State: current snapshot.
//   - Subscribe: observe every state change; the returned function detaches.
//   - Refresh: force a re-resolution.
//   - SetDisplayName / SetAvatarURL: update the provider/profile record and
//     re-resolve.
type SessionService interface {
	Start(ctx context.Context)
	Stop()
	State() SessionState
	Subscribe(fn func(SessionState)) backend.Unsubscribe
	Refresh(ctx context.Context)
	SetDisplayName(ctx context.Context, name string) error
	SetAvatarURL(ctx context.Context, rawURL string) error
}

type sessionService struct {
	provider backend.IdentityProvider
	profiles backend.ProfileStore
	registry *accounts.Registry
	log      logging.Logger

	mu     sync.Mutex
	state  SessionState
	gen    uint64
	subs   map[int]func(SessionState)
	nextID int
	unsub  backend.Unsubscribe
}

// NewSessionService constructs a SessionService over the identity provider,
// the backend profile store, and the known-accounts registry.
func NewSessionService(provider backend.IdentityProvider, profiles backend.ProfileStore, registry *accounts.Registry, log logging.Logger) SessionService {
	return &sessionService{
		provider: provider,
		profiles: profiles,
		registry: registry,
		log:      log,
		subs:     map[int]func(SessionState){},
	}
}

func (s *sessionService) Start(ctx context.Context) {
	s.unsub = s.provider.OnAuthStateChange(func(event backend.AuthEvent, _ *backend.Session) {
		switch event {
		case backend.EventSignedOut:
			// clear immediately; no stale name or avatar may stay visible
			s.clear()
		default:
			s.resolve(ctx)
		}
	})
	s.resolve(ctx)
}

func (s *sessionService) Stop() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.mu.Lock()
	s.gen++ // invalidate anything still in flight
	s.mu.Unlock()
}

func (s *sessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sessionService) Subscribe(fn func(SessionState)) backend.Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *sessionService) Refresh(ctx context.Context) {
	s.resolve(ctx)
}

// resolve re-runs the full resolution. Resolutions may interleave when events
// fire in quick succession; the generation counter makes the newest one win
// and drops stale results on the floor.
func (s *sessionService) resolve(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state.Loading = true
	st, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, st)

	ident := s.lookupIdentity(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.state = SessionState{
		Identity:         ident,
		Present:          ident.Present(),
		NeedsDisplayName: ident.Present() && ident.DisplayName == "",
	}
	st, subs = s.snapshotLocked()
	s.mu.Unlock()

	if ident.Present() {
		if err := s.registry.Upsert(ctx, ident); err != nil {
			s.log.Warn(ctx, "known-accounts upsert failed", "error", err)
		}
	}
	notify(subs, st)
}

func (s *sessionService) clear() {
	s.mu.Lock()
	s.gen++
	s.state = SessionState{}
	st, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, st)
}

// lookupIdentity resolves name and avatar in strict priority order: the
// provider display-name override, then provider user metadata, then the
// backend profile record, which is fetched only when the first two left a
// gap. Every lookup failure means "no value from this source", never a
// failed resolution.
func (s *sessionService) lookupIdentity(ctx context.Context) models.Identity {
	user, err := s.provider.GetCurrentUser(ctx)
	if err != nil {
		s.log.Warn(ctx, "current user lookup failed", "error", err)
		return models.Identity{}
	}
	if user == nil {
		return models.Identity{}
	}

	name := user.DisplayName
	if name == "" {
		name = user.Metadata.FullName
	}
	avatar := user.Metadata.AvatarURL

	if name == "" || avatar == "" {
		profile, err := s.profiles.GetProfile(ctx, user.ID)
		switch {
		case err == nil:
			if name == "" {
				name = profile.FullName
			}
			if avatar == "" {
				avatar = profile.AvatarURL
			}
		case errors.Is(err, apperr.ErrNotFound):
			// no profile record yet; nothing to fill in
		default:
			s.log.Warn(ctx, "profile lookup failed", "user", user.ID, "error", err)
		}
	}

	return models.Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: name,
		AvatarURL:   avatar,
	}
}

func (s *sessionService) SetDisplayName(ctx context.Context, name string) error {
	if _, err := s.provider.UpdateUser(ctx, backend.UserUpdate{DisplayName: &name}); err != nil {
		return err
	}
	s.resolve(ctx)
	return nil
}

func (s *sessionService) SetAvatarURL(ctx context.Context, rawURL string) error {
	if !models.ValidImageURL(rawURL) {
		return apperr.ErrInvalidURL
	}

	st := s.State()
	if !st.Present {
		return apperr.ErrUnauthorized
	}
	if err := s.profiles.UpdateProfile(ctx, st.Identity.ID, models.Profile{AvatarURL: rawURL}); err != nil {
		return err
	}
	s.resolve(ctx)
	return nil
}

func (s *sessionService) snapshotLocked() (SessionState, []func(SessionState)) {
	subs := make([]func(SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.state, subs
}

// notify runs subscriber callbacks outside the service lock, so a subscriber
// may call back into the service.
func notify(subs []func(SessionState), st SessionState) {
	for _, fn := range subs {
		fn(st)
	}
}
