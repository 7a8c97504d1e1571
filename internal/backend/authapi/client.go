// Package authapi implements the identity-provider capability against a
// GoTrue-compatible REST auth service. It keeps the current session in memory
// and fans auth-state changes out to registered handlers.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nannuru/publisher/internal/client/backend"
)

const defaultTimeout = 10 * time.Second

// maxResponseBody caps how much of an auth response we are willing to read.
const maxResponseBody = 1 << 20

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client

	mu       sync.Mutex
	session  *backend.Session
	handlers map[int]func(backend.AuthEvent, *backend.Session)
	nextID   int
}

var _ backend.IdentityProvider = (*Client)(nil)

// NewClient returns a client for the auth service at baseURL (e.g.
// "https://auth.example.com/auth/v1"). apiKey is sent as the anon api key on
// every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: defaultTimeout},
		handlers: map[int]func(backend.AuthEvent, *backend.Session){},
	}
}

type wireMetadata struct {
	DisplayName string `json:"display_name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type wireUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata wireMetadata `json:"user_metadata"`
}

type wireSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         wireUser `json:"user"`
}

type wireError struct {
	Message          string `json:"msg"`
	ErrorText        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e wireError) message(status int) string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	case e.ErrorText != "":
		return e.ErrorText
	default:
		return http.StatusText(status)
	}
}

func toUser(w wireUser) backend.User {
	return backend.User{
		ID:          w.ID,
		Email:       w.Email,
		DisplayName: w.UserMetadata.DisplayName,
		Metadata: backend.UserMetadata{
			FullName:  w.UserMetadata.FullName,
			AvatarURL: w.UserMetadata.AvatarURL,
		},
	}
}

func (c *Client) toSession(w wireSession) *backend.Session {
	s := &backend.Session{
		AccessToken:  w.AccessToken,
		RefreshToken: w.RefreshToken,
		User:         toUser(w.User),
	}
	if w.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(w.ExpiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(w.AccessToken); ok {
		s.ExpiresAt = exp
	}
	return s
}

// tokenExpiry reads the exp claim out of the access token without verifying
// the signature; the client only needs it to know when the session lapses.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("auth api request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var we wireError
		_ = json.Unmarshal(raw, &we)
		return fmt.Errorf("auth api: %s", we.message(resp.StatusCode))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode auth response: %w", err)
		}
	}
	return nil
}

func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, nil
	}
	if !c.session.ExpiresAt.IsZero() && time.Now().After(c.session.ExpiresAt) {
		c.session = nil
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (*backend.User, error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	var w wireUser
	if err := c.do(ctx, http.MethodGet, "/user", session.AccessToken, nil, &w); err != nil {
		return nil, err
	}
	u := toUser(w)

	c.mu.Lock()
	if c.session != nil {
		c.session.User = u
	}
	c.mu.Unlock()
	return &u, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	var w wireSession
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload, &w); err != nil {
		return nil, err
	}

	session := c.toSession(w)
	c.setSession(session)
	c.emit(backend.EventSignedIn, session)
	return session, nil
}

// SignUp registers a new account. When the service requires email
// confirmation it answers with a bare user record and no tokens; in that case
// the returned session carries only the user and no sign-in happens.
func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	var w struct {
		wireSession
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/signup", "", payload, &w); err != nil {
		return nil, err
	}

	if w.AccessToken == "" {
		return &backend.Session{User: backend.User{ID: w.ID, Email: w.Email}}, nil
	}

	session := c.toSession(w.wireSession)
	c.setSession(session)
	c.emit(backend.EventSignedIn, session)
	return session, nil
}

// SignOut drops the local session and notifies subscribers immediately, then
// revokes the token remotely on a best-effort basis: the local session is
// gone either way.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	c.emit(backend.EventSignedOut, nil)

	if session != nil {
		_ = c.do(ctx, http.MethodPost, "/logout", session.AccessToken, nil, nil)
	}
	return nil
}

func (c *Client) UpdateUser(ctx context.Context, upd backend.UserUpdate) (*backend.User, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("auth api: no active session")
	}

	payload := map[string]any{}
	if upd.Email != nil {
		payload["email"] = *upd.Email
	}
	if upd.Password != nil {
		payload["password"] = *upd.Password
	}
	data := map[string]any{}
	if upd.DisplayName != nil {
		data["display_name"] = *upd.DisplayName
	}
	if upd.Metadata != nil {
		data["full_name"] = upd.Metadata.FullName
		data["avatar_url"] = upd.Metadata.AvatarURL
	}
	if len(data) > 0 {
		payload["data"] = data
	}

	var w wireUser
	if err := c.do(ctx, http.MethodPut, "/user", session.AccessToken, payload, &w); err != nil {
		return nil, err
	}
	u := toUser(w)

	c.mu.Lock()
	if c.session != nil {
		c.session.User = u
	}
	c.mu.Unlock()

	c.emit(backend.EventUserUpdated, nil)
	return &u, nil
}

func (c *Client) OnAuthStateChange(handler func(backend.AuthEvent, *backend.Session)) backend.Unsubscribe {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *Client) setSession(s *backend.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) emit(event backend.AuthEvent, session *backend.Session) {
	c.mu.Lock()
	hs := make([]func(backend.AuthEvent, *backend.Session), 0, len(c.handlers))
	for _, h := range c.handlers {
		hs = append(hs, h)
	}
	c.mu.Unlock()

	for _, h := range hs {
		h(event, session)
	}
}
