package ecomapi

import (
	"context"
	"sync"
)

// Login authenticates with email and password and returns the issued token
// pair. The backend also sets the HttpOnly refresh cookie on this call; the
// client's jar keeps it for later refreshes.
func Login(ctx context.Context, c *Client, email, password string) (*TokenPair, error) {
	return As[*TokenPair](ctx, c, "auth/login", "POST", Param{"email": email, "password": password})
}

// Refresh mints a new token pair from the refresh cookie held by the client's
// jar. No bearer token is attached; the cookie is the credential.
func Refresh(ctx context.Context, c *Client) (*TokenPair, error) {
	ctx = &withToken{ctx, nil} // the cookie is the credential, drop any stale bearer
	return As[*TokenPair](ctx, c, "auth/refresh", "POST", nil)
}

// Logout invalidates the session server-side and clears the refresh cookie.
func Logout(ctx context.Context, c *Client) error {
	_, err := c.Do(ctx, "auth/logout", "POST", nil)
	return err
}

// Session owns the current token pair for a logged-in user and keeps the
// client's refresh coordinator pointed at the refresh endpoint, so any request
// that hits a 401 transparently renews the pair held here.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token *TokenPair

	// OnNewToken, when set, receives every pair obtained by login or
	// refresh so the application can persist it.
	OnNewToken func(*TokenPair)
}

// NewSession binds a session to the client and registers its refresh callback
// on the client's coordinator. The callback persists for the life of the
// client unless replaced.
func NewSession(c *Client) *Session {
	s := &Session{client: c}
	c.SetRefreshCallback(s.refresh)
	return s
}

func (s *Session) refresh(ctx context.Context) (*TokenPair, error) {
	t, err := Refresh(ctx, s.client)
	if err != nil {
		return nil, err
	}
	s.setToken(t)
	return t, nil
}

// Login authenticates and stores the issued pair on the session.
func (s *Session) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	t, err := Login(ctx, s.client, email, password)
	if err != nil {
		return nil, err
	}
	s.setToken(t)
	return t, nil
}

// Logout invalidates the session server-side and drops the stored pair.
func (s *Session) Logout(ctx context.Context) error {
	err := Logout(s.Use(ctx), s.client)
	s.setToken(nil)
	return err
}

// Token returns the currently held pair, or nil when logged out.
func (s *Session) Token() *TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Use attaches the session's current token to ctx. With no token held the
// context is returned unchanged.
func (s *Session) Use(ctx context.Context) context.Context {
	t := s.Token()
	if t == nil {
		return ctx
	}
	return t.Use(ctx)
}

func (s *Session) setToken(t *TokenPair) {
	s.mu.Lock()
	s.token = t
	cb := s.OnNewToken
	s.mu.Unlock()
	if cb != nil && t != nil {
		cb(t)
	}
}
