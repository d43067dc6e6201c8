package ecomapi

import (
	"context"
)

// TokenPair holds the short-lived access token and the opaque refresh token
// issued by the auth endpoints. The client treats both as opaque strings.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Type         string `json:"token_type,omitempty"`
	Expires      int    `json:"expires_in,omitempty"`
}

type tokenValue int

type withToken struct {
	context.Context
	token *TokenPair
}

func (w *withToken) Value(v any) any {
	if _, ok := v.(tokenValue); ok {
		return w.token
	}

	return w.Context.Value(v)
}

// Use returns a new context carrying this token pair. Requests issued with the
// returned context send the access token as a bearer credential.
func (t *TokenPair) Use(ctx context.Context) context.Context {
	return &withToken{ctx, t}
}

// TokenFromContext returns the token pair attached via Use, or nil.
func TokenFromContext(ctx context.Context) *TokenPair {
	if t, ok := ctx.Value(tokenValue(0)).(*TokenPair); ok {
		return t
	}
	return nil
}
