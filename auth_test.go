package ecomapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// authBackend is a minimal fake of the auth surface: login issues t1 plus the
// HttpOnly refresh cookie, the protected endpoint only accepts t2, and the
// refresh endpoint exchanges the cookie for t2.
func authBackend(t *testing.T, refreshes *atomic.Int32) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "refresh_token",
			Value:    "cookie-r1",
			Path:     "/",
			HttpOnly: true,
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"access_token": "t1", "refresh_token": "r1"},
		})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		// the cookie is the credential here, not the bearer header
		require.Empty(t, r.Header.Get("Authorization"))
		ck, err := r.Cookie("refresh_token")
		if err != nil || ck.Value != "cookie-r1" {
			unauthorizedEnvelope(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"access_token": "t2", "refresh_token": "r2"},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "bye"})
	})
	mux.HandleFunc("GET /orders/my", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t2" {
			unauthorizedEnvelope(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "o9", "status": "shipped", "total": 3.5}},
		})
	})
	return mux
}

// TestSessionRefreshFlow drives the whole loop: login, expired token, cookie
// refresh through the coordinator, transparent retry, session updated.
func TestSessionRefreshFlow(t *testing.T) {
	var refreshes atomic.Int32
	c := newTestClient(t, authBackend(t, &refreshes))
	s := NewSession(c)

	var persisted []string
	s.OnNewToken = func(tp *TokenPair) {
		persisted = append(persisted, tp.AccessToken)
	}

	pair, err := s.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.Equal(t, "t1", pair.AccessToken)
	require.Equal(t, "t1", s.Token().AccessToken)

	// t1 is already expired server-side; the request recovers on its own
	orders, err := ListMyOrders(s.Use(context.Background()), c)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "o9", orders[0].ID)

	require.Equal(t, int32(1), refreshes.Load())
	require.Equal(t, "t2", s.Token().AccessToken)
	require.Equal(t, []string{"t1", "t2"}, persisted)
}

func TestSessionLogout(t *testing.T) {
	var refreshes atomic.Int32
	c := newTestClient(t, authBackend(t, &refreshes))
	s := NewSession(c)

	_, err := s.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.NotNil(t, s.Token())

	require.NoError(t, s.Logout(context.Background()))
	require.Nil(t, s.Token())

	// no token held, nothing attached
	ctx := s.Use(context.Background())
	require.Nil(t, TokenFromContext(ctx))
}
