package ecomapi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RefreshFunc obtains a new token pair, typically by calling the refresh
// endpoint with the HttpOnly refresh cookie. Returning (nil, nil) means the
// session cannot be refreshed.
type RefreshFunc func(ctx context.Context) (*TokenPair, error)

// RefreshCoordinator collapses concurrent token refreshes into a single
// in-flight call. Many requests observing an expired token at once must not
// each hit the refresh endpoint: rotation schemes invalidate the old refresh
// token on first use, so a second concurrent refresh would fail.
type RefreshCoordinator struct {
	mu    sync.RWMutex
	cb    RefreshFunc
	group singleflight.Group
}

func NewRefreshCoordinator() *RefreshCoordinator {
	return &RefreshCoordinator{}
}

// SetCallback installs or replaces the refresh callback.
func (r *RefreshCoordinator) SetCallback(cb RefreshFunc) {
	r.mu.Lock()
	r.cb = cb
	r.mu.Unlock()
}

// Refresh returns a fresh token pair, or nil when no callback is registered or
// the callback failed. Callback errors are deliberately swallowed here: the
// single 401 call site decides what "no token" means, once. Completed flights
// are forgotten, so a later 401 starts a fresh refresh.
func (r *RefreshCoordinator) Refresh(ctx context.Context) *TokenPair {
	r.mu.RLock()
	cb := r.cb
	r.mu.RUnlock()
	if cb == nil {
		if Debug {
			slog.DebugContext(ctx, "no refresh callback registered", "event", "ecom:refresh_unavailable")
		}
		return nil
	}

	// the flight is shared by every waiter, so it must not die with the
	// first caller's context
	fctx := context.WithoutCancel(ctx)
	v, _, _ := r.group.Do("refresh", func() (any, error) {
		t, err := cb(fctx)
		if err != nil {
			if Debug {
				slog.DebugContext(fctx, fmt.Sprintf("token refresh failed: %s", err), "event", "ecom:refresh_fail")
			}
			return (*TokenPair)(nil), nil
		}
		return t, nil
	})
	t, _ := v.(*TokenPair)
	return t
}
