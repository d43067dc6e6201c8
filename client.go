package ecomapi

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"
)

var (
	// Debug enables verbose logging of API requests and responses
	Debug = false
	// EnvBaseURL is the environment variable consulted for the API base URL
	EnvBaseURL = "ECOM_API_URL"
	// Scheme defines the URL scheme used when no base URL is configured
	Scheme = "https"
	// Host defines the default hostname used when no base URL is configured
	Host = "api.single-ecom.dev"
)

var HttpTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   50,
	MaxConnsPerHost:       200,
	IdleConnTimeout:       90 * time.Second,
	ResponseHeaderTimeout: 90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 5 * time.Second,
}

// Client issues authenticated requests against one backend base URL.
// It carries a cookie jar so the HttpOnly refresh cookie set by the backend
// rides along on every call, and owns the refresh coordinator used to recover
// from expired access tokens.
type Client struct {
	base    *url.URL
	http    *http.Client
	refresh *RefreshCoordinator
}

// New builds a Client from the environment. The base URL is read once from
// EnvBaseURL; when unset, the package-level Scheme and Host are used. The same
// construction path serves server-side processes and build-time configured
// binaries alike.
func New() (*Client, error) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		return NewWithBaseURL(v)
	}
	return NewWithBaseURL(Scheme + "://" + Host)
}

// NewWithBaseURL builds a Client against an explicit base URL. Tests use this
// to point the client at local servers.
func NewWithBaseURL(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: u,
		http: &http.Client{
			Transport: HttpTransport,
			Jar:       jar,
			Timeout:   120 * time.Second,
		},
		refresh: NewRefreshCoordinator(),
	}, nil
}

// BaseURL returns the base URL the client was constructed with.
func (c *Client) BaseURL() *url.URL {
	return c.base
}

// SetRefreshCallback installs the session layer's refresh callback on the
// client's coordinator. It is normally called once at startup; the callback
// persists until replaced.
func (c *Client) SetRefreshCallback(cb RefreshFunc) {
	c.refresh.SetCallback(cb)
}

// Refresher exposes the client's refresh coordinator.
func (c *Client) Refresher() *RefreshCoordinator {
	return c.refresh
}
