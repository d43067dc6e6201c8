// Package ecomapi provides the authenticated API client for the single-ecom
// backend. It wraps outbound HTTP calls with JSON/multipart encoding, bearer
// token attachment, 401-triggered token refresh with single-flight
// deduplication, and structured error normalization. The client is purely a
// transport and session-refresh mechanism; it does not interpret domain data.
package ecomapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KarpelesLab/pjson"
	"github.com/google/uuid"
)

// Apply makes an API request and unmarshals the response data into the target
// object. It handles authentication, error parsing, and JSON unmarshaling.
func Apply(ctx context.Context, c *Client, path, method string, param any, target any) error {
	res, err := c.Do(ctx, path, method, param)
	if err != nil {
		return err
	}
	err = pjson.UnmarshalContext(ctx, res.Data, target)
	if Debug && err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("failed to parse json: %s\n%s", err, res.Data), "event", "ecom:not_json")
	}
	return err
}

// As makes an API request and returns the response data unmarshaled into the
// specified type T. This is a generic version of Apply that returns the target
// object directly.
func As[T any](ctx context.Context, c *Client, path, method string, param any) (T, error) {
	var target T
	res, err := c.Do(ctx, path, method, param)
	if err != nil {
		return target, err
	}
	err = pjson.UnmarshalContext(ctx, res.Data, &target)
	if Debug && err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("failed to parse json: %s\n%s", err, res.Data), "event", "ecom:not_json")
	}
	return target, err
}

// Do executes an API request and returns the raw Response envelope.
//
// The bearer token is read from the context when one was attached with
// TokenPair.Use. On a 401 with a token present, Do runs exactly one
// refresh-and-retry cycle through the client's coordinator; the retried call
// cannot trigger a second refresh. A refresh that yields no token surfaces as
// *AuthError so callers can redirect to login rather than render the failure.
func (c *Client) Do(ctx context.Context, path, method string, param any) (*Response, error) {
	token := TokenFromContext(ctx)

	res, status, err := c.do(ctx, path, method, param, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && token != nil {
		// access token expired: run one refresh cycle, then retry once
		if Debug {
			slog.DebugContext(ctx, "access token rejected, requesting refresh", "event", "ecom:token_refresh")
		}
		fresh := c.refresh.Refresh(ctx)
		if fresh == nil || fresh.AccessToken == "" {
			return nil, &AuthError{StatusCode: status}
		}
		res, status, err = c.do(ctx, path, method, param, fresh)
		if err != nil {
			return nil, err
		}
	}

	if status >= 400 {
		return nil, newAPIError(res, status)
	}

	return res, nil
}

// do issues one request and parses the envelope. It never refreshes and never
// retries; Do layers the 401 handling on top.
func (c *Client) do(ctx context.Context, path, method string, param any, token *TokenPair) (*Response, int, error) {
	u := c.base.JoinPath(path)

	var body io.Reader
	hdr := make(http.Header)

	// add parameters (depending on method)
	switch method {
	case "GET", "HEAD", "OPTIONS":
		if param != nil {
			q := u.Query()
			switch p := param.(type) {
			case url.Values:
				for k, vs := range p {
					for _, v := range vs {
						q.Add(k, v)
					}
				}
			case Param:
				for k, v := range p {
					q.Set(k, fmt.Sprint(v))
				}
			default:
				return nil, 0, fmt.Errorf("unsupported query parameter type %T", param)
			}
			u.RawQuery = q.Encode()
		}
	case "PUT", "POST", "PATCH", "DELETE":
		switch p := param.(type) {
		case nil:
			// no body
		case *Form:
			// multipart: content type comes from the writer so the
			// boundary is correct
			data, contentType, err := p.Encode()
			if err != nil {
				return nil, 0, err
			}
			body = bytes.NewReader(data)
			hdr.Set("Content-Type", contentType)
		default:
			data, err := pjson.MarshalContext(ctx, param)
			if err != nil {
				return nil, 0, err
			}
			body = bytes.NewReader(data)
			hdr.Set("Content-Type", "application/json")
		}
	default:
		return nil, 0, fmt.Errorf("invalid request method %s", method)
	}

	r, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range hdr {
		r.Header[k] = v
	}
	if r.Header.Get("X-Request-Id") == "" {
		r.Header.Set("X-Request-Id", uuid.New().String())
	}
	if token != nil && token.AccessToken != "" {
		r.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))
	}

	t := time.Now()

	resp, err := c.http.Do(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to run api query: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if Debug {
		d := time.Since(t)
		slog.DebugContext(ctx, fmt.Sprintf("[ecom] %s %s => %s", method, path, d), "event", "ecom:debug_query", "ecom:method", method, "ecom:request", path, "ecom:duration", d)
	}

	result := &Response{}
	if err := pjson.UnmarshalContext(ctx, raw, result); err != nil {
		if Debug {
			slog.ErrorContext(ctx, fmt.Sprintf("failed to parse json: %s\n%s", err, raw), "event", "ecom:not_json")
		}
		if resp.StatusCode >= 400 {
			// keep the error taxonomy intact even without a body
			return fallbackEnvelope(resp.StatusCode), resp.StatusCode, nil
		}
		return nil, 0, fmt.Errorf("failed to parse response body: %w", err)
	}

	return result, resp.StatusCode, nil
}
