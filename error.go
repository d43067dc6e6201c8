package ecomapi

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// UnknownErrorCode is the sentinel code used when the backend returns a
// failure the client cannot attribute (non-JSON body, missing error detail).
const UnknownErrorCode = "UNKNOWN_ERROR"

// ErrLoginRequired is reported when a request fails with 401 and the session
// could not be refreshed. Callers check for it to redirect to login instead of
// rendering an inline error.
var ErrLoginRequired = errors.New("login required")

// Error is the normalized failure for any non-2xx backend response.
type Error struct {
	Code       string
	Message    string
	Field      string
	StatusCode int
	Details    map[string]any
	Errors     []ErrorDetail

	parent error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[ecom] error from server: %s", e.Message)
}

func (e *Error) Unwrap() error {
	if e.parent != nil {
		return e.parent
	}
	// check for various type of errors
	switch e.StatusCode {
	case 403:
		return os.ErrPermission
	case 404:
		return fs.ErrNotExist
	default:
		return nil
	}
}

// AuthError marks a 401 that survived a refresh attempt. It is distinct from
// Error so call sites can route to a login flow rather than display a message.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return "[ecom] authentication required: session refresh failed"
}

func (e *AuthError) Unwrap() error {
	return ErrLoginRequired
}

// newAPIError derives the normalized error from a parsed error envelope and
// the HTTP status code. The per-field Errors list, when present, takes
// precedence over the single error detail when building the display message.
func newAPIError(res *Response, statusCode int) *Error {
	e := &Error{
		Code:       UnknownErrorCode,
		StatusCode: statusCode,
		Details:    res.Details,
		Errors:     res.Errors,
	}
	if res.Err != nil {
		e.Code = res.Err.Code
		e.Message = res.Err.Message
		e.Field = res.Err.Field
	}
	if len(res.Errors) > 0 {
		parts := make([]string, 0, len(res.Errors))
		for _, d := range res.Errors {
			if d.Field != "" {
				parts = append(parts, d.Field+": "+d.Message)
			} else {
				parts = append(parts, d.Message)
			}
		}
		e.Message = strings.Join(parts, ", ")
	}
	if e.Message == "" {
		e.Message = statusMessage(statusCode)
	}
	return e
}

// fallbackEnvelope synthesizes an error envelope for responses whose body is
// not valid JSON, so the error taxonomy is never short-circuited.
func fallbackEnvelope(statusCode int) *Response {
	return &Response{
		Success: false,
		Err: &ErrorDetail{
			Code:    UnknownErrorCode,
			Message: statusMessage(statusCode),
		},
	}
}

func statusMessage(statusCode int) string {
	if s := http.StatusText(statusCode); s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// ErrorMessage extracts a display message from any error returned by the
// client, falling back to the error's own text for transport failures.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FieldErrors extracts a field→message map for form display. The plural
// Errors list wins; a single error detail bound to a field is used otherwise.
func FieldErrors(err error) map[string]string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	m := make(map[string]string)
	for _, d := range e.Errors {
		if d.Field != "" {
			m[d.Field] = d.Message
		}
	}
	if len(m) == 0 && e.Field != "" {
		m[e.Field] = e.Message
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// HasFieldErrors reports whether err carries field-level detail at all.
func HasFieldErrors(err error) bool {
	return len(FieldErrors(err)) > 0
}
