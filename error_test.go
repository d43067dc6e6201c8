package ecomapi

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorUnwrapping tests the Unwrap method of the Error type
func TestErrorUnwrapping(t *testing.T) {
	testCases := []struct {
		name        string
		statusCode  int
		errorMsg    string
		expectedErr error
	}{
		{"Permission Denied", 403, "Permission denied", os.ErrPermission},
		{"Not Found", 404, "Not found", fs.ErrNotExist},
		{"Server Error", 500, "Internal server error", nil},
		{"Custom Error", 400, "Bad request", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := &Error{
				Code:       "SOME_CODE",
				Message:    tc.errorMsg,
				StatusCode: tc.statusCode,
			}

			require.Equal(t, "[ecom] error from server: "+tc.errorMsg, err.Error())

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}

	// an explicit parent wins over the code-based mapping
	parentErr := errors.New("parent error")
	err := &Error{Message: "wrapped", StatusCode: 404, parent: parentErr}
	require.ErrorIs(t, err, parentErr)
	require.False(t, errors.Is(err, fs.ErrNotExist))
}

// TestMessagePrecedence: the per-field errors list wins over the single error
// detail when deriving the display message.
func TestMessagePrecedence(t *testing.T) {
	res := &Response{
		Success: false,
		Err:     &ErrorDetail{Code: "BAD_REQUEST", Message: "bad request"},
		Errors: []ErrorDetail{
			{Code: "REQUIRED", Message: "required", Field: "email"},
		},
	}
	e := newAPIError(res, http.StatusBadRequest)
	require.Equal(t, "email: required", e.Message)
	require.Equal(t, "BAD_REQUEST", e.Code)

	// several entries join in order
	res.Errors = append(res.Errors, ErrorDetail{Code: "TOO_SHORT", Message: "too short", Field: "password"})
	e = newAPIError(res, http.StatusBadRequest)
	require.Equal(t, "email: required, password: too short", e.Message)

	// entries without a field keep just the message
	e = newAPIError(&Response{Errors: []ErrorDetail{{Message: "something broke"}}}, http.StatusBadRequest)
	require.Equal(t, "something broke", e.Message)
}

// TestFallbackEnvelope: non-JSON bodies synthesize the unknown-error shape.
func TestFallbackEnvelope(t *testing.T) {
	res := fallbackEnvelope(http.StatusBadGateway)
	require.False(t, res.Success)
	require.Equal(t, UnknownErrorCode, res.Err.Code)
	require.Equal(t, "Bad Gateway", res.Err.Message)

	// statuses without registered text fall back to "HTTP <status>"
	res = fallbackEnvelope(599)
	require.Equal(t, "HTTP 599", res.Err.Message)
}

func TestEmptyEnvelopeMessage(t *testing.T) {
	// an error envelope with no message at all still yields a display string
	e := newAPIError(&Response{Success: false}, http.StatusConflict)
	require.Equal(t, UnknownErrorCode, e.Code)
	require.Equal(t, "Conflict", e.Message)
}

func TestFieldErrors(t *testing.T) {
	err := error(&Error{
		Code:       "VALIDATION",
		Message:    "invalid",
		StatusCode: 400,
		Errors: []ErrorDetail{
			{Code: "REQUIRED", Message: "Name is required", Field: "name"},
			{Code: "RANGE", Message: "Price must be positive", Field: "price"},
		},
	})
	require.True(t, HasFieldErrors(err))
	require.Equal(t, map[string]string{
		"name":  "Name is required",
		"price": "Price must be positive",
	}, FieldErrors(err))

	// single error detail bound to a field
	err = &Error{Code: "TAKEN", Message: "already in use", Field: "email", StatusCode: 409}
	require.Equal(t, map[string]string{"email": "already in use"}, FieldErrors(err))

	// no field detail at all
	err = &Error{Code: "NOT_FOUND", Message: "no such product", StatusCode: 404}
	require.False(t, HasFieldErrors(err))
	require.Nil(t, FieldErrors(err))

	// non-client errors carry no fields
	require.Nil(t, FieldErrors(errors.New("dial tcp: connection refused")))
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "", ErrorMessage(nil))
	require.Equal(t, "no such product", ErrorMessage(&Error{Message: "no such product"}))
	require.Equal(t, "dial tcp: connection refused", ErrorMessage(errors.New("dial tcp: connection refused")))
}

func TestAuthError(t *testing.T) {
	err := error(&AuthError{StatusCode: 401})
	require.ErrorIs(t, err, ErrLoginRequired)

	// auth errors are not API errors; callers branch on the distinction
	var apiErr *Error
	require.False(t, errors.As(err, &apiErr))
}
