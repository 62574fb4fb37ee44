// File: internal/apiclient/errors.go
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingToken is returned when the sign-in response carries no token.
var ErrMissingToken = errors.New("invalid login response: missing token")

// ErrRefreshRejected is returned when the refresh endpoint does not yield a new access token.
var ErrRefreshRejected = errors.New("token refresh failed")

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Code       string
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// newStatusError reads the server's error body when it has one.
func newStatusError(method, path string, status int, body []byte) *StatusError {
	se := &StatusError{StatusCode: status, Method: method, Path: path, Body: body}
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		se.Code = apiErr.Code
		se.Message = apiErr.Message
	}
	return se
}
