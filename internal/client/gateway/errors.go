package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded
// into the requested type.
var ErrMalformedResponse = errors.New("malformed response")

// TransportError is a failure to complete the HTTP exchange at all
// (DNS, connection refused, context cancelled, truncated body).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend.
//
//	var apiErr *gateway.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict { ... }
type APIError struct {
	StatusCode int
	Message    string
	RawBody    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: api error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// newAPIError extracts a human message from the error body. PostgREST uses
// "message", GoTrue uses "msg" or "error_description", storage uses "error".
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, RawBody: body, Message: http.StatusText(status)}

	var shape struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &shape) != nil {
		return e
	}
	for _, m := range []string{shape.Message, shape.Msg, shape.ErrorDescription, shape.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	return e
}
