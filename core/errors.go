package core

import (
	"context"
	"errors"
	"fmt"
)

// APIError is returned whenever the API answers with a non-2xx status.
// It also reports error events received inside an event stream.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
	Param      string
	RequestID  string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("openai: %s (status=%d, code=%s, request_id=%s)",
			e.Message, e.StatusCode, e.Code, e.RequestID)
	}
	return fmt.Sprintf("openai: %s (status=%d, code=%s)", e.Message, e.StatusCode, e.Code)
}

// Unwrap returns the classification sentinel.
func (e *APIError) Unwrap() error {
	return e.Err
}

// InvalidRequestError reports a request that failed local validation.
// It is returned before anything is sent.
type InvalidRequestError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidRequest.
func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// TransportError reports a failure that happened before or while a response
// was being received: connection errors, timeouts, broken streams and
// unreadable upload sources. It never carries a status code.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("openai: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout reports whether the failure was caused by the call deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) || errors.Is(e.Err, ErrTimeout) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	Body string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("openai: decode response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes every DecodeError match ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Sentinel errors for classification.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limited")
	ErrBadRequest     = errors.New("bad request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrServer         = errors.New("server error")
	ErrTransport      = errors.New("transport error")
	ErrTimeout        = errors.New("request timed out")
	ErrDecode         = errors.New("decode error")
	ErrInvalidRequest = errors.New("invalid request")
)

// StatusCode extracts the HTTP status from an *APIError in err's chain.
// It returns 0 when err carries no status.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
