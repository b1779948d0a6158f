// Package normalize turns API error bodies into *core.APIError values.
package normalize

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/petal-labs/chatjpt/core"
)

// errorEnvelope matches {"error":{"message":"...","type":"...","param":"...","code":"..."}}.
type errorEnvelope struct {
	Error *struct {
		Message string     `json:"message"`
		Type    string     `json:"type"`
		Param   flexString `json:"param"`
		Code    flexString `json:"code"`
	} `json:"error"`
}

// flexString accepts a JSON string, number or null.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	*s = flexString(data)
	return nil
}

// APIError builds an *core.APIError from a response body.
// When the body is not an error envelope, or carries no message, the raw
// body text becomes the message. An empty body falls back to the HTTP
// status text. status is 0 for error events read from a stream.
func APIError(status int, body []byte, requestID string) error {
	apiErr := &core.APIError{
		StatusCode: status,
		RequestID:  requestID,
		Err:        SentinelForStatus(status),
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Message = env.Error.Message
		apiErr.Type = env.Error.Type
		apiErr.Param = string(env.Error.Param)
		apiErr.Code = string(env.Error.Code)
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusConflict:
		return core.ErrConflict
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 400 && status < 500:
		return core.ErrBadRequest
	default:
		return core.ErrServer
	}
}
