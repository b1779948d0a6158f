package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petal-labs/chatjpt/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode classifies err into a process exit code.
func exitCode(err error) int {
	var apiErr *core.APIError
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return ExitValidation
	case errors.As(err, &apiErr):
		return ExitAPI
	case errors.Is(err, core.ErrTransport):
		return ExitNetwork
	default:
		return ExitAPI
	}
}

// fail reports err and attaches the exit code for its class.
func (a *App) fail(err error) error {
	code := exitCode(err)

	errType := "error"
	switch code {
	case ExitValidation:
		errType = "validation_error"
	case ExitNetwork:
		errType = "network_error"
	}
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		errType = "api_error"
		if apiErr.Type != "" {
			errType = apiErr.Type
		}
	}

	a.reportError(errType, err)
	return exitWithCode(code, err)
}

// invalid reports a usage or input problem found before any API call.
func (a *App) invalid(err error) error {
	a.reportError("validation_error", err)
	return exitWithCode(ExitValidation, err)
}

func (a *App) reportError(errType string, err error) {
	if !a.jsonOutput {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		var apiErr *core.APIError
		if errors.As(err, &apiErr) && apiErr.RequestID != "" {
			fmt.Fprintf(a.stderr, "  Status: %d, Request ID: %s\n", apiErr.StatusCode, apiErr.RequestID)
		}
		return
	}

	body := map[string]any{
		"type":    errType,
		"message": err.Error(),
	}
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		body["message"] = apiErr.Message
		body["status"] = apiErr.StatusCode
		if apiErr.Code != "" {
			body["code"] = apiErr.Code
		}
		if apiErr.RequestID != "" {
			body["request_id"] = apiErr.RequestID
		}
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{"error": body})
}
