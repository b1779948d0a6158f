package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Events carry operational metadata only. API keys, prompts, uploaded file
// contents and model outputs are never included, so events can be logged or
// exported without risk of leaking credentials or user data.
//
// Hooks are called from the goroutine performing the request and must be
// safe for concurrent use.
type TelemetryHook interface {
	// OnRequestStart is called before a request is sent.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called once the response status is known or the call failed.
	// For streams it fires when the handshake completes, not when the stream ends.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Operation string    // Stable operation name, e.g. "files.retrieve"
	Method    string    // HTTP method
	Path      string    // Endpoint path relative to the base URL
	RequestID string    // Value sent as X-Client-Request-Id
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Operation  string
	Method     string
	Path       string
	RequestID  string
	StatusCode int // 0 when no response was received
	Start      time.Time
	End        time.Time
	Err        error // nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// MultiHook fans events out to several hooks in order.
type MultiHook []TelemetryHook

// OnRequestStart forwards e to every hook.
func (m MultiHook) OnRequestStart(e RequestStartEvent) {
	for _, h := range m {
		h.OnRequestStart(e)
	}
}

// OnRequestEnd forwards e to every hook.
func (m MultiHook) OnRequestEnd(e RequestEndEvent) {
	for _, h := range m {
		h.OnRequestEnd(e)
	}
}

// Compile-time checks.
var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = MultiHook(nil)
)
