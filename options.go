package chatjpt

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/petal-labs/chatjpt/core"
)

// DefaultBaseURL is the default API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds the client configuration. It is assembled by New from the
// given options and frozen afterwards.
type Config struct {
	// APIKey is the API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Organization is the optional organization ID sent as OpenAI-Organization.
	Organization string

	// Project is the optional project ID sent as OpenAI-Project.
	Project string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout bounds each call. Defaults to 60 seconds. For streams it
	// bounds the handshake only.
	Timeout time.Duration

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Telemetry receives request lifecycle events. Defaults to a no-op hook.
	Telemetry core.TelemetryHook

	// Logger receives debug logs for every call. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithOrganization sets the organization ID header.
func WithOrganization(org string) Option {
	return func(c *Config) {
		c.Organization = org
	}
}

// WithProject sets the project ID header.
func WithProject(project string) Option {
	return func(c *Config) {
		c.Project = project
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTelemetry sets the telemetry hook. Use core.MultiHook to combine several.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = hook
	}
}

// WithLogger sets the logger used for per-call debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
