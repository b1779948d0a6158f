package chatjpt

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/petal-labs/chatjpt/core"
	"github.com/petal-labs/chatjpt/internal/normalize"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.4.0"

// Environment variables read by NewFromEnv.
const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvBaseURL   = "OPENAI_BASE_URL"
	EnvOrgID     = "OPENAI_ORG_ID"
	EnvProjectID = "OPENAI_PROJECT_ID"
)

// ErrAPIKeyRequired is returned by New when the API key is empty.
var ErrAPIKeyRequired = errors.New("chatjpt: API key is required")

// Client is the entry point to the API. It hands out one resource client
// per API area, all sharing the same configuration.
// Client is safe for concurrent use.
type Client struct {
	config    Config
	transport *core.Transport

	chat        *ChatClient
	audio       *AudioClient
	images      *ImagesClient
	embeddings  *EmbeddingsClient
	moderations *ModerationsClient
	files       *FilesClient
	fineTuning  *FineTuningClient
	models      *ModelsClient
}

// New creates a Client with the given API key and options.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		Timeout:    core.DefaultTimeout,
		HTTPClient: http.DefaultClient,
		Telemetry:  core.NoopTelemetryHook{},
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Headers = cfg.Headers.Clone()

	t := core.NewTransport(core.TransportConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Organization: cfg.Organization,
		Project:      cfg.Project,
		Headers:      cfg.Headers,
		UserAgent:    "chatjpt-go/" + Version,
		Timeout:      cfg.Timeout,
		HTTPClient:   cfg.HTTPClient,
		Telemetry:    cfg.Telemetry,
		Logger:       cfg.Logger,
		DecodeError:  normalize.APIError,
	})

	return &Client{
		config:      cfg,
		transport:   t,
		chat:        &ChatClient{t: t},
		audio:       &AudioClient{t: t},
		images:      &ImagesClient{t: t},
		embeddings:  &EmbeddingsClient{t: t},
		moderations: &ModerationsClient{t: t},
		files:       &FilesClient{t: t},
		fineTuning:  &FineTuningClient{t: t},
		models:      &ModelsClient{t: t},
	}, nil
}

// NewFromEnv creates a Client from OPENAI_API_KEY, applying
// OPENAI_BASE_URL, OPENAI_ORG_ID and OPENAI_PROJECT_ID when set.
// Explicit options are applied after the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	var envOpts []Option
	if v := os.Getenv(EnvBaseURL); v != "" {
		envOpts = append(envOpts, WithBaseURL(v))
	}
	if v := os.Getenv(EnvOrgID); v != "" {
		envOpts = append(envOpts, WithOrganization(v))
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		envOpts = append(envOpts, WithProject(v))
	}
	return New(os.Getenv(EnvAPIKey), append(envOpts, opts...)...)
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Headers = cfg.Headers.Clone()
	return cfg
}

// Chat returns the chat completions client.
func (c *Client) Chat() *ChatClient { return c.chat }

// Audio returns the audio client.
func (c *Client) Audio() *AudioClient { return c.audio }

// Images returns the images client.
func (c *Client) Images() *ImagesClient { return c.images }

// Embeddings returns the embeddings client.
func (c *Client) Embeddings() *EmbeddingsClient { return c.embeddings }

// Moderations returns the moderations client.
func (c *Client) Moderations() *ModerationsClient { return c.moderations }

// Files returns the files client.
func (c *Client) Files() *FilesClient { return c.files }

// FineTuning returns the fine-tuning client.
func (c *Client) FineTuning() *FineTuningClient { return c.fineTuning }

// Models returns the models client.
func (c *Client) Models() *ModelsClient { return c.models }
