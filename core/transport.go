package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every call when TransportConfig.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// Request describes one API call.
type Request struct {
	// Operation is a stable, low-cardinality name such as "files.retrieve".
	Operation string
	Method    string
	// Path is appended to the base URL, e.g. "/files/file-abc".
	Path  string
	Query url.Values
	// Body is encoded as JSON, or as multipart/form-data when it
	// implements Multipart. A nil Body sends no payload.
	Body any
}

// ErrorDecoder turns a failed response body into an error.
// status is 0 for error events received inside an event stream.
type ErrorDecoder func(status int, body []byte, requestID string) error

// TransportConfig holds everything a Transport needs. It is copied by
// NewTransport and never modified afterwards.
type TransportConfig struct {
	APIKey       Secret
	BaseURL      string
	Organization string
	Project      string
	Headers      http.Header
	UserAgent    string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Telemetry    TelemetryHook
	Logger       *slog.Logger
	DecodeError  ErrorDecoder
}

// Transport executes requests against the API. It is safe for concurrent
// use and holds no per-call state.
type Transport struct {
	cfg TransportConfig
}

// NewTransport returns a Transport for cfg, filling in defaults.
func NewTransport(cfg TransportConfig) *Transport {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Headers = cfg.Headers.Clone()
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = NoopTelemetryHook{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DecodeError == nil {
		cfg.DecodeError = rawAPIError
	}
	return &Transport{cfg: cfg}
}

// Config returns a copy of the transport configuration.
func (t *Transport) Config() TransportConfig {
	cfg := t.cfg
	cfg.Headers = cfg.Headers.Clone()
	return cfg
}

// Send performs req and decodes a 2xx JSON body into a new T.
func Send[T any](ctx context.Context, t *Transport, req Request) (*T, error) {
	var out T
	err := t.run(ctx, req, "application/json", func(resp *http.Response) error {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Op: "read response", Err: err}
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return &DecodeError{Body: string(body), Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SendAsync performs Send in a new goroutine.
func SendAsync[T any](ctx context.Context, t *Transport, req Request) *Future[*T] {
	return Async(func() (*T, error) {
		return Send[T](ctx, t, req)
	})
}

// SendRaw performs req and returns the 2xx body unparsed.
func (t *Transport) SendRaw(ctx context.Context, req Request) ([]byte, error) {
	var out []byte
	err := t.run(ctx, req, "*/*", func(resp *http.Response) error {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Op: "read response", Err: err}
		}
		out = body
		return nil
	})
	return out, err
}

// Download performs req and writes the 2xx body to dst, creating parent
// directories as needed. The body is written to a temporary file next to
// dst and renamed into place, so dst only appears once the transfer has
// completed. Nothing is created for a non-2xx response.
func (t *Transport) Download(ctx context.Context, req Request, dst string) error {
	return t.run(ctx, req, "*/*", func(resp *http.Response) error {
		return writeFile(dst, resp.Body)
	})
}

// DownloadAsync performs Download in a new goroutine. The Future resolves
// to dst.
func (t *Transport) DownloadAsync(ctx context.Context, req Request, dst string) *Future[string] {
	return Async(func() (string, error) {
		if err := t.Download(ctx, req, dst); err != nil {
			return "", err
		}
		return dst, nil
	})
}

// SendStream performs req and returns a Stream over its event frames.
// A non-2xx handshake is returned as an error before any frame is read.
// The configured timeout bounds the handshake only; the caller's context
// governs the rest of the stream.
func SendStream[T any](ctx context.Context, t *Transport, req Request) (*Stream[T], error) {
	ctx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(t.cfg.Timeout, func() { cancel(ErrTimeout) })

	ev := t.begin(ctx, req)
	resp, err := t.exchange(ctx, req, ev.RequestID, "text/event-stream")
	timer.Stop()
	t.end(ctx, ev, resp, err)
	if err != nil {
		cancel(err)
		return nil, err
	}

	requestID := ev.RequestID
	return newStream[T](resp.Body, func() { cancel(context.Canceled) }, func(data []byte) error {
		return t.cfg.DecodeError(0, data, requestID)
	}), nil
}

// run performs a bounded call and hands a 2xx response to handle.
func (t *Transport) run(ctx context.Context, req Request, accept string, handle func(*http.Response) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	ev := t.begin(ctx, req)
	resp, err := t.exchange(ctx, req, ev.RequestID, accept)
	if err == nil {
		err = handle(resp)
		resp.Body.Close()
		if err != nil && ctx.Err() != nil {
			var te *TransportError
			if errors.As(err, &te) {
				te.Err = context.Cause(ctx)
			}
		}
	}
	t.end(ctx, ev, resp, err)
	return err
}

// exchange sends req and returns the response once its headers have
// arrived. Non-2xx responses are drained and returned as errors.
func (t *Transport) exchange(ctx context.Context, req Request, requestID, accept string) (*http.Response, error) {
	if err := Validate(req.Body); err != nil {
		return nil, err
	}

	httpReq, err := t.newHTTPRequest(ctx, req, requestID, accept)
	if err != nil {
		return nil, err
	}

	resp, err := t.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		return nil, &TransportError{Op: "send request", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Op: "read response", Err: err}
		}
		remoteID := resp.Header.Get("x-request-id")
		return nil, t.cfg.DecodeError(resp.StatusCode, body, remoteID)
	}
	return resp, nil
}

func (t *Transport) newHTTPRequest(ctx context.Context, req Request, requestID, accept string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	switch b := req.Body.(type) {
	case nil:
	case Multipart:
		buf, ct, err := b.MultipartForm().Encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	u := t.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	for key, values := range t.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("X-Client-Request-Id", requestID)
	httpReq.Header.Set("Accept", accept)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// buildHeaders constructs the headers shared by every call.
func (t *Transport) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Authorization", "Bearer "+t.cfg.APIKey.Expose())
	if t.cfg.Organization != "" {
		headers.Set("OpenAI-Organization", t.cfg.Organization)
	}
	if t.cfg.Project != "" {
		headers.Set("OpenAI-Project", t.cfg.Project)
	}
	if t.cfg.UserAgent != "" {
		headers.Set("User-Agent", t.cfg.UserAgent)
	}

	for key, values := range t.cfg.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	return headers
}

func (t *Transport) begin(ctx context.Context, req Request) RequestStartEvent {
	ev := RequestStartEvent{
		Operation: req.Operation,
		Method:    req.Method,
		Path:      req.Path,
		RequestID: uuid.NewString(),
		Start:     time.Now(),
	}
	t.cfg.Logger.DebugContext(ctx, "sending request",
		"operation", ev.Operation,
		"method", ev.Method,
		"path", ev.Path,
		"request_id", ev.RequestID,
	)
	t.cfg.Telemetry.OnRequestStart(ev)
	return ev
}

func (t *Transport) end(ctx context.Context, start RequestStartEvent, resp *http.Response, err error) {
	ev := RequestEndEvent{
		Operation:  start.Operation,
		Method:     start.Method,
		Path:       start.Path,
		RequestID:  start.RequestID,
		StatusCode: StatusCode(err),
		Start:      start.Start,
		End:        time.Now(),
		Err:        err,
	}
	if resp != nil {
		ev.StatusCode = resp.StatusCode
	}

	attrs := []any{
		"operation", ev.Operation,
		"method", ev.Method,
		"path", ev.Path,
		"status", ev.StatusCode,
		"request_id", ev.RequestID,
		"duration", ev.Duration(),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	t.cfg.Logger.DebugContext(ctx, "request completed", attrs...)
	t.cfg.Telemetry.OnRequestEnd(ev)
}

// rawAPIError is the fallback ErrorDecoder. It uses the body text as the
// message without interpreting it.
func rawAPIError(status int, body []byte, requestID string) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg, RequestID: requestID}
}

func writeFile(dst string, r io.Reader) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &TransportError{Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return &TransportError{Op: "create file", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return &TransportError{Op: "read response", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &TransportError{Op: "write file", Err: err}
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return &TransportError{Op: "write file", Err: err}
	}
	return nil
}
