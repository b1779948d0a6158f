package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type echoRequest struct {
	Model string `json:"model" validate:"required"`
	User  string `json:"user,omitempty"`
}

type echoResponse struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

type uploadRequest struct {
	Purpose string `json:"purpose" validate:"required"`
	File    File   `json:"-" form:"file" validate:"required"`
}

func (r *uploadRequest) MultipartForm() *Form {
	return NewForm().Add("purpose", r.Purpose).AddFile("file", r.File)
}

// recordingHook collects events for assertions.
type recordingHook struct {
	mu     sync.Mutex
	starts []RequestStartEvent
	ends   []RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e RequestStartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, e)
}

func (h *recordingHook) OnRequestEnd(e RequestEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, e)
}

func newTestTransport(url string, opts ...func(*TransportConfig)) *Transport {
	cfg := TransportConfig{
		APIKey:       NewSecret("sk-test"),
		BaseURL:      url,
		Organization: "org-123",
		UserAgent:    "chatjpt-test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewTransport(cfg)
}

func TestSendJSON(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/v1/echo" {
			t.Errorf("Path = %q, want /v1/echo", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("limit = %q, want 2", r.URL.Query().Get("limit"))
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer sk-test")
		}
		if got := r.Header.Get("OpenAI-Organization"); got != "org-123" {
			t.Errorf("OpenAI-Organization = %q, want org-123", got)
		}
		if got := r.Header.Get("OpenAI-Project"); got != "" {
			t.Errorf("OpenAI-Project = %q, want empty", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != "chatjpt-test" {
			t.Errorf("User-Agent = %q, want chatjpt-test", got)
		}
		if got := r.Header.Get("X-Custom"); got != "yes" {
			t.Errorf("X-Custom = %q, want yes", got)
		}
		if r.Header.Get("X-Client-Request-Id") == "" {
			t.Error("X-Client-Request-Id should be set")
		}
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"e-1","object":"echo"}`))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL+"/v1/", func(c *TransportConfig) {
		c.Headers = http.Header{"X-Custom": {"yes"}}
	})

	resp, err := Send[echoResponse](context.Background(), tr, Request{
		Operation: "echo.create",
		Method:    http.MethodPost,
		Path:      "/echo",
		Query:     url.Values{"limit": {"2"}},
		Body:      &echoRequest{Model: "gpt-4"},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.ID != "e-1" || resp.Object != "echo" {
		t.Errorf("response = %+v", resp)
	}
	if string(gotBody) != `{"model":"gpt-4"}` {
		t.Errorf("body = %s, want %s", gotBody, `{"model":"gpt-4"}`)
	}
}

func TestSendRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req-remote")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("nope"))
	}))
	defer server.Close()

	hook := &recordingHook{}
	tr := newTestTransport(server.URL, func(c *TransportConfig) { c.Telemetry = hook })

	_, err := Send[echoResponse](context.Background(), tr, Request{Operation: "echo.get", Method: http.MethodGet, Path: "/echo"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Send() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "nope" {
		t.Errorf("Message = %q, want nope", apiErr.Message)
	}
	if apiErr.RequestID != "req-remote" {
		t.Errorf("RequestID = %q, want req-remote", apiErr.RequestID)
	}

	if len(hook.starts) != 1 || len(hook.ends) != 1 {
		t.Fatalf("events = %d/%d, want 1/1", len(hook.starts), len(hook.ends))
	}
	if hook.ends[0].StatusCode != http.StatusUnauthorized {
		t.Errorf("end StatusCode = %d, want 401", hook.ends[0].StatusCode)
	}
	if hook.ends[0].Err == nil {
		t.Error("end event should carry the error")
	}
	if hook.starts[0].RequestID != hook.ends[0].RequestID {
		t.Error("start and end events should share a request id")
	}
}

func TestSendCustomErrorDecoder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	sentinel := errors.New("decoded")
	tr := newTestTransport(server.URL, func(c *TransportConfig) {
		c.DecodeError = func(status int, body []byte, requestID string) error {
			return fmt.Errorf("status %d: %w", status, sentinel)
		}
	})

	_, err := Send[echoResponse](context.Background(), tr, Request{Method: http.MethodGet, Path: "/"})
	if !errors.Is(err, sentinel) {
		t.Errorf("Send() error = %v, want custom decoder error", err)
	}
}

func TestSendValidatesBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	tr := newTestTransport(server.URL)
	_, err := Send[echoResponse](context.Background(), tr, Request{Method: http.MethodPost, Path: "/echo", Body: &echoRequest{}})

	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Send() error = %v, want ErrInvalidRequest", err)
	}
	if called {
		t.Error("server should not be called for an invalid request")
	}
}

func TestSendDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer server.Close()

	_, err := Send[echoResponse](context.Background(), newTestTransport(server.URL), Request{Method: http.MethodGet, Path: "/"})

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Send() error = %v, want *DecodeError", err)
	}
	if de.Body != "<html>" {
		t.Errorf("Body = %q, want <html>", de.Body)
	}
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	tr := newTestTransport(server.URL, func(c *TransportConfig) { c.Timeout = 20 * time.Millisecond })
	_, err := Send[echoResponse](context.Background(), tr, Request{Method: http.MethodGet, Path: "/slow"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Send() error = %v, want *TransportError", err)
	}
	if !te.Timeout() {
		t.Error("Timeout() = false, want true")
	}
	if StatusCode(err) != 0 {
		t.Errorf("StatusCode() = %d, want 0", StatusCode(err))
	}
}

func TestSendConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	_, err := Send[echoResponse](context.Background(), newTestTransport(base), Request{Method: http.MethodGet, Path: "/"})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Send() error = %v, want ErrTransport", err)
	}
}

func TestSendMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("Content-Type = %q, want multipart/form-data", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("purpose"); got != "fine-tune" {
			t.Errorf("purpose = %q, want fine-tune", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer file.Close()
		if header.Filename != "data.jsonl" {
			t.Errorf("filename = %q, want data.jsonl", header.Filename)
		}
		w.Write([]byte(`{"id":"file-1","object":"file"}`))
	}))
	defer server.Close()

	resp, err := Send[echoResponse](context.Background(), newTestTransport(server.URL), Request{
		Method: http.MethodPost,
		Path:   "/files",
		Body:   &uploadRequest{Purpose: "fine-tune", File: FileFromBytes("data.jsonl", []byte("{}\n"))},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.ID != "file-1" {
		t.Errorf("ID = %q, want file-1", resp.ID)
	}
}

func TestSendMultipartUnreadableFile(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer server.Close()

	_, err := Send[echoResponse](context.Background(), newTestTransport(server.URL), Request{
		Method: http.MethodPost,
		Path:   "/files",
		Body:   &uploadRequest{Purpose: "fine-tune", File: FileFromPath(filepath.Join(t.TempDir(), "nope.jsonl"))},
	})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Send() error = %v, want ErrTransport", err)
	}
	if called {
		t.Error("server should not be called when the upload source is unreadable")
	}
}

func TestSendAsync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":"async"}`))
	}))
	defer server.Close()
	tr := newTestTransport(server.URL)
	ctx := context.Background()

	ok := SendAsync[echoResponse](ctx, tr, Request{Method: http.MethodGet, Path: "/ok"})
	missing := SendAsync[echoResponse](ctx, tr, Request{Method: http.MethodGet, Path: "/missing"})

	resp, err := ok.Await(ctx)
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if resp.ID != "async" {
		t.Errorf("ID = %q, want async", resp.ID)
	}

	_, err = missing.Await(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Await() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Not Found" {
		t.Errorf("APIError = %d %q, want 404 Not Found", apiErr.StatusCode, apiErr.Message)
	}
}

func TestSendRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain transcript\n"))
	}))
	defer server.Close()

	got, err := newTestTransport(server.URL).SendRaw(context.Background(), Request{Method: http.MethodGet, Path: "/raw"})
	if err != nil {
		t.Fatalf("SendRaw() error = %v", err)
	}
	if string(got) != "plain transcript\n" {
		t.Errorf("SendRaw() = %q", got)
	}
}

func TestDownload(t *testing.T) {
	audio := bytes.Repeat([]byte{0xff, 0xfb}, 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"bad voice"}}`))
			return
		}
		w.Write(audio)
	}))
	defer server.Close()
	tr := newTestTransport(server.URL)
	dir := t.TempDir()

	dst := filepath.Join(dir, "nested", "out", "speech.mp3")
	if err := tr.Download(context.Background(), Request{Method: http.MethodPost, Path: "/ok"}, dst); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("downloaded %d bytes, want %d", len(got), len(audio))
	}

	failDir := filepath.Join(dir, "fail")
	failDst := filepath.Join(failDir, "speech.mp3")
	err = tr.Download(context.Background(), Request{Method: http.MethodPost, Path: "/fail"}, failDst)
	if StatusCode(err) != http.StatusBadRequest {
		t.Errorf("Download() error = %v, want status 400", err)
	}
	if _, statErr := os.Stat(failDir); !os.IsNotExist(statErr) {
		t.Error("failed download should not create anything")
	}

	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("destination dir has %d entries, want 1 (no temporary files left)", len(entries))
	}
}

func TestDownloadAsync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("RIFF"))
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "a.wav")
	f := newTestTransport(server.URL).DownloadAsync(context.Background(), Request{Method: http.MethodPost, Path: "/"}, dst)

	got, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if got != dst {
		t.Errorf("Await() = %q, want %q", got, dst)
	}
}

func TestSendStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 1; i <= 3; i++ {
			fmt.Fprintf(w, "data: {\"id\":\"%d\"}\n\n", i)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	hook := &recordingHook{}
	tr := newTestTransport(server.URL, func(c *TransportConfig) {
		c.Telemetry = hook
		c.Timeout = 50 * time.Millisecond
	})

	stream, err := SendStream[echoResponse](context.Background(), tr, Request{Method: http.MethodPost, Path: "/chat"})
	if err != nil {
		t.Fatalf("SendStream() error = %v", err)
	}

	// The handshake timeout must not cut the stream short.
	time.Sleep(100 * time.Millisecond)

	var ids []string
	for chunk := range stream.All() {
		ids = append(ids, chunk.ID)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if strings.Join(ids, "") != "123" {
		t.Errorf("ids = %v, want 1 2 3", ids)
	}
	if len(hook.ends) != 1 || hook.ends[0].StatusCode != http.StatusOK {
		t.Errorf("end events = %+v, want one with status 200", hook.ends)
	}
}

func TestSendStreamHandshakeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	stream, err := SendStream[echoResponse](context.Background(), newTestTransport(server.URL), Request{Method: http.MethodPost, Path: "/chat"})
	if stream != nil {
		t.Error("stream should be nil on handshake failure")
	}
	if StatusCode(err) != http.StatusTooManyRequests {
		t.Errorf("SendStream() error = %v, want status 429", err)
	}
}

func TestSendLogsAtDebug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := newTestTransport(server.URL, func(c *TransportConfig) { c.Logger = logger })

	if _, err := Send[echoResponse](context.Background(), tr, Request{Operation: "models.list", Method: http.MethodGet, Path: "/models"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`msg="sending request"`, `msg="request completed"`, "operation=models.list", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sk-test") {
		t.Error("log output must not contain the API key")
	}
}
