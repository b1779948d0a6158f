package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petal-labs/chatjpt"
)

var (
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned when the model calls a tool that is not
	// registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments are not valid
	// JSON for the tool's argument type.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for call tracing. Arguments and results
// are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithTimeout bounds each tool call. A call that overruns fails with
// context.DeadlineExceeded even if the tool ignores its context.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// WithConcurrency caps how many calls Dispatch runs at once. Zero means
// no limit.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.limit = n }
}

// Registry holds tools by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool

	logger  *slog.Logger
	timeout time.Duration
	limit   int
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register adds t. It returns ErrDuplicateTool if the name is taken.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.New("tool cannot be nil")
	}
	name := t.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools ordered by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	result := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b Tool) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// Definitions returns the registered tools in the form ChatRequest.Tools
// expects, ordered by name.
func (r *Registry) Definitions() []chatjpt.Tool {
	list := r.List()
	defs := make([]chatjpt.Tool, len(list))
	for i, t := range list {
		defs[i] = Definition(t)
	}
	return defs
}

// Execute calls the named tool with args.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if r.timeout <= 0 {
		return t.Call(ctx, args)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		value any
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := t.Call(ctx, args)
		ch <- result{v, err}
	}()

	select {
	case res := <-ch:
		return res.value, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("tool %s: %w", name, ctx.Err())
	}
}

// Dispatch runs calls concurrently and returns one tool message per call,
// in the order of calls. A failing tool does not fail the batch: its
// message carries {"error": "..."} so the model can react to it. Dispatch
// only returns an error when ctx ends before every call has finished.
func (r *Registry) Dispatch(ctx context.Context, calls []chatjpt.ToolCall) ([]chatjpt.ChatMessage, error) {
	out := make([]chatjpt.ChatMessage, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, call := range calls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content := r.run(gctx, call)
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = chatjpt.ToolMessage(call.ID, content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) run(ctx context.Context, call chatjpt.ToolCall) string {
	name := call.Function.Name
	start := time.Now()
	r.logger.DebugContext(ctx, "tool call started", "tool", name, "call_id", call.ID)

	value, err := r.Execute(ctx, name, json.RawMessage(call.Function.Arguments))
	var content string
	if err == nil {
		content, err = encodeResult(value)
	}

	attrs := []any{"tool", name, "call_id", call.ID, "duration", time.Since(start)}
	if err != nil {
		r.logger.WarnContext(ctx, "tool call failed", append(attrs, "error", err)...)
		return encodeError(err)
	}
	r.logger.DebugContext(ctx, "tool call completed", attrs...)
	return content
}

// encodeResult passes strings and raw JSON through and marshals anything
// else.
func encodeResult(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	case []byte:
		return string(v), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(data), nil
}

func encodeError(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
