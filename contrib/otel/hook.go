// Package otel records chatjpt API calls as OpenTelemetry spans.
package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/chatjpt/core"
)

// Span attribute keys.
const (
	AttrMethod     = "http.request.method"
	AttrPath       = "url.path"
	AttrStatusCode = "http.response.status_code"
	AttrOperation  = "chatjpt.operation"
	AttrRequestID  = "chatjpt.request_id"
)

// Hook implements core.TelemetryHook. It opens a client span when a call
// starts and ends it when the call completes.
type Hook struct {
	tracer trace.Tracer
	spans  sync.Map // request id -> trace.Span
}

// NewHook returns a Hook that starts spans with tracer.
func NewHook(tracer trace.Tracer) *Hook {
	return &Hook{tracer: tracer}
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	_, span := h.tracer.Start(context.Background(), "chatjpt "+e.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String(AttrOperation, e.Operation),
			attribute.String(AttrMethod, e.Method),
			attribute.String(AttrPath, e.Path),
			attribute.String(AttrRequestID, e.RequestID),
		),
	)
	h.spans.Store(e.RequestID, span)
}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	v, ok := h.spans.LoadAndDelete(e.RequestID)
	if !ok {
		return
	}
	span := v.(trace.Span)

	if e.StatusCode != 0 {
		span.SetAttributes(attribute.Int(AttrStatusCode, e.StatusCode))
	}
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}

var _ core.TelemetryHook = (*Hook)(nil)
