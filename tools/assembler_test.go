package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/tools"
)

func intPtr(i int) *int { return &i }

func deltaChunk(choice int, d chatjpt.ChatDelta, finish string) chatjpt.ChatChunk {
	return chatjpt.ChatChunk{Choices: []chatjpt.ChatChunkChoice{{Index: choice, Delta: d, FinishReason: finish}}}
}

func TestAssemblerToolCalls(t *testing.T) {
	a := tools.NewAssembler(0)

	a.Add(deltaChunk(0, chatjpt.ChatDelta{Role: "assistant"}, ""))
	a.Add(deltaChunk(0, chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(0), ID: "call_a", Type: "function", Function: chatjpt.FunctionCall{Name: "get_weather"}},
	}}, ""))
	a.Add(deltaChunk(0, chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(1), ID: "call_b", Type: "function", Function: chatjpt.FunctionCall{Name: "get_time", Arguments: `{"tz":`}},
	}}, ""))
	a.Add(deltaChunk(0, chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(0), Function: chatjpt.FunctionCall{Arguments: `{"location":`}},
	}}, ""))
	a.Add(deltaChunk(0, chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(0), Function: chatjpt.FunctionCall{Arguments: `"Paris"}`}},
		{Index: intPtr(1), Function: chatjpt.FunctionCall{Arguments: `"UTC"}`}},
	}}, ""))
	a.Add(deltaChunk(0, chatjpt.ChatDelta{}, "tool_calls"))

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if msg.Role != chatjpt.RoleAssistant {
		t.Errorf("Role = %q, want assistant", msg.Role)
	}
	if a.FinishReason() != "tool_calls" {
		t.Errorf("FinishReason() = %q, want tool_calls", a.FinishReason())
	}
	if len(msg.ToolCalls) != 2 {
		t.Fatalf("len(ToolCalls) = %d, want 2", len(msg.ToolCalls))
	}

	want := []struct{ id, name, args string }{
		{"call_a", "get_weather", `{"location":"Paris"}`},
		{"call_b", "get_time", `{"tz":"UTC"}`},
	}
	for i, w := range want {
		got := msg.ToolCalls[i]
		if got.ID != w.id || got.Function.Name != w.name || got.Function.Arguments != w.args {
			t.Errorf("ToolCalls[%d] = %+v, want %s %s %s", i, got, w.id, w.name, w.args)
		}
		if got.Index != nil {
			t.Errorf("ToolCalls[%d].Index should be cleared", i)
		}
	}
}

func TestAssemblerContentAndUsage(t *testing.T) {
	a := tools.NewAssembler(0)
	for _, part := range []string{"Hel", "lo", "!"} {
		a.Add(deltaChunk(0, chatjpt.ChatDelta{Content: part}, ""))
	}
	a.Add(deltaChunk(1, chatjpt.ChatDelta{Content: "other choice"}, ""))
	a.Add(chatjpt.ChatChunk{Usage: &chatjpt.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}})

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if msg.Content != "Hello!" {
		t.Errorf("Content = %q, want Hello!", msg.Content)
	}
	if msg.ToolCalls != nil {
		t.Errorf("ToolCalls = %v, want nil", msg.ToolCalls)
	}
	if u := a.Usage(); u == nil || u.TotalTokens != 5 {
		t.Errorf("Usage() = %+v", u)
	}
}

func TestAssemblerEmptyArguments(t *testing.T) {
	a := tools.NewAssembler(0)
	a.AddDelta(chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(0), ID: "call_1", Function: chatjpt.FunctionCall{Name: "list_things"}},
	}})

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if got := msg.ToolCalls[0].Function.Arguments; got != "{}" {
		t.Errorf("Arguments = %q, want {}", got)
	}
	if got := msg.ToolCalls[0].Type; got != "function" {
		t.Errorf("Type = %q, want function", got)
	}
}

func TestAssemblerWithoutIndex(t *testing.T) {
	a := tools.NewAssembler(0)
	a.AddDelta(chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{{ID: "call_1", Function: chatjpt.FunctionCall{Name: "first", Arguments: `{"a":`}}}})
	a.AddDelta(chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{{Function: chatjpt.FunctionCall{Arguments: `1}`}}}})
	a.AddDelta(chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{{ID: "call_2", Function: chatjpt.FunctionCall{Name: "second", Arguments: `{}`}}}})

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if len(msg.ToolCalls) != 2 {
		t.Fatalf("len(ToolCalls) = %d, want 2", len(msg.ToolCalls))
	}
	if got := msg.ToolCalls[0].Function.Arguments; got != `{"a":1}` {
		t.Errorf("first Arguments = %q", got)
	}
	if got := msg.ToolCalls[1].Function.Name; got != "second" {
		t.Errorf("second Name = %q", got)
	}
}

func TestAssemblerInvalidArguments(t *testing.T) {
	a := tools.NewAssembler(0)
	a.AddDelta(chatjpt.ChatDelta{ToolCalls: []chatjpt.ToolCall{
		{Index: intPtr(0), ID: "call_1", Function: chatjpt.FunctionCall{Name: "broken", Arguments: `{"x":`}},
	}})

	if _, err := a.Message(); !errors.Is(err, tools.ErrInvalidArguments) {
		t.Errorf("Message() error = %v, want ErrInvalidArguments", err)
	}
}

// TestStreamedToolRoundTrip streams a tool call from a fake server,
// dispatches it and sends the result back in a second request.
func TestStreamedToolRoundTrip(t *testing.T) {
	var requests atomic.Int32
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 2 {
			body, _ := io.ReadAll(r.Body)
			bodies <- body
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"chatcmpl-2","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"It is 21 degrees in Oslo."},"finish_reason":"stop"}]}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		frames := []string{
			`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant","tool_calls":[{"index":0,"id":"call_9","type":"function","function":{"name":"get_weather","arguments":""}}]}}]}`,
			`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"location\":"}}]}}]}`,
			`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"Oslo\"}"}}]}}]}`,
			`{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
		}
		for _, f := range frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := chatjpt.New("test-key", chatjpt.WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	reg := tools.NewRegistry()
	reg.Register(weatherTool())

	ctx := context.Background()
	req := &chatjpt.ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []chatjpt.ChatMessage{chatjpt.UserMessage("Weather in Oslo?")},
		Tools:    reg.Definitions(),
	}

	stream, err := client.Chat().CreateStream(ctx, req)
	if err != nil {
		t.Fatalf("CreateStream() error = %v", err)
	}
	a := tools.NewAssembler(0)
	for chunk := range stream.All() {
		a.Add(chunk)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream error = %v", err)
	}

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	results, err := reg.Dispatch(ctx, msg.ToolCalls)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	req.Messages = append(req.Messages, msg)
	req.Messages = append(req.Messages, results...)
	resp, err := client.Chat().Create(ctx, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.Content() != "It is 21 degrees in Oslo." {
		t.Errorf("Content() = %q", resp.Content())
	}

	second := <-bodies
	var sent struct {
		Messages []struct {
			Role       string `json:"role"`
			Content    string `json:"content"`
			ToolCallID string `json:"tool_call_id"`
			ToolCalls  []struct {
				ID       string `json:"id"`
				Function struct {
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(second, &sent); err != nil {
		t.Fatalf("decode second request: %v", err)
	}
	if len(sent.Messages) != 3 {
		t.Fatalf("second request has %d messages, want 3", len(sent.Messages))
	}
	call := sent.Messages[1]
	if call.Role != "assistant" || len(call.ToolCalls) != 1 || call.ToolCalls[0].Function.Arguments != `{"location":"Oslo"}` {
		t.Errorf("assistant message = %+v", call)
	}
	result := sent.Messages[2]
	if result.Role != "tool" || result.ToolCallID != "call_9" {
		t.Errorf("tool message = %+v", result)
	}
	if !strings.Contains(result.Content, `"temperature":21`) {
		t.Errorf("tool content = %s", result.Content)
	}
}
