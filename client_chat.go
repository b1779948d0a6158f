package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

// chatCompletionsPath is the API endpoint for chat completions.
const chatCompletionsPath = "/chat/completions"

// ChatClient creates chat completions.
type ChatClient struct {
	t *core.Transport
}

// Create sends a chat completion request and waits for the full response.
func (c *ChatClient) Create(ctx context.Context, req *ChatRequest) (*ChatCompletion, error) {
	return core.Send[ChatCompletion](ctx, c.t, chatRequest("chat.create", req, false))
}

// CreateAsync is the asynchronous form of Create.
func (c *ChatClient) CreateAsync(ctx context.Context, req *ChatRequest) *core.Future[*ChatCompletion] {
	return core.SendAsync[ChatCompletion](ctx, c.t, chatRequest("chat.create", req, false))
}

// CreateStream sends a chat completion request with streaming enabled and
// returns the chunks as they arrive. The caller must drain or Close the
// stream.
func (c *ChatClient) CreateStream(ctx context.Context, req *ChatRequest) (*core.Stream[ChatChunk], error) {
	return core.SendStream[ChatChunk](ctx, c.t, chatRequest("chat.create_stream", req, true))
}

// chatRequest copies req with the stream flag forced to stream.
func chatRequest(op string, req *ChatRequest, stream bool) core.Request {
	r := core.Request{Operation: op, Method: http.MethodPost, Path: chatCompletionsPath}
	if req != nil {
		body := *req
		body.Stream = stream
		if !stream {
			body.StreamOptions = nil
		}
		r.Body = &body
	} else {
		r.Body = req
	}
	return r
}
