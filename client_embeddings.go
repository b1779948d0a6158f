package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const embeddingsPath = "/embeddings"

// EmbeddingsClient creates embedding vectors.
type EmbeddingsClient struct {
	t *core.Transport
}

// Create returns embeddings for the request input.
func (c *EmbeddingsClient) Create(ctx context.Context, req *EmbeddingsRequest) (*Embeddings, error) {
	return core.Send[Embeddings](ctx, c.t, c.request(req))
}

// CreateAsync is the asynchronous form of Create.
func (c *EmbeddingsClient) CreateAsync(ctx context.Context, req *EmbeddingsRequest) *core.Future[*Embeddings] {
	return core.SendAsync[Embeddings](ctx, c.t, c.request(req))
}

func (c *EmbeddingsClient) request(req *EmbeddingsRequest) core.Request {
	return core.Request{Operation: "embeddings.create", Method: http.MethodPost, Path: embeddingsPath, Body: req}
}
