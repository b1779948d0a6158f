package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const modelsPath = "/models"

// ModelsClient lists and manages models.
type ModelsClient struct {
	t *core.Transport
}

// List returns the models available to the account.
func (c *ModelsClient) List(ctx context.Context) (*ModelList, error) {
	return core.Send[ModelList](ctx, c.t, c.listRequest())
}

// ListAsync is the asynchronous form of List.
func (c *ModelsClient) ListAsync(ctx context.Context) *core.Future[*ModelList] {
	return core.SendAsync[ModelList](ctx, c.t, c.listRequest())
}

func (c *ModelsClient) listRequest() core.Request {
	return core.Request{Operation: "models.list", Method: http.MethodGet, Path: modelsPath}
}

// Retrieve returns a model.
func (c *ModelsClient) Retrieve(ctx context.Context, modelID string) (*Model, error) {
	path, err := resourcePath("model", modelID, modelsPath)
	if err != nil {
		return nil, err
	}
	return core.Send[Model](ctx, c.t, core.Request{Operation: "models.retrieve", Method: http.MethodGet, Path: path})
}

// Delete deletes a fine-tuned model owned by the organization.
func (c *ModelsClient) Delete(ctx context.Context, modelID string) (*DeletionStatus, error) {
	path, err := resourcePath("model", modelID, modelsPath)
	if err != nil {
		return nil, err
	}
	return core.Send[DeletionStatus](ctx, c.t, core.Request{Operation: "models.delete", Method: http.MethodDelete, Path: path})
}
