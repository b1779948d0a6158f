package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const (
	imageGenerationsPath = "/images/generations"
	imageEditsPath       = "/images/edits"
	imageVariationsPath  = "/images/variations"
)

// ImagesClient generates and edits images.
type ImagesClient struct {
	t *core.Transport
}

// Create generates images from a prompt.
func (c *ImagesClient) Create(ctx context.Context, req *CreateImageRequest) (*Images, error) {
	return core.Send[Images](ctx, c.t, c.createRequest(req))
}

// CreateAsync is the asynchronous form of Create.
func (c *ImagesClient) CreateAsync(ctx context.Context, req *CreateImageRequest) *core.Future[*Images] {
	return core.SendAsync[Images](ctx, c.t, c.createRequest(req))
}

// Edit edits an image given a prompt and an optional mask.
func (c *ImagesClient) Edit(ctx context.Context, req *EditImageRequest) (*Images, error) {
	return core.Send[Images](ctx, c.t, c.editRequest(req))
}

// EditAsync is the asynchronous form of Edit.
func (c *ImagesClient) EditAsync(ctx context.Context, req *EditImageRequest) *core.Future[*Images] {
	return core.SendAsync[Images](ctx, c.t, c.editRequest(req))
}

// CreateVariation creates variations of an image.
func (c *ImagesClient) CreateVariation(ctx context.Context, req *CreateImageVariationRequest) (*Images, error) {
	return core.Send[Images](ctx, c.t, c.variationRequest(req))
}

// CreateVariationAsync is the asynchronous form of CreateVariation.
func (c *ImagesClient) CreateVariationAsync(ctx context.Context, req *CreateImageVariationRequest) *core.Future[*Images] {
	return core.SendAsync[Images](ctx, c.t, c.variationRequest(req))
}

func (c *ImagesClient) createRequest(req *CreateImageRequest) core.Request {
	return core.Request{Operation: "images.create", Method: http.MethodPost, Path: imageGenerationsPath, Body: req}
}

func (c *ImagesClient) editRequest(req *EditImageRequest) core.Request {
	return core.Request{Operation: "images.edit", Method: http.MethodPost, Path: imageEditsPath, Body: req}
}

func (c *ImagesClient) variationRequest(req *CreateImageVariationRequest) core.Request {
	return core.Request{Operation: "images.variation", Method: http.MethodPost, Path: imageVariationsPath, Body: req}
}
