package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const moderationsPath = "/moderations"

// ModerationsClient classifies text against the usage policies.
type ModerationsClient struct {
	t *core.Transport
}

// Create classifies the request input.
func (c *ModerationsClient) Create(ctx context.Context, req *ModerationRequest) (*Moderation, error) {
	return core.Send[Moderation](ctx, c.t, c.request(req))
}

// CreateAsync is the asynchronous form of Create.
func (c *ModerationsClient) CreateAsync(ctx context.Context, req *ModerationRequest) *core.Future[*Moderation] {
	return core.SendAsync[Moderation](ctx, c.t, c.request(req))
}

func (c *ModerationsClient) request(req *ModerationRequest) core.Request {
	return core.Request{Operation: "moderations.create", Method: http.MethodPost, Path: moderationsPath, Body: req}
}
