package chatjpt

import "github.com/petal-labs/chatjpt/core"

// CreateImageRequest is the body of POST /images/generations.
type CreateImageRequest struct {
	Prompt         string `json:"prompt" validate:"required"`
	Model          string `json:"model,omitempty"`
	N              *int   `json:"n,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=url b64_json"`
	Size           string `json:"size,omitempty"`
	Style          string `json:"style,omitempty"`
	User           string `json:"user,omitempty"`
}

// NewCreateImageRequest validates r and returns a copy.
func NewCreateImageRequest(r CreateImageRequest) (*CreateImageRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EditImageRequest is the multipart body of POST /images/edits.
type EditImageRequest struct {
	Image          core.File `json:"-" form:"image" validate:"required"`
	Prompt         string    `json:"prompt" validate:"required"`
	Mask           core.File `json:"-" form:"mask"`
	Model          string    `json:"model,omitempty"`
	N              *int      `json:"n,omitempty"`
	ResponseFormat string    `json:"response_format,omitempty" validate:"omitempty,oneof=url b64_json"`
	Size           string    `json:"size,omitempty"`
	User           string    `json:"user,omitempty"`
}

// NewEditImageRequest validates r and returns a copy.
func NewEditImageRequest(r EditImageRequest) (*EditImageRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MultipartForm implements core.Multipart.
func (r *EditImageRequest) MultipartForm() *core.Form {
	return core.NewForm().
		Add("prompt", r.Prompt).
		Add("model", r.Model).
		AddInt("n", r.N).
		Add("response_format", r.ResponseFormat).
		Add("size", r.Size).
		Add("user", r.User).
		AddFile("image", r.Image).
		AddFile("mask", r.Mask)
}

// CreateImageVariationRequest is the multipart body of POST /images/variations.
type CreateImageVariationRequest struct {
	Image          core.File `json:"-" form:"image" validate:"required"`
	Model          string    `json:"model,omitempty"`
	N              *int      `json:"n,omitempty"`
	ResponseFormat string    `json:"response_format,omitempty" validate:"omitempty,oneof=url b64_json"`
	Size           string    `json:"size,omitempty"`
	User           string    `json:"user,omitempty"`
}

// NewCreateImageVariationRequest validates r and returns a copy.
func NewCreateImageVariationRequest(r CreateImageVariationRequest) (*CreateImageVariationRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MultipartForm implements core.Multipart.
func (r *CreateImageVariationRequest) MultipartForm() *core.Form {
	return core.NewForm().
		Add("model", r.Model).
		AddInt("n", r.N).
		Add("response_format", r.ResponseFormat).
		Add("size", r.Size).
		Add("user", r.User).
		AddFile("image", r.Image)
}

// Images is the response of every image endpoint.
type Images struct {
	Created int64   `json:"created"`
	Data    []Image `json:"data"`
}

// Image is one generated image, as a URL or base64 data.
type Image struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}
