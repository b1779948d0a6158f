package chatjpt

import "github.com/petal-labs/chatjpt/core"

// File purposes.
const (
	PurposeAssistants = "assistants"
	PurposeBatch      = "batch"
	PurposeFineTune   = "fine-tune"
	PurposeVision     = "vision"
)

// UploadFileRequest is the multipart body of POST /files.
type UploadFileRequest struct {
	File    core.File `json:"-" form:"file" validate:"required"`
	Purpose string    `json:"purpose" validate:"required"`
}

// NewUploadFileRequest validates r and returns a copy.
func NewUploadFileRequest(r UploadFileRequest) (*UploadFileRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MultipartForm implements core.Multipart.
func (r *UploadFileRequest) MultipartForm() *core.Form {
	return core.NewForm().
		Add("purpose", r.Purpose).
		AddFile("file", r.File)
}

// File is an uploaded file.
type File struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	Bytes         int64  `json:"bytes"`
	CreatedAt     int64  `json:"created_at"`
	Filename      string `json:"filename"`
	Purpose       string `json:"purpose"`
	Status        string `json:"status,omitempty"`
	StatusDetails string `json:"status_details,omitempty"`
}

// FileList is the response of GET /files.
type FileList struct {
	Object  string `json:"object"`
	Data    []File `json:"data"`
	HasMore bool   `json:"has_more"`
}

// DeletionStatus is returned by delete endpoints.
type DeletionStatus struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
