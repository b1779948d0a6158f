package chatjpt

import (
	"context"
	"net/http"
	"net/url"

	"github.com/petal-labs/chatjpt/core"
)

const filesPath = "/files"

// FilesClient manages uploaded files.
type FilesClient struct {
	t *core.Transport
}

// Upload uploads a file.
func (c *FilesClient) Upload(ctx context.Context, req *UploadFileRequest) (*File, error) {
	return core.Send[File](ctx, c.t, c.uploadRequest(req))
}

// UploadAsync is the asynchronous form of Upload.
func (c *FilesClient) UploadAsync(ctx context.Context, req *UploadFileRequest) *core.Future[*File] {
	return core.SendAsync[File](ctx, c.t, c.uploadRequest(req))
}

func (c *FilesClient) uploadRequest(req *UploadFileRequest) core.Request {
	return core.Request{Operation: "files.upload", Method: http.MethodPost, Path: filesPath, Body: req}
}

// List returns the uploaded files. An empty purpose lists all files.
func (c *FilesClient) List(ctx context.Context, purpose string) (*FileList, error) {
	var q url.Values
	if purpose != "" {
		q = url.Values{"purpose": {purpose}}
	}
	return core.Send[FileList](ctx, c.t, core.Request{
		Operation: "files.list",
		Method:    http.MethodGet,
		Path:      filesPath,
		Query:     q,
	})
}

// Retrieve returns metadata about a file.
func (c *FilesClient) Retrieve(ctx context.Context, fileID string) (*File, error) {
	path, err := resourcePath("file_id", fileID, filesPath)
	if err != nil {
		return nil, err
	}
	return core.Send[File](ctx, c.t, core.Request{Operation: "files.retrieve", Method: http.MethodGet, Path: path})
}

// Delete deletes a file.
func (c *FilesClient) Delete(ctx context.Context, fileID string) (*DeletionStatus, error) {
	path, err := resourcePath("file_id", fileID, filesPath)
	if err != nil {
		return nil, err
	}
	return core.Send[DeletionStatus](ctx, c.t, core.Request{Operation: "files.delete", Method: http.MethodDelete, Path: path})
}

// RetrieveContent returns the content of a file.
func (c *FilesClient) RetrieveContent(ctx context.Context, fileID string) ([]byte, error) {
	path, err := resourcePath("file_id", fileID, filesPath, "content")
	if err != nil {
		return nil, err
	}
	return c.t.SendRaw(ctx, core.Request{Operation: "files.content", Method: http.MethodGet, Path: path})
}

// DownloadContent writes the content of a file to dst, creating parent
// directories as needed. Nothing is written if the call fails.
func (c *FilesClient) DownloadContent(ctx context.Context, fileID, dst string) error {
	path, err := resourcePath("file_id", fileID, filesPath, "content")
	if err != nil {
		return err
	}
	return c.t.Download(ctx, core.Request{Operation: "files.content", Method: http.MethodGet, Path: path}, dst)
}

// resourcePath returns base/id[/suffix...] with id escaped, failing
// locally when id is empty.
func resourcePath(field, id, base string, suffix ...string) (string, error) {
	if id == "" {
		return "", &core.InvalidRequestError{Field: field, Reason: "must be set"}
	}
	path := base + "/" + url.PathEscape(id)
	for _, s := range suffix {
		path += "/" + s
	}
	return path, nil
}
