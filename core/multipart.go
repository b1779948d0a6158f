package core

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is an upload source: either in-memory bytes with a filename or a
// path on disk. Reading a path is deferred until the request is encoded.
type File struct {
	name string
	path string
	data []byte
}

// FileFromBytes returns a File backed by data. name is used as the
// multipart filename and to infer the content type.
func FileFromBytes(name string, data []byte) File {
	return File{name: name, data: data}
}

// FileFromPath returns a File that is read from path at send time.
func FileFromPath(path string) File {
	return File{path: path}
}

// Name returns the filename sent for this file. It prefers the base name
// of the path, then the name given to FileFromBytes.
func (f File) Name() string {
	if f.path != "" {
		return filepath.Base(f.path)
	}
	return f.name
}

// IsZero reports whether the File has no source.
func (f File) IsZero() bool {
	return f.path == "" && f.name == "" && f.data == nil
}

func (f File) bytes() ([]byte, error) {
	if f.path == "" {
		return f.data, nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &TransportError{Op: "read file", Err: err}
	}
	return data, nil
}

// Multipart is implemented by request bodies sent as multipart/form-data.
type Multipart interface {
	MultipartForm() *Form
}

// Form collects the scalar fields and file fields of a multipart body in
// insertion order.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name string
	file File
}

// NewForm returns an empty Form.
func NewForm() *Form {
	return &Form{}
}

// Add appends a scalar field. Empty values are skipped so absent optional
// fields never reach the wire.
func (f *Form) Add(name, value string) *Form {
	if value != "" {
		f.fields = append(f.fields, formField{name: name, value: value})
	}
	return f
}

// AddInt appends an integer field when v is non-nil.
func (f *Form) AddInt(name string, v *int) *Form {
	if v != nil {
		f.Add(name, strconv.Itoa(*v))
	}
	return f
}

// AddFloat appends a float field when v is non-nil.
func (f *Form) AddFloat(name string, v *float64) *Form {
	if v != nil {
		f.Add(name, strconv.FormatFloat(*v, 'f', -1, 64))
	}
	return f
}

// AddFile appends a file field. Zero files are skipped.
func (f *Form) AddFile(name string, file File) *Form {
	if !file.IsZero() {
		f.files = append(f.files, formFile{name: name, file: file})
	}
	return f
}

// Fields returns the scalar field names and values in order.
func (f *Form) Fields() [][2]string {
	out := make([][2]string, len(f.fields))
	for i, fld := range f.fields {
		out[i] = [2]string{fld.name, fld.value}
	}
	return out
}

// Encode writes the form as multipart/form-data and returns the body
// together with its Content-Type header value.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", fld.name, err)
		}
	}

	for _, ff := range f.files {
		data, err := ff.file.bytes()
		if err != nil {
			return nil, "", err
		}

		filename := ff.file.Name()
		if filename == "" {
			filename = ff.name
		}

		part, err := createFormFileWithMIME(w, ff.name, filename, data)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write file data: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFormFileWithMIME creates a file part with an explicit Content-Type
// instead of multipart's application/octet-stream default.
func createFormFileWithMIME(w *multipart.Writer, fieldName, filename string, data []byte) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", detectMIME(filename, data))
	return w.CreatePart(h)
}

// detectMIME detects the MIME type from the filename extension, falling
// back to magic bytes.
func detectMIME(filename string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return mimetype.Detect(data).String()
}
