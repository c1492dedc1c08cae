package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field   string
	Name    string
	Content io.Reader
}

// PostForm sends a multipart/form-data POST, used by the upload-carrying
// endpoints (article images, profile pictures).
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, files []FormFile, out any) error {
	req, err := c.newFormRequest(ctx, http.MethodPost, path, fields, files)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PutForm sends a multipart/form-data PUT.
func (c *Client) PutForm(ctx context.Context, path string, fields map[string]string, files []FormFile, out any) error {
	req, err := c.newFormRequest(ctx, http.MethodPut, path, fields, files)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// newFormRequest materializes the whole form into memory so the 401 retry
// path can replay it. Upload sizes on this API are small enough for that.
func (c *Client) newFormRequest(ctx context.Context, method, path string, fields map[string]string, files []FormFile) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, errors.Wrapf(err, "[Client.newFormRequest] write field %s", field)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.newFormRequest] create part %s", file.Field)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, errors.Wrapf(err, "[Client.newFormRequest] copy %s", file.Name)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.newFormRequest] close writer")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.newFormRequest] http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}
