package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/pkg/errors"
)

// FilePart is one uploaded file in a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data body, used for image uploads.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

func (f Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", k)
		}
	}

	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %s", file.Field)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", errors.Wrapf(err, "copy part %s", file.Field)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// PostMultipart sends form as multipart/form-data and decodes the reply into out.
func (c *Client) PostMultipart(ctx context.Context, path string, form Form, out any) error {
	return c.sendForm(ctx, http.MethodPost, path, form, out)
}

// PutMultipart is PostMultipart with PUT.
func (c *Client) PutMultipart(ctx context.Context, path string, form Form, out any) error {
	return c.sendForm(ctx, http.MethodPut, path, form, out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return errors.Wrap(err, "[api] encode form")
	}
	req, err := c.NewRequest(ctx, method, path, nil, body, contentType)
	if err != nil {
		return err
	}
	return c.DoJSON(req, out)
}
