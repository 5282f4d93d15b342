package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadFile is one file in a multipart upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Upload submits all files as a single multipart batch to the upload form
// action and returns the HTML fragment the backend answers with. The fragment
// carries flash messages rather than a JSON envelope.
func (c *Client) Upload(ctx context.Context, files []UploadFile) (string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return "", fmt.Errorf("error adding %s to upload: %w", f.Name, err)
		}

		if _, err := io.Copy(part, f.Reader); err != nil {
			return "", fmt.Errorf("error reading %s for upload: %w", f.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error finalizing upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("error building upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("error uploading files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading upload response: %w", err)
	}

	return string(body), nil
}
