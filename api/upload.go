package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"parley/models"
)

// SniffImage detects the mime type of a local file and rejects
// anything that is not an image. Sniffing happens before the upload so
// a bad pick fails without a request.
func SniffImage(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mtype.String())
	}
	return mtype.String(), nil
}

// Upload sends an image as a multipart form and returns the URL the
// backend stored it under. The backend re-sniffs the content and
// answers {url, type, mime}.
func (c *Client) Upload(ctx context.Context, path string) (models.Upload, error) {
	if _, err := SniffImage(path); err != nil {
		return models.Upload{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return models.Upload{}, err
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return models.Upload{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Upload{}, err
	}
	if err := form.Close(); err != nil {
		return models.Upload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/upload", &buf)
	if err != nil {
		return models.Upload{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Upload{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Upload{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Upload{}, decodeError(resp.StatusCode, data)
	}

	var up models.Upload
	if err := json.Unmarshal(data, &up); err != nil {
		return models.Upload{}, err
	}
	return up, nil
}
