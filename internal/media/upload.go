// Package media talks to the image host: it prepares local files for upload
// and performs unsigned uploads that return the asset's content identifier.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mesh-intelligence/blogctl/internal/httpclient"
	"github.com/mesh-intelligence/blogctl/internal/logger"
)

// Upload errors.
var (
	ErrNoPublicID      = errors.New("no public_id received from media host")
	ErrInvalidResponse = errors.New("invalid JSON response from media host")
)

// UploadError carries the media host's own error message, shown verbatim.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media upload failed (status %d): %s", e.Status, e.Message)
}

// UploadResult is the subset of the host's upload response blogctl uses.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
}

// Uploader performs unsigned multipart uploads with a fixed preset.
type Uploader struct {
	client    *http.Client
	endpoint  string
	preset    string
	cloudName string
}

// NewUploader returns an Uploader posting to endpoint. httpClient may be nil.
func NewUploader(httpClient *http.Client, endpoint, preset, cloudName string) *Uploader {
	if httpClient == nil {
		httpClient = httpclient.NewDefault()
	}
	return &Uploader{
		client:    httpClient,
		endpoint:  endpoint,
		preset:    preset,
		cloudName: cloudName,
	}
}

// Upload sends the image read from r under the given file name.
func (u *Uploader) Upload(ctx context.Context, name string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return UploadResult{}, fmt.Errorf("copy image: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return UploadResult{}, fmt.Errorf("write preset: %w", err)
	}
	if err := mw.WriteField("cloud_name", u.cloudName); err != nil {
		return UploadResult{}, fmt.Errorf("write cloud name: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logger.DebugWithFields("media upload start", logger.Fields{
		"file":   name,
		"bytes":  buf.Len(),
		"preset": u.preset,
	})

	resp, err := u.client.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload response: %w", err)
	}

	var payload struct {
		UploadResult
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UploadResult{}, fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || payload.Error != nil {
		msg := http.StatusText(resp.StatusCode)
		if payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		return UploadResult{}, &UploadError{Status: resp.StatusCode, Message: msg}
	}
	if payload.PublicID == "" {
		return UploadResult{}, ErrNoPublicID
	}
	return payload.UploadResult, nil
}
