// Package media uploads binary assets to the external media host and hands
// back stable, publicly resolvable URLs. Uploads are unsigned multipart
// posts in the Cloudinary style: file, upload preset, destination folder,
// and a client-chosen public id.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novelia/novelia/internal/api"
)

// Category selects the destination namespace for an asset.
type Category string

const (
	CategoryCover    Category = "cover"
	CategoryDocument Category = "document"
)

// ErrUploadRejected means the media host refused the asset (size, type, or
// preset validation). The submission that owns the upload must abort without
// persisting anything.
var ErrUploadRejected = errors.New("upload rejected")

// Uploader resolves a local file into a hosted asset URL.
type Uploader interface {
	Upload(ctx context.Context, path string, category Category) (string, error)
}

// Cloudinary performs unsigned uploads against a Cloudinary-style endpoint.
type Cloudinary struct {
	uploadURL    string
	uploadPreset string
	coverFolder  string
	pdfFolder    string
	http         *http.Client

	// newPublicID is swapped in tests for deterministic ids.
	newPublicID func() string
}

var _ Uploader = (*Cloudinary)(nil)

const uploadTimeout = 60 * time.Second

// NewCloudinary builds an uploader for the given unsigned upload endpoint.
func NewCloudinary(uploadURL, uploadPreset, coverFolder, pdfFolder string) (*Cloudinary, error) {
	if strings.TrimSpace(uploadURL) == "" {
		return nil, fmt.Errorf("upload url is empty")
	}
	if strings.TrimSpace(uploadPreset) == "" {
		return nil, fmt.Errorf("upload preset is empty")
	}
	return &Cloudinary{
		uploadURL:    strings.TrimSpace(uploadURL),
		uploadPreset: strings.TrimSpace(uploadPreset),
		coverFolder:  coverFolder,
		pdfFolder:    pdfFolder,
		http:         &http.Client{Timeout: uploadTimeout},
		newPublicID:  func() string { return uuid.NewString() },
	}, nil
}

// Upload posts the file at path and returns the hosted secure URL. The file
// must exist and be non-empty. Calls for different categories are
// independent and may run concurrently.
func (c *Cloudinary) Upload(ctx context.Context, path string, category Category) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open asset: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat asset: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("asset %q is empty: %w", filepath.Base(path), ErrUploadRejected)
	}

	body, contentType, err := c.encodeForm(file, filepath.Base(path), category)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w: %w", category, api.ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("upload %s: media host returned status %d: %w", category, resp.StatusCode, api.ErrUnreachable)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("upload %s: %s: %w", category, rejectionMessage(raw), ErrUploadRejected)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("upload %s: decode response: %w: %w", category, api.ErrUnreachable, err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", fmt.Errorf("upload %s: media host returned no url: %w", category, api.ErrUnreachable)
}

// encodeForm buffers the multipart body. Assets are book covers and PDFs,
// small enough that buffering beats a streaming pipe here.
func (c *Cloudinary) encodeForm(file io.Reader, filename string, category Category) (io.Reader, string, error) {
	var buf strings.Builder
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read asset: %w", err)
	}

	fields := map[string]string{
		"upload_preset": c.uploadPreset,
		"folder":        c.folder(category),
		"public_id":     c.newPublicID(),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	return strings.NewReader(buf.String()), writer.FormDataContentType(), nil
}

func (c *Cloudinary) folder(category Category) string {
	if category == CategoryDocument {
		return c.pdfFolder
	}
	return c.coverFolder
}

// rejectionMessage extracts Cloudinary's {"error": {"message": "..."}} shape.
func rejectionMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Message == "" {
		return "media host rejected file"
	}
	return body.Error.Message
}
