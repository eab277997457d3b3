// Package analyzer talks to the emotion analysis backend: it uploads one
// audio file per request and decodes the per-segment results.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/emotionscope/internal/analysis"
)

const (
	// FieldName is the multipart field the backend reads the upload from.
	FieldName = "audio"

	// DefaultMaxUploadBytes mirrors the backend's request size limit.
	DefaultMaxUploadBytes int64 = 50 * 1024 * 1024

	RequestIDHeader = "X-Request-ID"

	analyzePath      = "/analyze"
	healthPath       = "/health"
	maxResponseBytes = 16 << 20
)

// SupportedExtensions lists the audio containers the backend can convert.
var SupportedExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"}

// Config describes how to reach the backend.
type Config struct {
	BaseURL string
	// Timeout bounds one request. Zero means no client-side limit.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues single request/response exchanges; it never retries.
type Client struct {
	base string
	http *http.Client
}

// Health is the backend's /health payload.
type Health struct {
	Status               string `json:"status"`
	SentimentModelLoaded bool   `json:"sentiment_model_loaded"`
}

// New validates the base URL and returns a Client for it.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("analyzer: backend url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("analyzer: invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("analyzer: backend url must be http or https, got %q", u.Scheme)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: base, http: hc}, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.base }

// Analyze uploads the audio file at path and returns the decoded result.
// requestID is sent as X-Request-ID; a new one is generated when empty.
func (c *Client) Analyze(ctx context.Context, requestID, path string) (analysis.Result, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	body, contentType, err := encodeUpload(path)
	if err != nil {
		return analysis.Result{}, &Error{Kind: KindTransport, Message: "read audio file", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+analyzePath, body)
	if err != nil {
		return analysis.Result{}, &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return analysis.Result{}, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return analysis.Result{}, &Error{Kind: KindTransport, Message: "read response", Err: err}
	}
	result, err := decodeAnalysis(raw)
	if err != nil {
		var aerr *Error
		if errors.As(err, &aerr) && aerr.Kind == KindMalformed && resp.StatusCode != http.StatusOK {
			aerr.Message = fmt.Sprintf("%s (%s)", aerr.Message, resp.Status)
		}
		return analysis.Result{}, err
	}
	return result, nil
}

// Health queries the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+healthPath, nil)
	if err != nil {
		return Health{}, &Error{Kind: KindTransport, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Health{}, &Error{Kind: KindTransport, Message: fmt.Sprintf("health %s: %s", resp.Status, strings.TrimSpace(string(body)))}
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Health{}, &Error{Kind: KindTransport, Err: err}
	}
	return decodeHealth(raw)
}

func encodeUpload(path string) (io.Reader, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile(FieldName, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, "", err
	}
	if err = w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}

// CheckFile reports whether path looks like an uploadable audio file.
// maxBytes <= 0 uses DefaultMaxUploadBytes.
func CheckFile(path string, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return &FileError{Reason: "Choose an audio file to analyze."}
	}
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileError{Path: path, Reason: fmt.Sprintf("File not found: %s", name)}
		}
		return &FileError{Path: path, Reason: fmt.Sprintf("Cannot read %s: %v", name, err)}
	}
	if !info.Mode().IsRegular() {
		return &FileError{Path: path, Reason: fmt.Sprintf("%s is not a regular file.", name)}
	}
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, s := range SupportedExtensions {
		if ext == s {
			supported = true
			break
		}
	}
	if !supported {
		return &FileError{Path: path, Reason: fmt.Sprintf("Unsupported audio format %q (use %s).", ext, strings.Join(SupportedExtensions, ", "))}
	}
	if info.Size() == 0 {
		return &FileError{Path: path, Reason: fmt.Sprintf("%s is empty.", name)}
	}
	if info.Size() > maxBytes {
		return &FileError{Path: path, Reason: fmt.Sprintf("%s is %s; the limit is %s.", name, humanBytes(info.Size()), humanBytes(maxBytes))}
	}
	return nil
}

func humanBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d KB", (n+1023)/1024)
}
