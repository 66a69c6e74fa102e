package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// StatusError is returned when a server answers with a non-200 status.
//
// Use errors.As to inspect the code:
//
//	var se *StatusError
//	if errors.As(err, &se) && se.Code == http.StatusNotFound { ... }
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.Code, e.Status, e.URL)
}

// Client wraps HTTP operations with Nebula-specific configuration.
//
// Client provides:
//   - Configured User-Agent header on every request
//   - Optional Authorization header per request
//   - JSON decoding of API responses
//   - File download with progress tracking
//
// Example usage:
//
//	client := NewClient("NebulaDownloader", time.Minute)
//
//	var out feedPage
//	err := client.GetJSON(ctx, url, "Bearer ...", &out)
//
//	err = client.DownloadFile(ctx, subtitleURL, "/videos/ch/ep/en.vtt", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// timeout bounds every request including reading the body; 0 disables it.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Do sends a request with the configured User-Agent and, when auth is not
// empty, an Authorization header. The caller must close the body.
//
// Responses with a status other than 200 are closed and returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, url, auth string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
func (c *Client) Get(ctx context.Context, url, auth string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, auth, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url, auth string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, url, auth, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// PostJSON performs a POST request with an optional JSON body and decodes
// the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url, auth string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.Do(ctx, http.MethodPost, url, auth, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// DownloadFile downloads a file to the specified path with optional progress callback.
//
// The file is created (or truncated if it exists) and the content is streamed
// directly to disk, avoiding loading the entire file into memory.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
//     Pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.Do(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return err
	}
	return file.Close()
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like thumbnails. For large files, use
// DownloadFile to stream directly to disk.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url, "")
}
