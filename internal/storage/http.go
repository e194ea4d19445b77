package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSource downloads images over HTTP with a small retry budget. Server
// errors and transport failures are retried; client errors are not.
type HTTPSource struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
}

// NewHTTPSource creates a source whose requests time out after timeout.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}
	return &HTTPSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		attempts: 3,
		backoff:  time.Second,
	}
}

// Open fetches url and returns the response body on status 200.
func (h *HTTPSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt < h.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		req.Header.Set("Accept", "image/png, image/jpeg, image/gif, image/bmp, image/tiff, image/webp, */*")
		req.Header.Set("User-Agent", "image-edit-mcp/1.0")

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
	}
	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", h.attempts, lastErr)
}
