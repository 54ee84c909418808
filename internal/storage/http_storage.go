package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"go-image-editor/internal/imageio"
)

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

// FetcherOptions tunes the HTTP image fetcher
type FetcherOptions struct {
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration // multiplied by the attempt number
	MaxBytes     int64         // largest accepted response body
	MaxPixels    int64         // largest accepted width×height
	UserAgent    string
}

// DefaultFetcherOptions returns the default fetcher settings
func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Timeout:      30 * time.Second,
		MaxAttempts:  3,
		RetryBackoff: time.Second,
		MaxBytes:     50 * 1024 * 1024,
		MaxPixels:    25_000_000,
		UserAgent:    "Go-Image-Editor/1.0",
	}
}

// HTTPImageFetcher downloads and decodes images, retrying transient failures
type HTTPImageFetcher struct {
	client *http.Client
	opts   FetcherOptions
}

// NewHTTPImageFetcher creates an HTTP image fetcher with default options
func NewHTTPImageFetcher() ImageFetcher {
	return NewHTTPImageFetcherWithOptions(DefaultFetcherOptions())
}

// NewHTTPImageFetcherWithOptions creates an HTTP image fetcher
func NewHTTPImageFetcherWithOptions(opts FetcherOptions) *HTTPImageFetcher {
	defaults := DefaultFetcherOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.RetryBackoff < 0 {
		opts.RetryBackoff = 0
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaults.MaxBytes
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = defaults.MaxPixels
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	transport := &http.Transport{
		// Connection pooling for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &HTTPImageFetcher{
		opts: opts,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads imageURL and decodes it. Network errors and 5xx
// responses are retried with linear backoff; 4xx responses are not.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/gif, image/bmp, image/tiff, */*")
	req.Header.Set("User-Agent", h.opts.UserAgent)

	var lastErr error
	for attempt := 1; attempt <= h.opts.MaxAttempts; attempt++ {
		img, retry, err := h.try(req)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retry || attempt == h.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(time.Duration(attempt) * h.opts.RetryBackoff):
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", h.opts.MaxAttempts, lastErr)
}

// try performs one request. retry reports whether the failure is transient.
func (h *HTTPImageFetcher) try(req *http.Request) (img image.Image, retry bool, err error) {
	resp, err := h.client.Do(req)
	if err != nil {
		// Context errors are final
		return nil, req.Context().Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, &StatusError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, true, &StatusError{StatusCode: resp.StatusCode}
	default:
		return nil, false, &StatusError{StatusCode: resp.StatusCode}
	}

	img, _, err = imageio.DecodeLimited(io.LimitReader(resp.Body, h.opts.MaxBytes), h.opts.MaxPixels)
	if err != nil {
		return nil, false, err
	}
	return img, false, nil
}

// StatusError reports a non-200 response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	switch {
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return fmt.Sprintf("client error: status code %d", e.StatusCode)
	case e.StatusCode >= 500:
		return fmt.Sprintf("server error: status code %d", e.StatusCode)
	default:
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
}
