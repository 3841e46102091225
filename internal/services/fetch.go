package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultMaxBodyBytes = 5 << 20
	maxFetchRedirects   = 3
)

// ErrTooManyRedirects is returned when a page redirects more than the fetcher allows.
var ErrTooManyRedirects = errors.New("too many redirects")

// HTTPFetcher implements [Fetcher] over net/http.
type HTTPFetcher struct {
	httpClient   *http.Client
	maxBodyBytes int64
}

// FetcherOption configures an [HTTPFetcher].
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the underlying client. Its timeout and redirect policy are used as is.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) { f.httpClient = c }
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// NewHTTPFetcher creates a fetcher with the given timeout (zero uses 15s).
func NewHTTPFetcher(timeout time.Duration, opts ...FetcherOption) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	f := &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxFetchRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get performs a single GET of url with headers and returns the body as text.
//
// Bodies larger than the configured cap are truncated.
func (f *HTTPFetcher) Get(ctx context.Context, url string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
