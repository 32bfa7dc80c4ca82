package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mtlprog/ampserve/internal/domain"
)

const (
	// DefaultFetchTimeout bounds a single upstream fetch.
	DefaultFetchTimeout = 5 * time.Second

	// UpstreamCacheHint is sent with every fetch so intermediate caches may
	// answer from a copy up to an hour old.
	UpstreamCacheHint = "max-age=3600"

	// MaxBodyBytes caps an upstream body; anything larger is a failed fetch.
	MaxBodyBytes = 2 << 20
)

// HTTPClient is a timeout-bounded http.Client wrapper.
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient. A non-positive timeout uses DefaultFetchTimeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends req bound to ctx.
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}

// HTTPProvider fetches text with a single GET.
type HTTPProvider struct {
	client *HTTPClient
	url    string
}

// NewHTTPProvider creates an HTTPProvider for url.
func NewHTTPProvider(client *HTTPClient, url string) *HTTPProvider {
	return &HTTPProvider{client: client, url: url}
}

// Fetch performs the GET. Any non-2xx status is an error.
func (p *HTTPProvider) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request for %s: %v", domain.ErrUpstreamFetch, p.url, err)
	}
	req.Header.Set("Cache-Control", UpstreamCacheHint)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.1")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", domain.ErrUpstreamFetch, p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: get %s: status %d", domain.ErrUpstreamFetch, p.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrUpstreamFetch, p.url, err)
	}
	if len(body) > MaxBodyBytes {
		return "", fmt.Errorf("%w: get %s: body exceeds %d bytes", domain.ErrUpstreamFetch, p.url, MaxBodyBytes)
	}

	return string(body), nil
}

// Name implements Provider.
func (p *HTTPProvider) Name() string {
	return "http"
}
