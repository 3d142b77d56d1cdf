// CLAUDE:SUMMARY HTTP fetcher for untrusted URLs: SSRF validation on every hop, size-limited reads, typed status errors.
// Package webfetch performs the outbound HTTP requests behind the fetch
// and search tools. Every target and every redirect hop is validated
// before a connection is made, and body reads are capped.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hazyhaar/getweb/websafe"
)

// FirefoxUA is the default browser identity for content fetches. Some
// sites serve degraded or blocked responses to non-browser agents.
const FirefoxUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0"

// HTTPError reports a response with a failure status.
type HTTPError struct {
	URL    string
	Status int
	Reason string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Reason, e.URL)
}

// Config configures the fetcher.
type Config struct {
	Timeout  time.Duration // HTTP timeout. Default: 30s.
	MaxBytes int64         // Max response body size. Default: websafe.MaxResponseBody.
	// UserAgent sent with requests unless the caller overrides it.
	UserAgent string
	// URLValidator validates URLs before fetch (SSRF prevention).
	// Default: websafe.ValidateURL.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = websafe.MaxResponseBody
	}
	if c.UserAgent == "" {
		c.UserAgent = FirefoxUA
	}
	if c.URLValidator == nil {
		c.URLValidator = websafe.ValidateURL
	}
}

// Fetcher performs validated HTTP requests.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher with SSRF protection on redirects.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves a URL and returns the body and Content-Type header.
// Failure statuses surface as *HTTPError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	return f.FetchWithHeaders(ctx, rawURL, nil)
}

// FetchWithHeaders is Fetch with extra request headers (the search
// scraper rotates User-Agent and sets browser-mimic Accept headers).
func (f *Fetcher) FetchWithHeaders(ctx context.Context, rawURL string, headers map[string]string) ([]byte, string, error) {
	if err := f.config.URLValidator(rawURL); err != nil {
		return nil, "", fmt.Errorf("URL blocked: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &HTTPError{
			URL:    rawURL,
			Status: resp.StatusCode,
			Reason: http.StatusText(resp.StatusCode),
		}
	}

	body, err := websafe.LimitedReadAll(resp.Body, f.config.MaxBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Do executes an arbitrary request after validating its URL. The caller
// owns the response body (used by the SSE search client).
func (f *Fetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.config.URLValidator(req.URL.String()); err != nil {
		return nil, fmt.Errorf("URL blocked: %w", err)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}
	return f.client.Do(req)
}
