// CLAUDE:SUMMARY Jina Reader API client rendering pages to markdown with optional link and image summaries.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hazyhaar/getweb/webfetch"
	"github.com/hazyhaar/getweb/websafe"
)

const jinaEndpoint = "https://r.jina.ai/"

// JinaParams tune a single Reader request. Zero values use the API's
// own defaults.
type JinaParams struct {
	WithLinksSummary  bool   `json:"withLinksSummary,omitempty"`
	WithImagesSummary bool   `json:"withImagesSummary,omitempty"`
	WithGeneratedAlt  bool   `json:"withGeneratedAlt,omitempty"`
	ReturnFormat      string `json:"returnFormat,omitempty"`
	NoCache           bool   `json:"noCache,omitempty"`
	Timeout           int    `json:"timeout,omitempty"`
}

// JinaResult is the document Reader extracted.
type JinaResult struct {
	URL         string            `json:"url,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Content     string            `json:"content,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	Images      map[string]string `json:"images,omitempty"`
}

type jinaEnvelope struct {
	Code   int        `json:"code"`
	Status int        `json:"status"`
	Data   JinaResult `json:"data"`
}

// Jina calls the hosted Reader API. Nil when the server starts without
// a key.
type Jina struct {
	fetcher *webfetch.Fetcher
	logger  *slog.Logger
	apiKey  string
	baseURL string
}

type JinaConfig struct {
	APIKey  string
	Fetcher *webfetch.Fetcher
	Logger  *slog.Logger
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

func (c *JinaConfig) defaults() {
	if c.Fetcher == nil {
		c.Fetcher = webfetch.New(webfetch.Config{Timeout: 60 * time.Second})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.BaseURL == "" {
		c.BaseURL = jinaEndpoint
	}
}

func NewJina(cfg JinaConfig) *Jina {
	cfg.defaults()
	return &Jina{
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger.With("component", "jina"),
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
	}
}

// Read renders the target page through the Reader API. Options travel
// as X- headers; the body only names the URL.
func (j *Jina) Read(ctx context.Context, target string, params JinaParams) (*JinaResult, error) {
	if err := websafe.ValidateURL(target); err != nil {
		return nil, fmt.Errorf("URL blocked: %w", err)
	}

	body, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return nil, fmt.Errorf("jina payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jina request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)
	if params.WithLinksSummary {
		req.Header.Set("X-With-Links-Summary", "true")
	}
	if params.WithImagesSummary {
		req.Header.Set("X-With-Images-Summary", "true")
	}
	if params.WithGeneratedAlt {
		req.Header.Set("X-With-Generated-Alt", "true")
	}
	if params.ReturnFormat != "" && params.ReturnFormat != "markdown" {
		req.Header.Set("X-Return-Format", params.ReturnFormat)
	}
	if params.NoCache {
		req.Header.Set("X-No-Cache", "true")
	}
	if params.Timeout > 0 && params.Timeout != 10 {
		req.Header.Set("X-Timeout", strconv.Itoa(params.Timeout))
	}

	resp, err := j.fetcher.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jina post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &webfetch.HTTPError{URL: target, Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	raw, err := websafe.LimitedReadAll(resp.Body, websafe.MaxResponseBody)
	if err != nil {
		return nil, fmt.Errorf("jina read: %w", err)
	}

	var envelope jinaEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("jina decode: %w", err)
	}
	j.logger.Debug("jina read done", "url", target, "content_bytes", len(envelope.Data.Content))
	return &envelope.Data, nil
}
