// CLAUDE:SUMMARY Registers the url-fetch MCP tool: fetch through the injected fetcher, extract, standardize failures.
package docpipe

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/getweb/guard"
	"github.com/hazyhaar/getweb/kit"
	"github.com/hazyhaar/getweb/webfetch"
)

// Fetcher supplies raw bytes for a URL. Implemented by webfetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (data []byte, contentType string, err error)
}

const (
	defaultMaxLength = 10000
	minMaxLength     = 1000
	maxMaxLength     = 50000
	truncationNotice = "... [Content truncated due to length]"
)

type urlFetchReq struct {
	URL                string `json:"url"`
	MaxLength          int    `json:"maxLength"`
	ExtractMainContent *bool  `json:"extractMainContent"`
}

// RegisterMCP registers the url-fetch tool on an MCP server. Optional
// middlewares wrap the endpoint, outermost first.
func (p *Pipeline) RegisterMCP(srv *mcp.Server, fetcher Fetcher, mw ...kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "url-fetch",
		Description: "Fetch a URL and return its content as readable text or Markdown, extracting the main content region of HTML pages.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "The URL to fetch"},
			"maxLength": map[string]any{
				"type": "integer", "description": "Maximum length of content to return (default: 10000)",
				"default": defaultMaxLength, "minimum": minMaxLength, "maximum": maxMaxLength,
			},
			"extractMainContent": map[string]any{
				"type": "boolean", "description": "Whether to attempt to extract main content (default: true)",
				"default": true,
			},
		}, []string{"url"}),
	}

	var endpoint kit.Endpoint = func(ctx context.Context, req any) (any, error) {
		r := req.(*urlFetchReq)
		return p.fetchURL(ctx, fetcher, r)
	}
	if len(mw) > 0 {
		endpoint = kit.Chain(mw...)(endpoint)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r urlFetchReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// fetchURL runs fetch plus extraction and renders the tool result.
// Standardized failure payloads pass through untouched; anything
// unanticipated is wrapped so internals never leak to the caller.
func (p *Pipeline) fetchURL(ctx context.Context, fetcher Fetcher, r *urlFetchReq) (string, error) {
	if _, err := url.ParseRequestURI(r.URL); err != nil {
		return "", &Error{
			Code:    guard.CodeUnknown,
			Message: "Invalid URL",
			Details: map[string]any{"url": r.URL},
		}
	}

	maxLength := r.MaxLength
	if maxLength == 0 {
		maxLength = defaultMaxLength
	}
	if maxLength < minMaxLength {
		maxLength = minMaxLength
	}
	if maxLength > maxMaxLength {
		maxLength = maxMaxLength
	}
	wantMain := r.ExtractMainContent == nil || *r.ExtractMainContent

	data, contentType, err := fetcher.Fetch(ctx, r.URL)
	if err != nil {
		var herr *webfetch.HTTPError
		if errors.As(err, &herr) {
			return "", &Error{
				Code:    guard.CodeFetchHTTP,
				Message: "The URL returned an HTTP error status",
				Details: map[string]any{"url": r.URL, "status": herr.Status, "reason": herr.Reason},
			}
		}
		p.logger.Warn("fetch failed", "url", r.URL, "error", err)
		return "", &Error{
			Code:    guard.CodeUnknown,
			Message: "An unknown error occurred while fetching the content",
			Details: map[string]any{"url": r.URL, "hint": "Please try again later or provide a different URL."},
		}
	}

	content, err := p.Extract(ctx, Request{
		URL:             r.URL,
		Data:            data,
		ContentType:     contentType,
		WantMainContent: wantMain,
	})
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			return "", perr
		}
		p.logger.Error("unanticipated extraction failure", "url", r.URL, "error", err)
		return "", &Error{
			Code:    guard.CodeUnknown,
			Message: "An unknown error occurred while fetching the content",
			Details: map[string]any{"url": r.URL, "hint": "Please try again later or provide a different URL."},
		}
	}

	text := content.Text
	if guard.PrimaryMIME(content.ContentType) == "application/json" {
		text = fenceJSON(text)
	}
	return guard.SafeTruncate(text, maxLength, truncationNotice), nil
}

// fenceJSON pretty-prints JSON payloads in a fenced block; non-JSON text
// passes through unchanged.
func fenceJSON(text string) string {
	var pretty json.RawMessage
	if err := json.Unmarshal([]byte(text), &pretty); err != nil {
		return text
	}
	indented, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return text
	}
	return "```json\n" + string(indented) + "\n```"
}
