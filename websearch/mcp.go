// CLAUDE:SUMMARY Registers the search, fetch-url, metadata and reader MCP tools on top of the provider clients.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/getweb/guard"
	"github.com/hazyhaar/getweb/kit"
	"github.com/hazyhaar/getweb/webfetch"
)

const (
	defaultMaxLength = 10000
	minMaxLength     = 1000
	maxMaxLength     = 50000
	truncationNotice = "... [Content truncated due to length]"
)

// Service bundles the search providers behind the MCP tool surface.
// Google and Jina are optional; their tools report a configuration
// error when called without credentials.
type Service struct {
	duckduckgo *DuckDuckGo
	google     *Google
	felo       *Felo
	jina       *Jina
	fetcher    *webfetch.Fetcher
	renderer   *Renderer
	instrument func(tool string) kit.Middleware
}

// ServiceConfig wires the providers. Nil Google or Jina leaves the
// corresponding tool unconfigured but still registered.
type ServiceConfig struct {
	DuckDuckGo *DuckDuckGo
	Google     *Google
	Felo       *Felo
	Jina       *Jina
	Fetcher    *webfetch.Fetcher
	// Instrument, when set, wraps each tool endpoint with a middleware
	// built for that tool's name (invocation logging).
	Instrument func(tool string) kit.Middleware
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Fetcher == nil {
		cfg.Fetcher = webfetch.New(webfetch.Config{})
	}
	if cfg.DuckDuckGo == nil {
		cfg.DuckDuckGo = NewDuckDuckGo(DuckDuckGoConfig{Fetcher: cfg.Fetcher})
	}
	if cfg.Felo == nil {
		cfg.Felo = NewFelo(FeloConfig{})
	}
	return &Service{
		duckduckgo: cfg.DuckDuckGo,
		google:     cfg.Google,
		felo:       cfg.Felo,
		jina:       cfg.Jina,
		fetcher:    cfg.Fetcher,
		renderer:   NewRenderer(),
		instrument: cfg.Instrument,
	}
}

// RegisterMCP adds every tool to the server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerDuckDuckGo(srv)
	s.registerGoogle(srv)
	s.registerFelo(srv)
	s.registerFetchURL(srv)
	s.registerMetadata(srv)
	s.registerJina(srv)
}

func (s *Service) register(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	if s.instrument != nil {
		endpoint = s.instrument(tool.Name)(endpoint)
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type ddgReq struct {
	Query      string `json:"query"`
	Page       int    `json:"page"`
	NumResults int    `json:"numResults"`
}

func (s *Service) registerDuckDuckGo(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "duckduckgo-search",
		Description: "Search the web using DuckDuckGo and return results",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "The search query"},
			"page": map[string]any{
				"type": "integer", "description": "Page number (default: 1)",
				"default": 1, "minimum": 1,
			},
			"numResults": map[string]any{
				"type": "integer", "description": "Number of results to return (default: 10)",
				"default": 10, "minimum": 1, "maximum": 20,
			},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*ddgReq)
		results, err := s.duckduckgo.Search(ctx, r.Query, r.Page, r.NumResults)
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			return "No results found.", nil
		}
		return FormatSearchResults(results), nil
	}

	s.register(srv, tool, endpoint, decodeInto[ddgReq]())
}

// FormatSearchResults renders results as a numbered markdown list.
func FormatSearchResults(results []SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. [%s](%s)\n   %s", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}

type googleReq struct {
	Query          string `json:"query"`
	NumResults     int    `json:"num_results"`
	Site           string `json:"site"`
	Language       string `json:"language"`
	DateRestrict   string `json:"dateRestrict"`
	ExactTerms     string `json:"exactTerms"`
	ResultType     string `json:"resultType"`
	Page           int    `json:"page"`
	ResultsPerPage int    `json:"resultsPerPage"`
	Sort           string `json:"sort"`
}

func (s *Service) registerGoogle(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "google-search",
		Description: "Search Google and return relevant results from the web. This tool finds web pages, articles, and information on specific topics using Google's search engine. Results include titles, snippets, and URLs that can be analyzed further.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{
				"type": "string", "description": "Search query - be specific and use quotes for exact matches. For best results, use clear keywords and avoid very long queries.",
			},
			"num_results": map[string]any{
				"type": "integer", "description": "Number of results to return (default: 5, max: 10)",
				"default": 5, "minimum": 1, "maximum": 10,
			},
			"site": map[string]any{
				"type": "string", "description": `Limit search results to a specific website domain (e.g., "wikipedia.org").`,
			},
			"language": map[string]any{
				"type": "string", "description": `Filter results by language using ISO 639-1 codes (e.g., "en", "fr").`,
			},
			"dateRestrict": map[string]any{
				"type": "string", "description": `Filter results by date: "d[number]" for past days, "w[number]" weeks, "m[number]" months, "y[number]" years. Example: "m6".`,
			},
			"exactTerms": map[string]any{
				"type": "string", "description": "Search for results that contain this exact phrase.",
			},
			"resultType": map[string]any{
				"type": "string", "description": `Type of results: "image", "news" or "video". Default is general web results.`,
			},
			"page": map[string]any{
				"type": "integer", "description": "Page number for paginated results (starts at 1).",
				"default": 1, "minimum": 1,
			},
			"resultsPerPage": map[string]any{
				"type": "integer", "description": "Number of results per page (default: 5, max: 10).",
				"default": 5, "minimum": 1, "maximum": 10,
			},
			"sort": map[string]any{
				"type": "string", "description": `Sorting method: "relevance" (default) or "date".`,
			},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		if s.google == nil {
			return nil, errors.New("Google Search is not configured. Set GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID environment variables.")
		}
		r := req.(*googleReq)
		resp, err := s.google.Search(ctx, r.Query, r.NumResults, &GoogleFilters{
			Site:           r.Site,
			Language:       r.Language,
			DateRestrict:   r.DateRestrict,
			ExactTerms:     r.ExactTerms,
			ResultType:     r.ResultType,
			Page:           r.Page,
			ResultsPerPage: r.ResultsPerPage,
			Sort:           r.Sort,
		})
		if err != nil {
			return nil, fmt.Errorf("Google search failed: %w", err)
		}
		if len(resp.Results) == 0 {
			return "No results found. Try:\n- Using different keywords\n- Removing quotes from non-exact phrases\n- Using more general terms", nil
		}
		return formatGoogleResponse(r.Query, resp), nil
	}

	s.register(srv, tool, endpoint, decodeInto[googleReq]())
}

func formatGoogleResponse(query string, resp *GoogleResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n\n", query)

	if len(resp.Categories) > 0 {
		parts := make([]string, 0, len(resp.Categories))
		for _, c := range resp.Categories {
			parts = append(parts, fmt.Sprintf("%s (%d)", c.Name, c.Count))
		}
		fmt.Fprintf(&b, "Categories: %s\n\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, "Showing page %d of approximately %d results\n\n",
		resp.Pagination.CurrentPage, resp.Pagination.TotalResults)

	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   %s\n\n", i+1, r.Title, r.Link, r.Snippet)
	}

	if resp.Pagination.HasNextPage || resp.Pagination.HasPreviousPage {
		b.WriteString("Navigation: ")
		if resp.Pagination.HasPreviousPage {
			fmt.Fprintf(&b, "Use 'page: %d' for previous results. ", resp.Pagination.CurrentPage-1)
		}
		if resp.Pagination.HasNextPage {
			fmt.Fprintf(&b, "Use 'page: %d' for more results.", resp.Pagination.CurrentPage+1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type feloReq struct {
	Query string `json:"query"`
}

func (s *Service) registerFelo(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "felo-search",
		Description: "Search the web for up-to-date technical information like latest releases, security advisories, migration guides, benchmarks, and community insights",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "The search query or prompt"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*feloReq)
		answer, err := s.felo.Search(ctx, r.Query)
		if err != nil {
			return nil, fmt.Errorf("Error searching Felo: %w", err)
		}
		if answer == "" {
			return "No results found.", nil
		}
		return answer, nil
	}

	s.register(srv, tool, endpoint, decodeInto[feloReq]())
}

type fetchURLReq struct {
	URL                string   `json:"url"`
	MaxLength          int      `json:"maxLength"`
	ExtractMainContent *bool    `json:"extractMainContent"`
	IncludeLinks       *bool    `json:"includeLinks"`
	IncludeImages      *bool    `json:"includeImages"`
	ExcludeTags        []string `json:"excludeTags"`
}

func (s *Service) registerFetchURL(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "fetch-url",
		Description: "Fetch the content of a URL and return it as text, with options to control extraction",
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
			"includeLinks": map[string]any{
				"type": "boolean", "description": "Whether to include link text (default: true)",
				"default": true,
			},
			"includeImages": map[string]any{
				"type": "boolean", "description": "Whether to include image alt text (default: true)",
				"default": true,
			},
			"excludeTags": map[string]any{
				"type": "array", "description": "Tags to exclude from extraction (default: script, style, etc.)",
				"items": map[string]any{"type": "string"},
			},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		return s.fetchURL(ctx, req.(*fetchURLReq))
	}

	s.register(srv, tool, endpoint, decodeInto[fetchURLReq]())
}

func (s *Service) fetchURL(ctx context.Context, r *fetchURLReq) (string, error) {
	if _, err := url.ParseRequestURI(r.URL); err != nil {
		return "", fmt.Errorf("Invalid URL: %v", err)
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

	opts := ContentExtractionOptions{
		ExtractMainContent: r.ExtractMainContent == nil || *r.ExtractMainContent,
		IncludeLinks:       r.IncludeLinks == nil || *r.IncludeLinks,
		IncludeImages:      r.IncludeImages == nil || *r.IncludeImages,
		ExcludeTags:        r.ExcludeTags,
	}

	data, contentType, err := s.fetcher.FetchWithHeaders(ctx, r.URL, map[string]string{
		"User-Agent": randomUserAgent(),
	})
	if err != nil {
		var herr *webfetch.HTTPError
		if errors.As(err, &herr) {
			return "", errors.New(guard.ErrorPayload(guard.CodeFetchHTTP,
				"The URL returned an HTTP error status",
				map[string]any{"url": r.URL, "status": herr.Status, "reason": herr.Reason}))
		}
		return "", errors.New(guard.ErrorPayload(guard.CodeUnknown,
			"An unknown error occurred while fetching the content",
			map[string]any{"url": r.URL, "hint": "Please try again later or provide a different URL."}))
	}

	head := data
	if len(head) > guard.SniffLen {
		head = head[:guard.SniffLen]
	}
	if v := guard.Classify(contentType, head); v.Binary {
		return "", errors.New(guard.ErrorPayload(guard.CodeUnsupportedBinary,
			"The fetched content is binary and cannot be rendered as text",
			map[string]any{"url": r.URL, "mime": v.ContentType}))
	}

	var content string
	if mime := guard.PrimaryMIME(contentType); mime == "text/html" || mime == "application/xhtml+xml" {
		content, err = s.renderer.Render(string(data), r.URL, opts)
		if err != nil {
			return "", errors.New(guard.ErrorPayload(guard.CodeHTMLConversion,
				"The HTML content could not be converted to text",
				map[string]any{"url": r.URL}))
		}
	} else {
		content = string(data)
	}

	truncated := guard.SafeTruncate(content, maxLength, truncationNotice)

	trailer := fmt.Sprintf(
		"\n---\nExtraction settings:\n- URL: %s\n- Main content extraction: %s\n- Links included: %s\n- Images included: %s\n- Content length: %d characters%s\n---",
		r.URL,
		enabledWord(opts.ExtractMainContent),
		yesNo(opts.IncludeLinks),
		yesNoImages(opts.IncludeImages),
		len(content),
		truncatedSuffix(len(content), maxLength),
	)
	return truncated + trailer, nil
}

func enabledWord(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func yesNoImages(b bool) string {
	if b {
		return "Yes (as alt text)"
	}
	return "No"
}

func truncatedSuffix(contentLen, maxLength int) string {
	if contentLen > maxLength {
		return fmt.Sprintf(" (truncated to %d)", maxLength)
	}
	return ""
}

type metadataReq struct {
	URL string `json:"url"`
}

func (s *Service) registerMetadata(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "url-metadata",
		Description: "Extract metadata from a URL (title, description, etc.)",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "The URL to extract metadata from"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*metadataReq)
		if _, err := url.ParseRequestURI(r.URL); err != nil {
			return nil, fmt.Errorf("Invalid URL: %v", err)
		}
		meta, err := ExtractMetadata(ctx, s.fetcher, r.URL)
		if err != nil {
			return nil, fmt.Errorf("Error extracting metadata: %w", err)
		}
		return formatMetadata(meta), nil
	}

	s.register(srv, tool, endpoint, decodeInto[metadataReq]())
}

func formatMetadata(meta *URLMetadata) string {
	return fmt.Sprintf(
		"## URL Metadata for %s\n\n**Title:** %s\n\n**Description:** %s\n\n**Image:** %s\n\n**Favicon:** %s",
		meta.URL, meta.Title, meta.Description,
		orNone(meta.Image), orNone(meta.Favicon),
	)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

type jinaReq struct {
	URL               string `json:"url"`
	MaxLength         int    `json:"maxLength"`
	WithLinksSummary  bool   `json:"withLinksummary"`
	WithImagesSummary bool   `json:"withImagesSummary"`
	WithGeneratedAlt  bool   `json:"withGeneratedAlt"`
	ReturnFormat      string `json:"returnFormat"`
	NoCache           bool   `json:"noCache"`
	Timeout           int    `json:"timeout"`
}

func (s *Service) registerJina(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "jina-reader",
		Description: "Retrieve LLM-friendly content from a single website URL using Jina r.reader API. Useful when you know the specific source of information.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "The URL to fetch and parse"},
			"maxLength": map[string]any{
				"type": "integer", "description": "Maximum length of content to return (default: 10000)",
				"default": defaultMaxLength, "minimum": minMaxLength, "maximum": maxMaxLength,
			},
			"withLinksummary": map[string]any{
				"type": "boolean", "description": "Include links summary at the end of response (default: false)",
				"default": false,
			},
			"withImagesSummary": map[string]any{
				"type": "boolean", "description": "Include images summary at the end of response (default: false)",
				"default": false,
			},
			"withGeneratedAlt": map[string]any{
				"type": "boolean", "description": "Generate alt text for images lacking captions (default: false)",
				"default": false,
			},
			"returnFormat": map[string]any{
				"type": "string", "description": "Format of the returned content (default: markdown)",
				"enum":    []string{"markdown", "html", "text", "screenshot", "pageshot"},
				"default": "markdown",
			},
			"noCache": map[string]any{
				"type": "boolean", "description": "Bypass cache for fresh retrieval (default: false)",
				"default": false,
			},
			"timeout": map[string]any{
				"type": "integer", "description": "Maximum time in seconds to wait for webpage to load (default: 10)",
				"default": 10, "minimum": 5, "maximum": 30,
			},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		if s.jina == nil {
			return nil, errors.New("Jina Reader API key not configured. Set JINA_API_KEY environment variable.")
		}
		r := req.(*jinaReq)
		if _, err := url.ParseRequestURI(r.URL); err != nil {
			return nil, fmt.Errorf("Invalid URL: %v", err)
		}
		result, err := s.jina.Read(ctx, r.URL, JinaParams{
			WithLinksSummary:  r.WithLinksSummary,
			WithImagesSummary: r.WithImagesSummary,
			WithGeneratedAlt:  r.WithGeneratedAlt,
			ReturnFormat:      r.ReturnFormat,
			NoCache:           r.NoCache,
			Timeout:           r.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("Error reading URL: %w", err)
		}
		return formatJinaResult(r, result), nil
	}

	s.register(srv, tool, endpoint, decodeInto[jinaReq]())
}

func formatJinaResult(r *jinaReq, result *JinaResult) string {
	maxLength := r.MaxLength
	if maxLength == 0 {
		maxLength = defaultMaxLength
	}

	content := result.Content
	truncated := guard.SafeTruncate(content, maxLength, truncationNotice)

	title := result.Title
	if title == "" {
		title = "Untitled"
	}
	resultURL := result.URL
	if resultURL == "" {
		resultURL = r.URL
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s", title)
	if result.Description != "" {
		fmt.Fprintf(&b, "\n\n**Description:** %s\n", result.Description)
	}
	fmt.Fprintf(&b, "\n**URL:** %s\n\n", resultURL)
	b.WriteString(truncated)

	if r.WithLinksSummary && len(result.Links) > 0 {
		b.WriteString("\n\n## Links\n")
		for title, href := range result.Links {
			fmt.Fprintf(&b, "- [%s](%s)\n", title, href)
		}
	}
	if r.WithImagesSummary && len(result.Images) > 0 {
		b.WriteString("\n\n## Images\n")
		for alt, src := range result.Images {
			fmt.Fprintf(&b, "- ![%s](%s)\n", alt, src)
		}
	}

	format := r.ReturnFormat
	if format == "" {
		format = "markdown"
	}
	fmt.Fprintf(&b,
		"\n---\n**Extraction Info:**\n- Format: %s\n- Original length: %d characters%s\n- Links summary: %s\n- Images summary: %s\n---",
		format, len(content), truncatedSuffix(len(content), maxLength),
		includedWord(r.WithLinksSummary), includedWord(r.WithImagesSummary),
	)
	return b.String()
}

func includedWord(b bool) string {
	if b {
		return "Included"
	}
	return "Not included"
}

// decodeInto builds the typed argument decoder for a tool request.
func decodeInto[T any]() func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r T
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}
}
