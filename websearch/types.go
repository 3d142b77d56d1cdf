// CLAUDE:SUMMARY Shared result and option types for the search and fetch tool surface.
package websearch

// SearchResult is one entry of a web search, whatever the provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Favicon string `json:"favicon,omitempty"`
}

// ContentExtractionOptions controls the fetch-url tool's rendering.
type ContentExtractionOptions struct {
	ExtractMainContent bool
	IncludeLinks       bool
	IncludeImages      bool
	ExcludeTags        []string
}

// DefaultExcludeTags are stripped before rendering unless the caller
// overrides the list.
func DefaultExcludeTags() []string {
	return []string{"script", "style", "noscript", "iframe", "svg", "nav", "footer", "header", "aside"}
}

// URLMetadata is the url-metadata tool's result.
type URLMetadata struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}
