// CLAUDE:SUMMARY Page metadata extractor: title, description, og:image and favicon with relative URL resolution.
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hazyhaar/getweb/webfetch"
)

// ExtractMetadata fetches a page and pulls its title, description,
// social image and favicon. Relative image and icon URLs are resolved
// against the page URL.
func ExtractMetadata(ctx context.Context, fetcher *webfetch.Fetcher, pageURL string) (*URLMetadata, error) {
	body, _, err := fetcher.FetchWithHeaders(ctx, pageURL, map[string]string{
		"User-Agent": randomUserAgent(),
	})
	if err != nil {
		return nil, fmt.Errorf("metadata fetch: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("metadata parse: %w", err)
	}

	meta := &URLMetadata{
		URL:   pageURL,
		Title: SnippetText(doc.Find("title").First().Text()),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		meta.Description = SnippetText(desc)
	} else if og, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		meta.Description = SnippetText(og)
	}

	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && img != "" {
		meta.Image = resolveRef(pageURL, img)
	}

	if icon, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href"); ok && icon != "" {
		meta.Favicon = resolveRef(pageURL, icon)
	} else {
		meta.Favicon = FaviconURL(pageURL)
	}

	return meta, nil
}

func resolveRef(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	resolved, err := baseURL.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}
