// CLAUDE:SUMMARY DuckDuckGo HTML-endpoint scraper with UA rotation, CAPTCHA detection and a 5-minute page cache.
package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hazyhaar/getweb/webfetch"
)

const (
	// ResultsPerPage is DuckDuckGo's HTML endpoint page size.
	ResultsPerPage = 10
	// MaxCachePages bounds how many result pages stay cached.
	MaxCachePages = 5

	searchCacheTTL = 5 * time.Minute
	ddgEndpoint    = "https://duckduckgo.com/html/"
)

// ErrRateLimited is returned when DuckDuckGo serves a CAPTCHA or an
// otherwise degraded page instead of results.
var ErrRateLimited = fmt.Errorf("request limit exceeded, try other tool for search")

var browserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Edge/120.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

func randomUserAgent() string {
	return browserAgents[rand.Intn(len(browserAgents))]
}

// DuckDuckGo scrapes the HTML search endpoint. Cached per query and
// page so repeated tool calls within a session do not re-hit the
// upstream.
type DuckDuckGo struct {
	fetcher *webfetch.Fetcher
	gate    *Gate
	cache   *Cache[[]SearchResult]
	logger  *slog.Logger
	baseURL string
}

// DuckDuckGoConfig carries the scraper's knobs.
type DuckDuckGoConfig struct {
	Fetcher *webfetch.Fetcher
	Logger  *slog.Logger
	// BaseURL overrides the search endpoint, for tests.
	BaseURL string
}

func (c *DuckDuckGoConfig) defaults() {
	if c.Fetcher == nil {
		c.Fetcher = webfetch.New(webfetch.Config{})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.BaseURL == "" {
		c.BaseURL = ddgEndpoint
	}
}

func NewDuckDuckGo(cfg DuckDuckGoConfig) *DuckDuckGo {
	cfg.defaults()
	return &DuckDuckGo{
		fetcher: cfg.Fetcher,
		gate:    NewGate(0),
		cache:   NewCache[[]SearchResult](searchCacheTTL, MaxCachePages),
		logger:  cfg.Logger.With("component", "duckduckgo"),
		baseURL: cfg.BaseURL,
	}
}

// Search returns up to numResults results for the given page. Pages
// are 1-based; each page covers ResultsPerPage upstream results.
func (d *DuckDuckGo) Search(ctx context.Context, query string, page, numResults int) ([]SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if numResults < 1 || numResults > 2*ResultsPerPage {
		numResults = ResultsPerPage
	}

	key := fmt.Sprintf("%s-%d", query, page)
	if cached, ok := d.cache.Get(key); ok {
		return clipResults(cached, numResults), nil
	}

	if err := d.gate.Wait(ctx); err != nil {
		return nil, err
	}

	start := (page - 1) * ResultsPerPage
	endpoint := fmt.Sprintf("%s?q=%s&s=%d", d.baseURL, url.QueryEscape(query), start)

	body, _, err := d.fetcher.FetchWithHeaders(ctx, endpoint, map[string]string{
		"User-Agent":      randomUserAgent(),
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return nil, fmt.Errorf("duckduckgo fetch: %w", err)
	}

	html := string(body)
	if isBlockedPage(html) {
		d.logger.Warn("duckduckgo served captcha or degraded page", "query", query, "bytes", len(html))
		return nil, ErrRateLimited
	}

	results, err := parseResults(html)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo parse: %w", err)
	}
	d.logger.Debug("duckduckgo search done", "query", query, "page", page, "results", len(results))

	d.cache.Put(key, results)
	return clipResults(results, numResults), nil
}

func clipResults(results []SearchResult, n int) []SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func isBlockedPage(html string) bool {
	markers := []string{
		"Unfortunately, bots use DuckDuckGo too",
		"anomaly-modal",
		"challenge-form",
		"captcha",
		"blocked",
	}
	for _, m := range markers {
		if strings.Contains(html, m) {
			return true
		}
	}
	return len(html) < 1000
}

var resultSelectors = []string{
	".result",
	"[data-testid='result']",
	".web-result",
	".result-snippet",
	"article",
	".serp-result",
}

var titleSelectors = []string{
	".result__title a",
	"h2 a",
	"h3 a",
	"a[data-testid='result-title-a']",
	".result-title a",
	"a.result-link",
}

var snippetSelectors = []string{
	".result__snippet",
	".result-snippet",
	".snippet",
	"[data-testid='result-snippet']",
	".result-description",
	"p",
}

func parseResults(html string) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var elements *goquery.Selection
	for _, sel := range resultSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			elements = found
			break
		}
	}
	if elements == nil {
		return nil, nil
	}

	var results []SearchResult
	elements.Each(func(_ int, s *goquery.Selection) {
		var title, rawLink string
		for _, sel := range titleSelectors {
			a := s.Find(sel).First()
			if a.Length() == 0 {
				continue
			}
			title = SnippetText(a.Text())
			rawLink, _ = a.Attr("href")
			if title != "" && rawLink != "" {
				break
			}
		}
		if title == "" || rawLink == "" {
			return
		}

		var snippet string
		for _, sel := range snippetSelectors {
			sn := s.Find(sel).First()
			if sn.Length() == 0 {
				continue
			}
			snippet = SnippetText(sn.Text())
			if snippet != "" {
				break
			}
		}

		direct := extractDirectURL(rawLink)
		results = append(results, SearchResult{
			Title:   title,
			URL:     direct,
			Snippet: snippet,
			Favicon: FaviconURL(direct),
		})
	})
	return results, nil
}

var bareURLRe = regexp.MustCompile(`https?://[^\s<>"]+`)

// extractDirectURL unwraps DuckDuckGo redirect and ad-click URLs to the
// destination they point at.
func extractDirectURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case strings.HasPrefix(raw, "/"):
		raw = "https://duckduckgo.com" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		if m := bareURLRe.FindString(raw); m != "" {
			return m
		}
		return raw
	}

	if u.Host == "duckduckgo.com" && u.Path == "/l/" {
		if uddg := u.Query().Get("uddg"); uddg != "" {
			return uddg
		}
	}

	// Ad redirects nest the click target one level deeper.
	if u.Host == "duckduckgo.com" && u.Path == "/y.js" {
		if u3 := u.Query().Get("u3"); u3 != "" {
			if inner, err := url.Parse(u3); err == nil {
				if ld := inner.Query().Get("ld"); ld != "" {
					return ld
				}
			}
			return u3
		}
	}

	return raw
}

// FaviconURL returns a Google favicon-service URL for the page's host.
func FaviconURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=32", u.Host)
}
