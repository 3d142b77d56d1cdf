// CLAUDE:SUMMARY Google Custom Search API client with filters, pagination info, categorization and a bounded cache.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hazyhaar/getweb/webfetch"
)

const (
	googleEndpoint     = "https://www.googleapis.com/customsearch/v1"
	googleCacheEntries = 100
	googleMaxPerPage   = 10
)

// GoogleFilters narrows a Custom Search query.
type GoogleFilters struct {
	Site           string `json:"site,omitempty"`
	Language       string `json:"language,omitempty"`
	DateRestrict   string `json:"dateRestrict,omitempty"`
	ExactTerms     string `json:"exactTerms,omitempty"`
	ResultType     string `json:"resultType,omitempty"`
	Page           int    `json:"page,omitempty"`
	ResultsPerPage int    `json:"resultsPerPage,omitempty"`
	Sort           string `json:"sort,omitempty"`
}

// GoogleResult is one Custom Search item, enriched with a heuristic
// category.
type GoogleResult struct {
	Title         string         `json:"title"`
	Link          string         `json:"link"`
	Snippet       string         `json:"snippet"`
	DatePublished string         `json:"datePublished,omitempty"`
	Category      string         `json:"category"`
	PageMap       map[string]any `json:"-"`
}

// CategoryInfo counts results falling into one category.
type CategoryInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Pagination describes where a result page sits in the full result set.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	ResultsPerPage  int   `json:"resultsPerPage"`
	TotalResults    int64 `json:"totalResults"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// GoogleResponse is a full search answer.
type GoogleResponse struct {
	Results    []GoogleResult `json:"results"`
	Pagination Pagination     `json:"pagination"`
	Categories []CategoryInfo `json:"categories"`
}

// Google is a Custom Search Engine client. Nil when the server starts
// without API credentials.
type Google struct {
	fetcher  *webfetch.Fetcher
	cache    *Cache[GoogleResponse]
	logger   *slog.Logger
	apiKey   string
	engineID string
	baseURL  string
}

type GoogleConfig struct {
	APIKey   string
	EngineID string
	Fetcher  *webfetch.Fetcher
	Logger   *slog.Logger
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

func (c *GoogleConfig) defaults() {
	if c.Fetcher == nil {
		c.Fetcher = webfetch.New(webfetch.Config{})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.BaseURL == "" {
		c.BaseURL = googleEndpoint
	}
}

func NewGoogle(cfg GoogleConfig) *Google {
	cfg.defaults()
	return &Google{
		fetcher:  cfg.Fetcher,
		cache:    NewCache[GoogleResponse](searchCacheTTL, googleCacheEntries),
		logger:   cfg.Logger.With("component", "google"),
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		baseURL:  cfg.BaseURL,
	}
}

type googleAPIItem struct {
	Title   string         `json:"title"`
	Link    string         `json:"link"`
	Snippet string         `json:"snippet"`
	PageMap map[string]any `json:"pagemap"`
}

type googleAPIResponse struct {
	Items             []googleAPIItem `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
}

// Search runs a Custom Search query. numResults caps the page size at
// the API's limit of 10.
func (g *Google) Search(ctx context.Context, query string, numResults int, filters *GoogleFilters) (*GoogleResponse, error) {
	if numResults < 1 {
		numResults = 5
	}
	if numResults > googleMaxPerPage {
		numResults = googleMaxPerPage
	}

	key := fmt.Sprintf("%s-%d-%+v", query, numResults, filters)
	if cached, ok := g.cache.Get(key); ok {
		return &cached, nil
	}

	page := 1
	perPage := numResults
	formatted := query
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.ResultsPerPage > 0 {
			perPage = filters.ResultsPerPage
			if perPage > googleMaxPerPage {
				perPage = googleMaxPerPage
			}
		}
		if filters.Site != "" {
			formatted += " site:" + filters.Site
		}
		if filters.ExactTerms != "" {
			formatted += fmt.Sprintf(" %q", filters.ExactTerms)
		}
		switch strings.ToLower(filters.ResultType) {
		case "news":
			formatted += " source:news"
		case "video", "videos":
			formatted += " filetype:video OR inurl:video OR inurl:watch"
		}
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", formatted)
	params.Set("num", strconv.Itoa(perPage))
	params.Set("start", strconv.Itoa((page-1)*perPage+1))
	if filters != nil {
		if filters.Language != "" {
			params.Set("lr", "lang_"+filters.Language)
		}
		if filters.DateRestrict != "" {
			params.Set("dateRestrict", filters.DateRestrict)
		}
		switch strings.ToLower(filters.ResultType) {
		case "image", "images":
			params.Set("searchType", "image")
		}
		if strings.EqualFold(filters.Sort, "date") {
			params.Set("sort", "date")
		}
	}

	body, _, err := g.fetcher.Fetch(ctx, g.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	var api googleAPIResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("google search decode: %w", err)
	}

	totalResults, _ := strconv.ParseInt(api.SearchInformation.TotalResults, 10, 64)
	totalPages := 0
	if totalResults > 0 {
		totalPages = int((totalResults + int64(perPage) - 1) / int64(perPage))
	}

	resp := GoogleResponse{
		Results: make([]GoogleResult, 0, len(api.Items)),
		Pagination: Pagination{
			CurrentPage:     page,
			ResultsPerPage:  perPage,
			TotalResults:    totalResults,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}

	for _, item := range api.Items {
		r := GoogleResult{
			Title:         item.Title,
			Link:          item.Link,
			Snippet:       item.Snippet,
			PageMap:       item.PageMap,
			DatePublished: publishedTime(item.PageMap),
		}
		r.Category = categorize(r.Link, r.Title)
		resp.Results = append(resp.Results, r)
	}
	resp.Categories = categoryStats(resp.Results)

	g.logger.Debug("google search done", "query", query, "results", len(resp.Results), "total", totalResults)
	g.cache.Put(key, resp)
	return &resp, nil
}

func publishedTime(pagemap map[string]any) string {
	metatags, ok := pagemap["metatags"].([]any)
	if !ok || len(metatags) == 0 {
		return ""
	}
	first, ok := metatags[0].(map[string]any)
	if !ok {
		return ""
	}
	t, _ := first["article:published_time"].(string)
	return t
}

var categoryDomains = []struct {
	name    string
	domains []string
}{
	{"Social Media", []string{"facebook.com", "twitter.com", "instagram.com", "linkedin.com", "pinterest.com", "tiktok.com", "reddit.com"}},
	{"Video", []string{"youtube.com", "vimeo.com", "dailymotion.com", "twitch.tv"}},
	{"News", []string{"news", "cnn.com", "bbc.com", "nytimes.com", "wsj.com", "reuters.com", "bloomberg.com"}},
	{"Educational", []string{"wikipedia.org", "khan", "course", "learn", "study", "academic"}},
	{"Documentation", []string{"docs", "documentation", "developer", "github.com", "gitlab.com", "bitbucket.org", "stackoverflow.com"}},
	{"Shopping", []string{"amazon.com", "ebay.com", "etsy.com", "walmart.com", "shop", "store", "buy"}},
}

var documentationTitleWords = []string{"docs", "documentation", "api", "reference", "manual"}

// categorize tags a result by domain heuristics, falling back to the
// capitalized second-level domain.
func categorize(link, title string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "Other"
	}
	domain := strings.Replace(u.Host, "www.", "", 1)

	if strings.HasSuffix(domain, ".edu") {
		return "Educational"
	}
	for _, cat := range categoryDomains {
		for _, d := range cat.domains {
			if strings.Contains(domain, d) {
				return cat.name
			}
		}
	}
	lowTitle := strings.ToLower(title)
	for _, w := range documentationTitleWords {
		if strings.Contains(lowTitle, w) {
			return "Documentation"
		}
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		main := parts[len(parts)-2]
		if main != "" {
			return strings.ToUpper(main[:1]) + main[1:]
		}
	}
	return "Other"
}

func categoryStats(results []GoogleResult) []CategoryInfo {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Category]++
	}
	stats := make([]CategoryInfo, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, CategoryInfo{Name: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
