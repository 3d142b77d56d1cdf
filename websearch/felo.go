// CLAUDE:SUMMARY Felo AI answer-engine client consuming the threads SSE stream, keeping the longest answer snapshot.
package websearch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hazyhaar/getweb/idgen"
	"github.com/hazyhaar/getweb/webfetch"
)

const (
	feloEndpoint     = "https://api.felo.ai/search/threads"
	feloCacheEntries = 50
	feloEmptyAnswer  = "No response received from Felo AI."
)

// Felo queries the Felo AI answer engine. Each search opens a new
// thread with a fresh UUID and reads the answer off the SSE stream.
type Felo struct {
	fetcher *webfetch.Fetcher
	cache   *Cache[string]
	logger  *slog.Logger
	baseURL string
}

type FeloConfig struct {
	Fetcher *webfetch.Fetcher
	Logger  *slog.Logger
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

func (c *FeloConfig) defaults() {
	if c.Fetcher == nil {
		c.Fetcher = webfetch.New(webfetch.Config{Timeout: 60 * time.Second})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.BaseURL == "" {
		c.BaseURL = feloEndpoint
	}
}

func NewFelo(cfg FeloConfig) *Felo {
	cfg.defaults()
	return &Felo{
		fetcher: cfg.Fetcher,
		cache:   NewCache[string](searchCacheTTL, feloCacheEntries),
		logger:  cfg.Logger.With("component", "felo"),
		baseURL: cfg.BaseURL,
	}
}

type feloPayload struct {
	Query         string            `json:"query"`
	SearchUUID    string            `json:"search_uuid"`
	Lang          string            `json:"lang"`
	AgentLang     string            `json:"agent_lang"`
	SearchOptions map[string]string `json:"search_options"`
	SearchVideo   bool              `json:"search_video"`
	ContextsFrom  string            `json:"contexts_from"`
}

type feloStreamData struct {
	Type string `json:"type"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

// Search asks Felo a question and returns the final answer text.
func (f *Felo) Search(ctx context.Context, query string) (string, error) {
	key := "felo-" + query
	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}

	payload := feloPayload{
		Query:         query,
		SearchUUID:    idgen.New(),
		AgentLang:     "en",
		SearchOptions: map[string]string{"langcode": "en-US"},
		SearchVideo:   true,
		ContextsFrom:  "google",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("felo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("felo request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://felo.ai")
	req.Header.Set("Referer", "https://felo.ai/")
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := f.fetcher.Do(req)
	if err != nil {
		return "", fmt.Errorf("felo post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &webfetch.HTTPError{URL: f.baseURL, Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	answer, err := readAnswerStream(resp)
	if err != nil {
		return "", err
	}
	if answer == "" {
		f.logger.Warn("felo returned no answer", "query", query)
		return feloEmptyAnswer, nil
	}

	f.cache.Put(key, answer)
	return answer, nil
}

// readAnswerStream walks SSE data lines. Each answer event carries the
// full text so far; the longest snapshot wins.
func readAnswerStream(resp *http.Response) (string, error) {
	var answer string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var event feloStreamData
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		if event.Type == "answer" && len(event.Data.Text) > len(answer) {
			answer = event.Data.Text
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("felo stream: %w", err)
	}
	return answer, nil
}
