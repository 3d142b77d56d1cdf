package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const jinaFixture = `{
	"code": 200,
	"status": 20000,
	"data": {
		"url": "https://example.com/post",
		"title": "Example Post",
		"description": "A post about examples.",
		"content": "# Example Post\n\nBody text.",
		"links": {"Home": "https://example.com/"},
		"images": {"hero": "https://example.com/hero.png"}
	}
}`

func TestJina_Read(t *testing.T) {
	var gotAuth, gotLinks string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLinks = r.Header.Get("X-With-Links-Summary")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(jinaFixture))
	}))
	defer srv.Close()

	j := NewJina(JinaConfig{APIKey: "secret", Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	result, err := j.Read(context.Background(), "https://example.com/post", JinaParams{WithLinksSummary: true})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("auth: %q", gotAuth)
	}
	if gotLinks != "true" {
		t.Fatalf("links header: %q", gotLinks)
	}
	if gotBody["url"] != "https://example.com/post" {
		t.Fatalf("body: %+v", gotBody)
	}
	if result.Title != "Example Post" || result.Links["Home"] != "https://example.com/" {
		t.Fatalf("result: %+v", result)
	}
}

func TestJina_OptionalHeadersOmitted(t *testing.T) {
	// Default params must not emit X- option headers; the API treats
	// their presence as opting in.
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.Write([]byte(jinaFixture))
	}))
	defer srv.Close()

	j := NewJina(JinaConfig{APIKey: "k", Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	if _, err := j.Read(context.Background(), "https://example.com/x", JinaParams{ReturnFormat: "markdown", Timeout: 10}); err != nil {
		t.Fatal(err)
	}
	for _, h := range []string{"X-With-Links-Summary", "X-With-Images-Summary", "X-Return-Format", "X-No-Cache", "X-Timeout"} {
		if headers.Get(h) != "" {
			t.Fatalf("header %s unexpectedly set", h)
		}
	}
}

func TestJina_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	j := NewJina(JinaConfig{APIKey: "bad", Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	if _, err := j.Read(context.Background(), "https://example.com/x", JinaParams{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestJina_BlockedTarget(t *testing.T) {
	j := NewJina(JinaConfig{APIKey: "k", Fetcher: allowAllFetcher()})
	if _, err := j.Read(context.Background(), "ftp://example.com/file", JinaParams{}); err == nil {
		t.Fatal("unsafe scheme accepted")
	}
}
