package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractMetadata(t *testing.T) {
	page := `<html><head>
		<title>  The Page Title </title>
		<meta name="description" content="A page description.">
		<meta property="og:image" content="/images/social.png">
		<link rel="icon" href="/favicon.ico">
	</head><body></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	meta, err := ExtractMetadata(context.Background(), allowAllFetcher(), srv.URL+"/article")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "The Page Title" {
		t.Fatalf("title: %q", meta.Title)
	}
	if meta.Description != "A page description." {
		t.Fatalf("description: %q", meta.Description)
	}
	if meta.Image != srv.URL+"/images/social.png" {
		t.Fatalf("image not resolved: %q", meta.Image)
	}
	if meta.Favicon != srv.URL+"/favicon.ico" {
		t.Fatalf("favicon not resolved: %q", meta.Favicon)
	}
}

func TestExtractMetadata_OGDescriptionFallback(t *testing.T) {
	page := `<html><head><meta property="og:description" content="og only"></head><body></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	meta, err := ExtractMetadata(context.Background(), allowAllFetcher(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Description != "og only" {
		t.Fatalf("description: %q", meta.Description)
	}
}

func TestExtractMetadata_FaviconServiceFallback(t *testing.T) {
	// Pages without a declared icon fall back to the favicon service.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>t</title></head><body></body></html>`))
	}))
	defer srv.Close()

	meta, err := ExtractMetadata(context.Background(), allowAllFetcher(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Favicon == "" || meta.Favicon == srv.URL {
		t.Fatalf("favicon: %q", meta.Favicon)
	}
}

func TestExtractMetadata_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := ExtractMetadata(context.Background(), allowAllFetcher(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
}
