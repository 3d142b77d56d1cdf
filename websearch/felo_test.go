package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func feloStream(lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			w.Write([]byte(l + "\n"))
		}
	}
}

func TestFelo_Search(t *testing.T) {
	var gotPayload feloPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		feloStream(
			`data: {"type":"answer","data":{"text":"Par"}}`,
			`data: {"type":"answer","data":{"text":"Partial answer"}}`,
			`data: {"type":"answer","data":{"text":"Partial answer, now complete."}}`,
			`data: [DONE]`,
		)(w, r)
	}))
	defer srv.Close()

	f := NewFelo(FeloConfig{Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	answer, err := f.Search(context.Background(), "what is new")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Partial answer, now complete." {
		t.Fatalf("answer: %q", answer)
	}
	if gotPayload.Query != "what is new" || gotPayload.SearchUUID == "" {
		t.Fatalf("payload: %+v", gotPayload)
	}
	if gotPayload.ContextsFrom != "google" {
		t.Fatalf("contexts_from: %q", gotPayload.ContextsFrom)
	}
}

func TestFelo_IgnoresNonAnswerEvents(t *testing.T) {
	srv := httptest.NewServer(feloStream(
		`data: {"type":"sources","data":{"text":"irrelevant"}}`,
		`data: {"type":"answer","data":{"text":"real answer"}}`,
		`data: not json at all`,
	))
	defer srv.Close()

	f := NewFelo(FeloConfig{Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	answer, err := f.Search(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "real answer" {
		t.Fatalf("answer: %q", answer)
	}
}

func TestFelo_EmptyStream(t *testing.T) {
	srv := httptest.NewServer(feloStream(`data: [DONE]`))
	defer srv.Close()

	f := NewFelo(FeloConfig{Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	answer, err := f.Search(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if answer != feloEmptyAnswer {
		t.Fatalf("answer: %q", answer)
	}
}

func TestFelo_CacheHit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		feloStream(`data: {"type":"answer","data":{"text":"cached answer"}}`)(w, r)
	}))
	defer srv.Close()

	f := NewFelo(FeloConfig{Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	for i := 0; i < 2; i++ {
		if _, err := f.Search(context.Background(), "same"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("upstream hit %d times", calls)
	}
}

func TestFelo_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFelo(FeloConfig{Fetcher: allowAllFetcher(), BaseURL: srv.URL})
	if _, err := f.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}
}
