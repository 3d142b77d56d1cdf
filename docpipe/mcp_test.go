package docpipe

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/getweb/guard"
	"github.com/hazyhaar/getweb/webfetch"
)

type stubFetcher struct {
	data        []byte
	contentType string
	err         error
}

func (s *stubFetcher) Fetch(context.Context, string) ([]byte, string, error) {
	return s.data, s.contentType, s.err
}

func TestFetchURL_RendersMarkdown(t *testing.T) {
	p := newTestPipeline()
	f := &stubFetcher{
		data:        []byte(`<html><body><article><h2>News</h2><p>content body</p></article></body></html>`),
		contentType: "text/html; charset=utf-8",
	}
	out, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/n"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "## News") || !strings.Contains(out, "content body") {
		t.Fatalf("output: %q", out)
	}
}

func TestFetchURL_Truncates(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 200)
	p := newTestPipeline()
	f := &stubFetcher{data: []byte(long), contentType: "text/plain"}
	out, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/t", MaxLength: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, truncationNotice) {
		t.Fatalf("missing truncation notice: %q", out[len(out)-60:])
	}
	if len(out) > 1000+len(truncationNotice) {
		t.Fatalf("output too long: %d", len(out))
	}
}

func TestFetchURL_HTTPErrorPayload(t *testing.T) {
	p := newTestPipeline()
	f := &stubFetcher{err: &webfetch.HTTPError{URL: "https://example.com/x", Status: 503, Reason: "Service Unavailable"}}
	_, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := guard.PayloadCode(err.Error()); code != guard.CodeFetchHTTP {
		t.Fatalf("code: %q", code)
	}
}

func TestFetchURL_UnknownErrorWrapped(t *testing.T) {
	// WHAT: transport errors never leak raw diagnostics.
	// WHY: callers see a generic message and a stable machine code.
	p := newTestPipeline()
	f := &stubFetcher{err: errString("dial tcp: connection refused by internal-host:9999")}
	_, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := guard.PayloadCode(err.Error()); code != guard.CodeUnknown {
		t.Fatalf("code: %q", code)
	}
	if strings.Contains(err.Error(), "internal-host") {
		t.Fatalf("internal diagnostics leaked: %q", err.Error())
	}
}

func TestFetchURL_BinaryPayloadPassThrough(t *testing.T) {
	p := newTestPipeline()
	f := &stubFetcher{data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, contentType: "image/jpeg"}
	_, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/img"})
	if code := guard.PayloadCode(err.Error()); code != guard.CodeUnsupportedBinary {
		t.Fatalf("code: %q", code)
	}
}

func TestFetchURL_InvalidURL(t *testing.T) {
	p := newTestPipeline()
	if _, err := p.fetchURL(context.Background(), &stubFetcher{}, &urlFetchReq{URL: "not a url"}); err == nil {
		t.Fatal("invalid URL accepted")
	}
}

func TestFetchURL_JSONFenced(t *testing.T) {
	p := newTestPipeline()
	f := &stubFetcher{data: []byte(`{"a":1}`), contentType: "application/json"}
	out, err := p.fetchURL(context.Background(), f, &urlFetchReq{URL: "https://example.com/api"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "```json\n") {
		t.Fatalf("json not fenced: %q", out)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
