package websearch

import (
	"strings"
	"testing"
)

func TestRenderer_BasicMarkdown(t *testing.T) {
	r := NewRenderer()
	html := `<html><body><h1>Heading</h1><p>Some body text.</p></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{IncludeLinks: true, IncludeImages: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "# Heading") || !strings.Contains(out, "Some body text.") {
		t.Fatalf("output: %q", out)
	}
}

func TestRenderer_DefaultExcludeTags(t *testing.T) {
	r := NewRenderer()
	html := `<html><body><nav>menu items</nav><script>evil()</script><p>kept</p></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{IncludeLinks: true, IncludeImages: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "menu items") || strings.Contains(out, "evil") {
		t.Fatalf("excluded tags leaked: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestRenderer_CustomExcludeTags(t *testing.T) {
	// A caller-supplied list replaces the default one entirely.
	r := NewRenderer()
	html := `<html><body><nav>menu</nav><table><tr><td>cell</td></tr></table></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{
		IncludeLinks: true, IncludeImages: true,
		ExcludeTags: []string{"table"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "cell") {
		t.Fatalf("excluded table leaked: %q", out)
	}
	if !strings.Contains(out, "menu") {
		t.Fatalf("nav removed despite custom exclude list: %q", out)
	}
}

func TestRenderer_LinksStripped(t *testing.T) {
	r := NewRenderer()
	html := `<html><body><p>read <a href="/more">the details</a> now</p></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{IncludeImages: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "](") || strings.Contains(out, "/more") {
		t.Fatalf("link markup survived: %q", out)
	}
	if !strings.Contains(out, "the details") {
		t.Fatalf("link text lost: %q", out)
	}
}

func TestRenderer_ImagesRemoved(t *testing.T) {
	r := NewRenderer()
	html := `<html><body><p>text</p><img src="/pic.png" alt="a picture"></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{IncludeLinks: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "pic.png") || strings.Contains(out, "a picture") {
		t.Fatalf("image survived: %q", out)
	}
}

func TestRenderer_MainContentExtraction(t *testing.T) {
	r := NewRenderer()
	html := `<html><body><div class="promo">advert advert</div><article><h1>Story</h1><p>The article body with enough words to matter.</p></article></body></html>`
	out, err := r.Render(html, "https://example.com", ContentExtractionOptions{
		ExtractMainContent: true, IncludeLinks: true, IncludeImages: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Story") {
		t.Fatalf("main content lost: %q", out)
	}
	if strings.Contains(out, "advert") {
		t.Fatalf("chrome leaked: %q", out)
	}
}

func TestCleanText(t *testing.T) {
	in := "a    b\t\tc\n\n\n\n\nd  "
	want := "a b c\n\nd"
	if got := CleanText(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSnippetText(t *testing.T) {
	if got := SnippetText("line one\nline   two"); got != "line one line two" {
		t.Fatalf("got %q", got)
	}
}
