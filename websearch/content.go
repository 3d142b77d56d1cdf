// CLAUDE:SUMMARY Markdown rendering and option-driven HTML preprocessing shared by the fetch-url tool.
package websearch

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/hazyhaar/getweb/extract"
	"github.com/microcosm-cc/bluemonday"
)

var (
	spaceRe     = regexp.MustCompile(`[ \t]+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// Renderer converts fetched HTML into markdown text honoring the
// per-request extraction options. One renderer is shared by all tools;
// the converter and sanitizer are safe for concurrent use.
type Renderer struct {
	conv  *md.Converter
	strip *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		conv: md.NewConverter(
			md.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		strip: bluemonday.StrictPolicy(),
	}
}

// Render produces markdown for an HTML document. Options are applied by
// rewriting the DOM before conversion. When markdown conversion fails
// the sanitized plain text is returned instead, never an error page.
func (r *Renderer) Render(htmlSource, sourceURL string, opts ContentExtractionOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSource))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	exclude := opts.ExcludeTags
	if exclude == nil {
		exclude = DefaultExcludeTags()
	}
	for _, tag := range exclude {
		doc.Find(tag).Remove()
	}

	if !opts.IncludeImages {
		doc.Find("img, picture, figure").Remove()
	}
	if !opts.IncludeLinks {
		// Keep link text, drop the anchor itself.
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithHtml(s.Text())
		})
	}

	rendered, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}

	if opts.ExtractMainContent {
		// Selection failure falls back to the whole document.
		if frag, err := extract.Select(rendered); err == nil && frag != nil && frag.Kind == extract.FragmentMain {
			rendered = frag.HTML
		}
	}

	return r.toMarkdown(rendered, sourceURL), nil
}

func (r *Renderer) toMarkdown(htmlSource, sourceURL string) string {
	out, err := r.conv.ConvertString(htmlSource, md.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(out) == "" {
		return CleanText(r.strip.Sanitize(htmlSource))
	}
	return CleanText(out)
}

// CleanText collapses runs of spaces and excess blank lines. Applied to
// every rendered document and to snippets scraped out of result pages.
func CleanText(s string) string {
	s = spaceRe.ReplaceAllString(s, " ")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SnippetText flattens a scraped snippet to a single line.
func SnippetText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return CleanText(s)
}
