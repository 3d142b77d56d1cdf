package markdown

import (
	"strings"
	"testing"
)

func convert(t *testing.T, src string) string {
	t.Helper()
	out, err := Convert(src)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return out
}

func TestConvert_ChromeRemoval(t *testing.T) {
	// WHAT: script content never reaches the output.
	// WHY: the transducer feeds model context; leaking JS is both noise
	// and a prompt-injection surface.
	out := convert(t, `<html><body><script>evil()</script><p>Hello</p></body></html>`)
	if !strings.Contains(out, "Hello") {
		t.Fatalf("content lost: %q", out)
	}
	if strings.Contains(out, "evil") {
		t.Fatalf("script content leaked: %q", out)
	}
}

func TestConvert_ChromeClassAndID(t *testing.T) {
	src := `<body>
		<div class="newsletter">subscribe now</div>
		<div class="promo-box">buy things</div>
		<div id="cookie-consent">accept cookies</div>
		<nav>site nav</nav>
		<p>the article text</p>
	</body>`
	out := convert(t, src)
	for _, banned := range []string{"subscribe now", "buy things", "accept cookies", "site nav"} {
		if strings.Contains(out, banned) {
			t.Errorf("chrome leaked: %q", banned)
		}
	}
	if !strings.Contains(out, "the article text") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestConvert_Headings(t *testing.T) {
	out := convert(t, `<h1>Title</h1><h3>Sub</h3><p>body</p>`)
	if !strings.Contains(out, "# Title") {
		t.Errorf("h1: %q", out)
	}
	if !strings.Contains(out, "### Sub") {
		t.Errorf("h3: %q", out)
	}
}

func TestConvert_List(t *testing.T) {
	out := convert(t, `<ul><li>one</li><li>two</li></ul>`)
	if !strings.Contains(out, "- one") || !strings.Contains(out, "- two") {
		t.Fatalf("list items: %q", out)
	}
	lines := strings.Split(out, "\n")
	var items []string
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "- ") {
			items = append(items, strings.TrimSpace(l))
		}
	}
	if len(items) != 2 {
		t.Fatalf("expected one item per line: %q", out)
	}
}

func TestConvert_TableShape(t *testing.T) {
	src := `<table><thead><tr><th>A</th><th>B</th></tr></thead>` +
		`<tbody><tr><td>1</td><td>2</td></tr></tbody></table>`
	out := convert(t, src)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("table too short: %q", out)
	}
	if lines[0] != "| A | B |" {
		t.Errorf("header row: %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("separator row: %q", lines[1])
	}
	if lines[2] != "| 1 | 2 |" {
		t.Errorf("data row: %q", lines[2])
	}
}

func TestConvert_StyledText(t *testing.T) {
	out := convert(t, `<p><strong>bold</strong> and <em>italic</em></p>`)
	if !strings.Contains(out, "**bold**") {
		t.Errorf("strong: %q", out)
	}
	if !strings.Contains(out, "_italic_") {
		t.Errorf("em: %q", out)
	}
}

func TestConvert_Links(t *testing.T) {
	out := convert(t, `<p>see <a href="https://example.com/a">the docs</a></p>`)
	if !strings.Contains(out, "[the docs](https://example.com/a)") {
		t.Fatalf("link: %q", out)
	}
	// Anchors without href emit no brackets.
	out = convert(t, `<p><a name="x">plain anchor</a></p>`)
	if strings.Contains(out, "[") {
		t.Fatalf("href-less anchor bracketed: %q", out)
	}
}

func TestConvert_Images(t *testing.T) {
	out := convert(t, `<p><img src="cat.png" alt="a cat"></p>`)
	if !strings.Contains(out, "![a cat](cat.png)") {
		t.Fatalf("image: %q", out)
	}
	out = convert(t, `<p><img src="dog.png"></p>`)
	if !strings.Contains(out, "![image](dog.png)") {
		t.Fatalf("alt fallback: %q", out)
	}
}

func TestConvert_InlineCode(t *testing.T) {
	out := convert(t, `<p>run <code>go test</code> locally</p>`)
	if !strings.Contains(out, "`go test`") {
		t.Fatalf("inline code: %q", out)
	}
}

func TestConvert_PreVerbatim(t *testing.T) {
	src := "<p>one\ntwo</p><pre><code>line1\nline2</code></pre>"
	out := convert(t, src)
	// Outside <pre>, internal newlines collapse to spaces.
	if !strings.Contains(out, "one two") {
		t.Errorf("prose newline not collapsed: %q", out)
	}
	// Inside <pre>, newlines survive untouched.
	if !strings.Contains(out, "line1\nline2") {
		t.Errorf("pre content modified: %q", out)
	}
	if !strings.Contains(out, "```") {
		t.Errorf("missing code fence: %q", out)
	}
	// The fenced code must not grow backticks from the inner <code>.
	if strings.Contains(out, "`line1") {
		t.Errorf("inner code backticked inside pre: %q", out)
	}
}

func TestConvert_ParagraphSpacing(t *testing.T) {
	out := convert(t, `<p>first</p><p>second</p>`)
	if !strings.Contains(out, "first\n\nsecond") {
		t.Fatalf("paragraphs not separated by blank line: %q", out)
	}
}

func TestConvert_InlineSpaceInsideParagraph(t *testing.T) {
	out := convert(t, `<p>read<a href="/x">this</a></p>`)
	if !strings.Contains(out, "read [this](/x)") {
		t.Fatalf("missing separating space: %q", out)
	}
}

func TestConvert_NestedInlineNoExtraSpace(t *testing.T) {
	// A separating space belongs only after a block parent; inline parents
	// are already mid-run.
	out := convert(t, "<p>a<em>b<code>c</code></em></p>")
	if !strings.Contains(out, "a _b`c`_") {
		t.Fatalf("nested inline spacing: %q", out)
	}
}

func TestConvert_TableSeparatedFromPrecedingText(t *testing.T) {
	src := `<p>intro</p><table><thead><tr><th>A</th></tr></thead>` +
		`<tbody><tr><td>1</td></tr></tbody></table>`
	out := convert(t, src)
	if !strings.Contains(out, "intro\n\n| A |") {
		t.Fatalf("table abuts preceding text: %q", out)
	}
}

func TestConvert_DeeplyNested(t *testing.T) {
	// WHAT: nesting near the parser's 512 open-element bound converts fine.
	// WHY: the walk uses an explicit frame stack, so depth up to the
	// parser's own limit must never threaten the goroutine stack.
	depth := 500
	src := strings.Repeat("<div>", depth) + "deep" + strings.Repeat("</div>", depth)
	out := convert(t, src)
	if !strings.Contains(out, "deep") {
		t.Fatalf("nested text lost: %q", out)
	}
}

func TestConvert_BeyondParserDepthBound(t *testing.T) {
	// html.Parse refuses documents with more than 512 open elements; the
	// failure must surface as a returned error, not a crash.
	depth := 2000
	src := strings.Repeat("<div>", depth) + "deep" + strings.Repeat("</div>", depth)
	if _, err := Convert(src); err == nil {
		t.Fatal("over-deep document accepted")
	}
}

func TestPrettify_Idempotent(t *testing.T) {
	raw := "a\n\n\n\nb\n   \nc\n\n\n\n\n\nd  "
	once := Prettify(raw)
	twice := Prettify(once)
	if once != twice {
		t.Fatalf("prettify not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	if strings.Contains(once, "\n\n\n") {
		t.Fatalf("newline run survived: %q", once)
	}
}
