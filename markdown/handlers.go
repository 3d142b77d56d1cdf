// CLAUDE:SUMMARY Built-in tag handlers: chrome removal, block structure, styled text, links, images, code.
package markdown

import "strings"

// StartOutcome is a handler's verdict on element entry.
type StartOutcome int

const (
	// Continue descends into the element's children.
	Continue StartOutcome = iota
	// SkipSubtree drops the element entirely: no children, no end call.
	SkipSubtree
)

// TextOutcome reports whether a handler claimed a text node.
type TextOutcome int

const (
	// TextNoOp leaves the text for later handlers or the default path.
	TextNoOp TextOutcome = iota
	// TextHandled stops dispatch; the handler wrote what it wanted.
	TextHandled
)

// TagHandler reacts to element boundaries and text during the walk.
// Handlers run in registration order on entry AND on exit; exit order is
// not reversed, so handlers must not depend on each other's side effects.
type TagHandler interface {
	ShouldHandle(tag string) bool
	OnStart(el Element, w *Writer) StartOutcome
	OnEnd(el Element, w *Writer)
	OnText(text string, w *Writer) TextOutcome
}

// noText is embedded by handlers that never claim text nodes.
type noText struct{}

func (noText) OnText(string, *Writer) TextOutcome { return TextNoOp }

// noEnd is embedded by handlers with no exit behavior.
type noEnd struct{}

func (noEnd) OnEnd(Element, *Writer) {}

// DefaultHandlers returns a fresh handler list in registration order.
// Fresh because the table handler carries per-conversion state.
func DefaultHandlers() []TagHandler {
	return []TagHandler{
		&chromeRemover{},
		&paragraphHandler{},
		&headingHandler{},
		&listHandler{},
		&tableHandler{},
		&styledTextHandler{},
		&linkHandler{},
		&imageHandler{},
		&codeHandler{},
	}
}

// --- chrome remover ---

var chromeTags = map[string]bool{
	"head": true, "script": true, "style": true,
	"nav": true, "footer": true, "aside": true,
}

var chromeClassTokens = map[string]bool{
	"ad": true, "ads": true, "advertisement": true, "banner": true,
	"popup": true, "modal": true, "cookie": true, "newsletter": true,
	"sidebar": true, "widget": true, "promo": true, "sponsored": true,
	"affiliate": true, "tracking": true,
}

var chromeClassSubstrings = []string{"ad", "banner", "popup", "promo"}

var chromeIDSubstrings = []string{"ad", "banner", "popup", "cookie", "newsletter", "sidebar"}

// chromeRemover drops navigation, scripts and ad/tracking chrome so the
// transducer only ever sees substantive markup.
type chromeRemover struct {
	noEnd
	noText
}

func (*chromeRemover) ShouldHandle(string) bool { return true }

func (*chromeRemover) OnStart(el Element, _ *Writer) StartOutcome {
	if chromeTags[el.Tag] {
		return SkipSubtree
	}
	if class, ok := el.Attr("class"); ok {
		for _, token := range strings.Fields(strings.ToLower(class)) {
			if chromeClassTokens[token] {
				return SkipSubtree
			}
			for _, sub := range chromeClassSubstrings {
				if strings.Contains(token, sub) {
					return SkipSubtree
				}
			}
		}
	}
	if id, ok := el.Attr("id"); ok {
		lower := strings.ToLower(id)
		for _, sub := range chromeIDSubstrings {
			if strings.Contains(lower, sub) {
				return SkipSubtree
			}
		}
	}
	return Continue
}

// --- paragraph ---

type paragraphHandler struct {
	noEnd
	noText
}

func (*paragraphHandler) ShouldHandle(string) bool { return true }

func (*paragraphHandler) OnStart(el Element, w *Writer) StartOutcome {
	// Inline content inside a paragraph needs a separating space when the
	// buffer ends mid-word. Inline parents already sit mid-run; only a
	// block parent warrants the separator.
	if el.IsInline() && w.IsInside("p") {
		if parent, ok := w.Parent(); ok && !parent.IsInline() {
			if s := w.String(); s != "" && !endsWithWhitespace(s) {
				w.WriteString(" ")
			}
		}
	}
	if el.Tag == "p" {
		w.BlankLine()
	}
	return Continue
}

// --- headings ---

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

type headingHandler struct {
	noText
}

func (*headingHandler) ShouldHandle(tag string) bool {
	_, ok := headingLevels[tag]
	return ok
}

func (*headingHandler) OnStart(el Element, w *Writer) StartOutcome {
	w.WriteString("\n\n" + strings.Repeat("#", headingLevels[el.Tag]) + " ")
	return Continue
}

func (*headingHandler) OnEnd(_ Element, w *Writer) { w.BlankLine() }

// --- lists ---

type listHandler struct {
	noText
}

func (*listHandler) ShouldHandle(tag string) bool {
	return tag == "ul" || tag == "ol" || tag == "li"
}

func (*listHandler) OnStart(el Element, w *Writer) StartOutcome {
	switch el.Tag {
	case "ul", "ol":
		w.Newline()
	case "li":
		w.WriteString("- ")
	}
	return Continue
}

func (*listHandler) OnEnd(el Element, w *Writer) {
	w.Newline()
}

// --- tables ---

// tableHandler tracks the column count of the current table so the
// separator row under the header has the right width. The counter is
// advanced on <th> only and reset when the table closes.
type tableHandler struct {
	noText
	columns   int
	firstCell bool
}

func (*tableHandler) ShouldHandle(tag string) bool {
	switch tag {
	case "table", "thead", "tbody", "tr", "th", "td":
		return true
	}
	return false
}

func (h *tableHandler) OnStart(el Element, w *Writer) StartOutcome {
	switch el.Tag {
	case "thead":
		// Separates the table from whatever precedes it on the line.
		w.BlankLine()
	case "tr":
		w.Newline()
		h.firstCell = true
	case "th":
		h.columns++
		h.cell(w)
	case "td":
		h.cell(w)
	}
	return Continue
}

func (h *tableHandler) cell(w *Writer) {
	if h.firstCell {
		h.firstCell = false
	} else {
		w.WriteString(" ")
	}
	w.WriteString("| ")
}

func (h *tableHandler) OnEnd(el Element, w *Writer) {
	switch el.Tag {
	case "thead":
		w.Newline()
		for i := 0; i < h.columns; i++ {
			if i > 0 {
				w.WriteString(" ")
			}
			w.WriteString("| ---")
		}
		w.WriteString(" |")
	case "tr":
		w.WriteString(" |")
	case "table":
		h.columns = 0
		w.BlankLine()
	}
}

// --- styled text ---

type styledTextHandler struct {
	noText
}

func (*styledTextHandler) ShouldHandle(tag string) bool {
	return tag == "strong" || tag == "em"
}

func (*styledTextHandler) OnStart(el Element, w *Writer) StartOutcome {
	w.WriteString(styleMarker(el.Tag))
	return Continue
}

func (*styledTextHandler) OnEnd(el Element, w *Writer) {
	w.WriteString(styleMarker(el.Tag))
}

func styleMarker(tag string) string {
	if tag == "strong" {
		return "**"
	}
	return "_"
}

// --- links ---

type linkHandler struct {
	noText
}

func (*linkHandler) ShouldHandle(tag string) bool { return tag == "a" }

func (*linkHandler) OnStart(el Element, w *Writer) StartOutcome {
	if _, ok := el.Attr("href"); ok {
		w.WriteString("[")
	}
	return Continue
}

func (*linkHandler) OnEnd(el Element, w *Writer) {
	if href, ok := el.Attr("href"); ok {
		w.WriteString("](" + href + ")")
	}
}

// --- images ---

type imageHandler struct {
	noEnd
	noText
}

func (*imageHandler) ShouldHandle(tag string) bool { return tag == "img" }

func (*imageHandler) OnStart(el Element, w *Writer) StartOutcome {
	if src, ok := el.Attr("src"); ok {
		alt, _ := el.Attr("alt")
		if alt == "" {
			alt = "image"
		}
		w.WriteString("![" + alt + "](" + src + ")")
	}
	return SkipSubtree
}

// --- code ---

type codeHandler struct{}

func (*codeHandler) ShouldHandle(tag string) bool {
	return tag == "code" || tag == "pre"
}

func (*codeHandler) OnStart(el Element, w *Writer) StartOutcome {
	switch el.Tag {
	case "code":
		if !w.IsInside("pre") {
			w.WriteString("`")
		}
	case "pre":
		w.WriteString("\n\n```\n")
	}
	return Continue
}

func (*codeHandler) OnEnd(el Element, w *Writer) {
	switch el.Tag {
	case "code":
		if !w.IsInside("pre") {
			w.WriteString("`")
		}
	case "pre":
		w.WriteString("\n```\n")
	}
}

// OnText claims text inside <pre> and emits it verbatim, bypassing the
// default whitespace collapsing.
func (*codeHandler) OnText(text string, w *Writer) TextOutcome {
	if !w.IsInside("pre") {
		return TextNoOp
	}
	w.WriteString(text)
	return TextHandled
}
