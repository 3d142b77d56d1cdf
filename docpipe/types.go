// CLAUDE:SUMMARY Defines Kind, Content and the structured Error for the docpipe extraction pipeline.
package docpipe

import "github.com/hazyhaar/getweb/guard"

// Kind identifies what extraction path produced a Content.
type Kind string

const (
	// KindHTMLMain: HTML input, curated/heuristic main fragment converted.
	KindHTMLMain Kind = "html_main"
	// KindHTMLFull: HTML input, whole document converted.
	KindHTMLFull Kind = "html_full"
	// KindPDF: PDF input, text layer extracted.
	KindPDF Kind = "pdf"
	// KindPlainText: non-HTML text returned verbatim after decoding.
	KindPlainText Kind = "plain_text"
)

// Content is the result of one extraction call. Immutable once returned.
type Content struct {
	Text             string `json:"text"`
	ContentType      string `json:"content_type,omitempty"`
	Kind             Kind   `json:"kind"`
	MainFragmentUsed bool   `json:"main_fragment_used"`
}

// Error is a structured pipeline failure. The tool layer branches on Code
// without parsing messages; Error() renders the standardized payload
// (message line plus JSON line) so the code survives string transport.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return guard.ErrorPayload(e.Code, e.Message, e.Details)
}
