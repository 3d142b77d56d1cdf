// CLAUDE:SUMMARY Extraction orchestrator: classify, decode, select, convert — routes fetched bytes to readable text.
// Package docpipe turns raw fetched bytes into readable text or Markdown.
//
// The pipeline sequences the leaf stages: the guard classifier decides
// text vs binary (with a PDF fast path), textcodec produces a clean
// UTF-8 decode, extract locates the main content region of HTML, and
// markdown converts the chosen fragment. Every stage failure surfaces as
// a structured *Error the tool layer can branch on.
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	content, err := pipe.Extract(ctx, docpipe.Request{URL: u, Data: body, ContentType: ct, WantMainContent: true})
package docpipe

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hazyhaar/getweb/extract"
	"github.com/hazyhaar/getweb/guard"
	"github.com/hazyhaar/getweb/markdown"
	"github.com/hazyhaar/getweb/pdftext"
	"github.com/hazyhaar/getweb/textcodec"
)

// Pipeline is the extraction engine. Stateless across calls; safe for
// concurrent use.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Request carries one extraction call. URL is for diagnostics only; the
// pipeline never fetches.
type Request struct {
	URL             string
	Data            []byte
	ContentType     string
	WantMainContent bool
}

// Extract runs the pipeline over fetched bytes.
func (p *Pipeline) Extract(ctx context.Context, req Request) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head := req.Data
	if len(head) > guard.SniffLen {
		head = head[:guard.SniffLen]
	}

	// PDF fast path, before the generic binary verdict would refuse it.
	if guard.IsPDF(req.ContentType, head) {
		return p.extractPDF(req)
	}

	if v := guard.Classify(req.ContentType, head); v.Binary {
		mime := v.ContentType
		if mime == "" {
			mime = "unknown"
		}
		p.logger.Warn("refusing binary content", "url", req.URL, "mime", mime, "bytes", len(req.Data))
		return nil, &Error{
			Code:    guard.CodeUnsupportedBinary,
			Message: "The URL returned binary content that cannot be rendered as text",
			Details: map[string]any{"url": req.URL, "mime": mime, "bytes": len(req.Data)},
		}
	}

	text, err := textcodec.Decode(req.Data, req.ContentType)
	if err != nil {
		label := "unknown"
		var derr *textcodec.DecodeError
		if errors.As(err, &derr) {
			label = derr.Label
		}
		p.logger.Warn("charset decode failed", "url", req.URL, "label", label, "error", err)
		return nil, &Error{
			Code:    guard.CodeDecode,
			Message: "The content could not be decoded to text without corruption",
			Details: map[string]any{"url": req.URL, "charset": label},
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	primary := guard.PrimaryMIME(req.ContentType)
	if primary != "text/html" && primary != "application/xhtml+xml" {
		return &Content{
			Text:        text,
			ContentType: req.ContentType,
			Kind:        KindPlainText,
		}, nil
	}

	return p.convertHTML(req, text)
}

// convertHTML runs main-content selection and the Markdown transducer.
// A main fragment converts alone; a body-only match or no match converts
// the entire document. The body fallback deliberately discards the body
// fragment: a bare <body> match carries no confidence, so the pipeline
// does not pretend it found one.
func (p *Pipeline) convertHTML(req Request, text string) (*Content, error) {
	if req.WantMainContent {
		frag, err := extract.Select(text)
		if err != nil {
			return nil, p.conversionError(req, err)
		}
		if frag != nil && frag.Kind == extract.FragmentMain {
			md, err := markdown.Convert(frag.HTML)
			if err != nil {
				return nil, p.conversionError(req, err)
			}
			p.logger.Debug("main fragment extracted", "url", req.URL, "chars", len(md))
			return &Content{
				Text:             md,
				ContentType:      req.ContentType,
				Kind:             KindHTMLMain,
				MainFragmentUsed: true,
			}, nil
		}
	}

	md, err := markdown.Convert(text)
	if err != nil {
		return nil, p.conversionError(req, err)
	}
	return &Content{
		Text:        md,
		ContentType: req.ContentType,
		Kind:        KindHTMLFull,
	}, nil
}

func (p *Pipeline) conversionError(req Request, err error) *Error {
	p.logger.Warn("html conversion failed", "url", req.URL, "error", err)
	return &Error{
		Code:    guard.CodeHTMLConversion,
		Message: "The HTML content could not be converted to text",
		Details: map[string]any{"url": req.URL},
	}
}

func (p *Pipeline) extractPDF(req Request) (*Content, error) {
	text, err := pdftext.Extract(req.Data)
	if err != nil {
		switch {
		case errors.Is(err, pdftext.ErrTooLarge):
			return nil, &Error{
				Code:    guard.CodePDFTooLarge,
				Message: "The PDF document exceeds the size limit",
				Details: map[string]any{"url": req.URL, "bytes": len(req.Data), "max_bytes": pdftext.MaxBytes},
			}
		case errors.Is(err, pdftext.ErrEncrypted):
			return nil, &Error{
				Code:    guard.CodePDFEncrypted,
				Message: "The PDF document is encrypted or password-protected",
				Details: map[string]any{"url": req.URL},
			}
		default:
			p.logger.Warn("pdf parse failed", "url", req.URL, "error", err)
			return nil, &Error{
				Code:    guard.CodePDFParse,
				Message: "The PDF document could not be parsed",
				Details: map[string]any{"url": req.URL},
			}
		}
	}

	if q := pdftext.Assess(text); q.Suspect() {
		p.logger.Warn("pdf text layer looks suspect",
			"url", req.URL, "printable_ratio", q.PrintableRatio, "wordlike_ratio", q.WordlikeRatio)
	}

	return &Content{
		Text:             text,
		ContentType:      "application/pdf",
		Kind:             KindPDF,
		MainFragmentUsed: false,
	}, nil
}
