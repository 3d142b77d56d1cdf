// CLAUDE:SUMMARY Binary/text content classifier — MIME tables plus magic-byte sniffing before any decode.
// Package guard decides whether fetched bytes are safe to treat as text.
//
// The classifier trusts headers that affirmatively claim text, trusts
// headers that claim binary, and falls back to signature sniffing when
// the header is absent or unknown. A lying "text" header can still be
// caught by the sniffer; a lying "binary" header is accepted, because a
// false binary verdict costs a refusal while a false text verdict risks
// decoding garbage.
package guard

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Verdict is the classification outcome for one fetch.
type Verdict struct {
	Binary bool
	// ContentType is the best-known MIME for binary verdicts. Empty when
	// the verdict came from signature sniffing alone.
	ContentType string
}

// Text is the verdict for safely decodable content.
var Text = Verdict{}

// SniffLen is how many leading bytes Classify inspects.
const SniffLen = 512

// textualTypes are non-text/ MIME types still treated as text.
var textualTypes = map[string]bool{
	"application/json":                  true,
	"application/xml":                   true,
	"application/javascript":            true,
	"application/xhtml+xml":             true,
	"application/x-www-form-urlencoded": true,
}

// binaryTypes are exact MIME types always treated as binary.
var binaryTypes = map[string]bool{
	"application/pdf":          true,
	"application/zip":          true,
	"application/gzip":         true,
	"application/octet-stream": true,
}

// PrimaryMIME strips parameters from a Content-Type header value and
// lowercases the media type token.
func PrimaryMIME(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

// Classify decides whether content is text or binary from the declared
// Content-Type and up to SniffLen leading bytes. Pure function; verdicts
// are never cached.
func Classify(contentType string, head []byte) Verdict {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}

	if contentType != "" {
		mime := PrimaryMIME(contentType)
		switch {
		case strings.HasPrefix(mime, "text/") || textualTypes[mime]:
			return Text
		case strings.HasPrefix(mime, "image/"),
			strings.HasPrefix(mime, "audio/"),
			strings.HasPrefix(mime, "video/"),
			strings.HasPrefix(mime, "font/"),
			binaryTypes[mime],
			strings.HasPrefix(mime, "application/x-"),
			strings.HasPrefix(mime, "application/vnd."):
			return Verdict{Binary: true, ContentType: mime}
		}
		// Unknown type: fall through to sniffing.
	}

	if sniffBinary(head) {
		return Verdict{Binary: true}
	}
	return Text
}

var magicPrefixes = [][]byte{
	[]byte("%PDF-"),
	{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, // PNG
	{0xFF, 0xD8, 0xFF},                                // JPEG
	[]byte("GIF8"),
	{0x50, 0x4B, 0x03, 0x04}, // ZIP
	{0x1F, 0x8B},             // GZIP
	[]byte("Rar!"),
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, // 7-Zip
}

func sniffBinary(head []byte) bool {
	for _, sig := range magicPrefixes {
		if bytes.HasPrefix(head, sig) {
			return true
		}
	}
	// WEBP lives inside a RIFF container with the marker at offset 8.
	if len(head) >= 12 && bytes.HasPrefix(head, []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")) {
		return true
	}
	// MP4 family: the ftyp box can sit behind a variable-length size field.
	limit := len(head)
	if limit > 64 {
		limit = 64
	}
	return bytes.Contains(head[:limit], []byte("ftyp"))
}

// IsPDF is the PDF fast-path check, consulted before the generic binary
// verdict so PDFs route to the extractor rather than being refused.
func IsPDF(contentType string, head []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(head, []byte("%PDF-"))
}

// SafeTruncate cuts s to at most max bytes on a rune boundary and
// appends suffix when truncation happened.
func SafeTruncate(s string, max int, suffix string) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
