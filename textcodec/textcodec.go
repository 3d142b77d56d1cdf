// CLAUDE:SUMMARY Three-stage charset decoding (BOM, declared label, statistical) with a hard no-replacement-character rule.
// Package textcodec converts fetched bytes into clean UTF-8 text.
//
// Decoding tries, in order: BOM sniffing, the charset= parameter of the
// Content-Type header, then statistical detection over the whole buffer.
// Every stage must produce a decode with zero replacement characters;
// a dirty decode is a hard failure, never a lossy success. Corrupted
// text is worse than an error for downstream consumers.
package textcodec

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DecodeError reports a failed or dirty decode and the last label tried.
type DecodeError struct {
	Label string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode as %s: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("decode as %s: output contains replacement characters", e.Label)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Decode converts data to a UTF-8 string using BOM sniffing, the declared
// Content-Type charset, then statistical detection. A confirmed BOM or a
// declared charset that fails to decode cleanly is terminal; the fallback
// chain only advances when the prior stage was inapplicable.
func Decode(data []byte, declaredContentType string) (string, error) {
	// Stage 1: BOM. A BOM is an explicit assertion; no second-guessing.
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		rest := data[len(bomUTF8):]
		if !utf8.Valid(rest) {
			return "", &DecodeError{Label: "utf-8"}
		}
		return string(rest), nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf-16be", data[2:])
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf-16le", data[2:])
	}

	// Stage 2: declared charset. The server asserted an encoding; a dirty
	// decode under it is a hard failure, not a fallthrough.
	if label := CharsetLabel(declaredContentType); label != "" {
		if enc := lookupEncoding(label); enc != nil {
			return decodeWith(enc, label, data)
		}
	}

	// Stage 3: statistical detection over the full buffer.
	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", &DecodeError{Label: "auto", Err: err}
	}
	label := strings.ToLower(best.Charset)
	enc := lookupEncoding(label)
	if enc == nil {
		return "", &DecodeError{Label: label, Err: fmt.Errorf("no decoder for detected charset")}
	}
	return decodeWith(enc, label, data)
}

// CharsetLabel extracts the charset= parameter from a Content-Type header
// value. Case-insensitive, quotes stripped; "" when absent.
func CharsetLabel(contentType string) string {
	parts := strings.Split(contentType, ";")
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if len(part) < 8 || !strings.EqualFold(part[:8], "charset=") {
			continue
		}
		label := strings.TrimSpace(part[8:])
		label = strings.Trim(label, `"'`)
		if label != "" {
			return strings.ToLower(label)
		}
	}
	return ""
}

// lookupEncoding resolves a charset label against the WHATWG table first,
// then the IANA registry (chardet reports IANA-style names like GB-18030
// that the HTML index does not know).
func lookupEncoding(label string) encoding.Encoding {
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}
	return nil
}

func decodeWith(enc encoding.Encoding, label string, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodeError{Label: label, Err: err}
	}
	s := string(out)
	// x/text decoders substitute U+FFFD instead of erroring; scanning the
	// output is what enforces the clean-decode rule.
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", &DecodeError{Label: label}
	}
	return s, nil
}
