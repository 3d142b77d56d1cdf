// CLAUDE:SUMMARY Extraction quality scoring — flags PDFs whose text layer is garbage or missing.
package pdftext

import (
	"strings"
	"unicode"
)

// Quality captures metrics about extracted PDF text.
type Quality struct {
	Chars          int     `json:"chars"`
	PrintableRatio float64 `json:"printable_ratio"`
	WordlikeRatio  float64 `json:"wordlike_ratio"`
}

// Assess scores extracted text.
func Assess(text string) Quality {
	return Quality{
		Chars:          len([]rune(text)),
		PrintableRatio: printableRatio(text),
		WordlikeRatio:  wordlikeRatio(text),
	}
}

// Suspect returns true when the text layer looks like an artifact of a
// scanned or font-mangled document rather than real text.
func (q Quality) Suspect() bool {
	return q.PrintableRatio < 0.85 || (q.Chars > 0 && q.WordlikeRatio < 0.3)
}

// printableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	// Replacement character
	if r == 0xFFFD {
		return true
	}
	// Control chars except whitespace
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the ratio of word-like tokens (length 2-15) to
// total tokens.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}
