// CLAUDE:SUMMARY Single-owner walk context for the transducer: output buffer plus ancestor stack.
package markdown

import "strings"

// Writer is the shared walk context handed to every handler call. It owns
// the output buffer and the ancestor element stack. Handlers must not
// retain it beyond the call.
type Writer struct {
	stack []Element
	buf   strings.Builder
}

// NewWriter returns an empty walk context.
func NewWriter() *Writer { return &Writer{} }

// String returns the accumulated output.
func (w *Writer) String() string { return w.buf.String() }

// WriteString appends s to the output.
func (w *Writer) WriteString(s string) { w.buf.WriteString(s) }

// Newline appends a line break.
func (w *Writer) Newline() { w.buf.WriteByte('\n') }

// BlankLine appends an empty line. Excess runs are collapsed by the
// prettify pass, so callers need not check what precedes.
func (w *Writer) BlankLine() { w.buf.WriteString("\n\n") }

// Parent returns the innermost open element. During OnStart the element
// being started is not yet on the stack, so this is its parent.
func (w *Writer) Parent() (Element, bool) {
	if len(w.stack) == 0 {
		return Element{}, false
	}
	return w.stack[len(w.stack)-1], true
}

// IsInside reports whether any ancestor of the current position has the
// given tag name.
func (w *Writer) IsInside(tag string) bool {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].Tag == tag {
			return true
		}
	}
	return false
}

func (w *Writer) push(el Element) { w.stack = append(w.stack, el) }

func (w *Writer) pop() {
	if len(w.stack) > 0 {
		w.stack = w.stack[:len(w.stack)-1]
	}
}

func endsWithWhitespace(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
