// CLAUDE:SUMMARY HTML→Markdown transducer: explicit-stack DOM walk with ordered tag handlers plus a prettify pass.
// Package markdown converts parsed HTML into readable Markdown.
//
// The conversion is a depth-first walk over the parsed tree. An ordered
// handler list reacts to element starts, element ends and text nodes;
// handlers run in registration order on entry and on exit. The walk uses
// an explicit frame stack rather than recursion so adversarially deep
// documents cannot exhaust the call stack.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Convert renders HTML source as Markdown. Lenient parsing tolerates
// malformed input; a parse-level structural error is the only failure.
// html.Parse bounds nesting at 512 open elements, so deeper documents
// fail the parse before the walk ever sees them.
func Convert(htmlSource string) (string, error) {
	root, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	w := NewWriter()
	walk(root, w, DefaultHandlers())
	return Prettify(w.String()), nil
}

// frame is one unit of pending traversal work. Exit frames run end
// handlers after a subtree completes.
type frame struct {
	node *html.Node
	exit bool
	el   Element
}

func walk(root *html.Node, w *Writer, handlers []TagHandler) {
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exit {
			w.pop()
			for _, h := range handlers {
				if h.ShouldHandle(f.el.Tag) {
					h.OnEnd(f.el, w)
				}
			}
			continue
		}

		switch f.node.Type {
		case html.TextNode:
			emitText(f.node.Data, w, handlers)

		case html.ElementNode:
			el := elementFrom(f.node)
			if startElement(el, w, handlers) == SkipSubtree {
				continue
			}
			w.push(el)
			stack = append(stack, frame{node: f.node, exit: true, el: el})
			stack = appendChildren(stack, f.node)

		case html.DocumentNode:
			stack = appendChildren(stack, f.node)
		}
		// Doctype and comment nodes produce no output.
	}
}

// appendChildren pushes children in reverse so the leftmost is visited
// first off the stack.
func appendChildren(stack []frame, n *html.Node) []frame {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: children[i]})
	}
	return stack
}

func startElement(el Element, w *Writer, handlers []TagHandler) StartOutcome {
	for _, h := range handlers {
		if !h.ShouldHandle(el.Tag) {
			continue
		}
		if h.OnStart(el, w) == SkipSubtree {
			return SkipSubtree
		}
	}
	return Continue
}

func emitText(text string, w *Writer, handlers []TagHandler) {
	for _, h := range handlers {
		if h.OnText(text, w) == TextHandled {
			return
		}
	}
	// Default path: strip structural whitespace at the edges, flatten
	// internal line breaks into spaces.
	trimmed := strings.Trim(text, "\n\r\t")
	if trimmed == "" {
		return
	}
	w.WriteString(strings.ReplaceAll(trimmed, "\n", " "))
}

var (
	blankLineRe  = regexp.MustCompile(`(?m)^[ \t]+$`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// Prettify normalizes converted output: whitespace-only lines become
// empty, runs of three or more newlines collapse to exactly two, and the
// result is trimmed. Idempotent.
func Prettify(s string) string {
	s = blankLineRe.ReplaceAllString(s, "")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
