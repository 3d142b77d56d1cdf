// CLAUDE:SUMMARY HTML element view for the transducer: tag, ordered attributes, inline classification.
package markdown

import "golang.org/x/net/html"

// Element is the transducer's view of one DOM element: tag name and the
// ordered, name-unique attribute list.
type Element struct {
	Tag   string
	Attrs []html.Attribute
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// IsInline reports whether the element participates in inline flow.
func (e Element) IsInline() bool { return inlineTags[e.Tag] }

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "acronym": true, "audio": true, "b": true,
	"bdi": true, "bdo": true, "big": true, "br": true, "button": true,
	"canvas": true, "cite": true, "code": true, "data": true,
	"datalist": true, "del": true, "dfn": true, "em": true, "embed": true,
	"i": true, "iframe": true, "img": true, "input": true, "ins": true,
	"kbd": true, "label": true, "map": true, "mark": true, "meter": true,
	"noscript": true, "object": true, "output": true, "picture": true,
	"progress": true, "q": true, "ruby": true, "s": true, "samp": true,
	"script": true, "select": true, "slot": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "svg": true,
	"template": true, "textarea": true, "time": true, "tt": true,
	"u": true, "var": true, "video": true, "wbr": true,
}

func elementFrom(n *html.Node) Element {
	return Element{Tag: n.Data, Attrs: n.Attr}
}
