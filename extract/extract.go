// CLAUDE:SUMMARY Main-content selection over a parsed HTML document: curated selectors, class/id heuristic, body fallback.
// Package extract locates the substantive content region of an HTML page.
//
// Selection runs three stages: a curated selector list (cheap, usually
// right), a class/id heuristic for sites with unusual markup, then a
// <body> fallback. The result is a serialized fragment with provenance:
// a main match is high confidence, a body match is not.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// FragmentKind tags how a fragment was found.
type FragmentKind string

const (
	// FragmentMain means a curated selector or heuristic candidate matched.
	FragmentMain FragmentKind = "main"
	// FragmentBody means selection fell back to <body>; low confidence.
	FragmentBody FragmentKind = "body"
)

// Fragment is a selected region of the document, serialized with its own
// enclosing tag.
type Fragment struct {
	HTML string
	Kind FragmentKind
}

// MinMainTextChars is the smallest trimmed text length a heuristic
// candidate may have. Shorter elements are not "main content" no matter
// how promising their class names look.
const MinMainTextChars = 180

var (
	positiveClassRe = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story|paragraph`)
	negativeClassRe = regexp.MustCompile(`(?i)hidden|^hid$| hid$| hid |^hid |banner|breadcrumb|combx|comment|com-|contact|foot|footer|footnote|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget|subscribe|nav|author|byline`)
)

// Select finds the main content region of an HTML document. It returns
// nil for empty or whitespace-only input and when not even <body> holds
// text; the caller then treats the whole document as the fragment.
func Select(html string) (*Fragment, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	// Stage 1: curated selectors, fixed priority order. Every element
	// matching a selector is considered, not just the first: pages often
	// carry an empty decoy (a hidden <article>, a template <main>) ahead
	// of the real one, and an empty match must not mask a textful sibling.
	for _, sel := range mainSelectors {
		var found *goquery.Selection
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) == "" {
				return true
			}
			found = s
			return false
		})
		if found != nil {
			src, err := goquery.OuterHtml(found)
			if err != nil {
				return nil, fmt.Errorf("serialize fragment: %w", err)
			}
			return &Fragment{HTML: src, Kind: FragmentMain}, nil
		}
	}

	// Stage 2: heuristic scoring over class/id attributes.
	if frag, err := selectHeuristic(doc); err != nil || frag != nil {
		return frag, err
	}

	// Stage 3: body fallback.
	body := doc.Find("body").First()
	if body.Length() > 0 && strings.TrimSpace(body.Text()) != "" {
		src, err := goquery.OuterHtml(body)
		if err != nil {
			return nil, fmt.Errorf("serialize body: %w", err)
		}
		return &Fragment{HTML: src, Kind: FragmentBody}, nil
	}

	return nil, nil
}

// selectHeuristic scans every element carrying a class or id, scores the
// positively-matching ones by trimmed text length, and keeps the single
// largest qualifying candidate. Ties keep the first encountered.
func selectHeuristic(doc *goquery.Document) (*Fragment, error) {
	var best *goquery.Selection
	bestLen := 0

	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		combined := class + " " + id

		if negativeClassRe.MatchString(combined) && !positiveClassRe.MatchString(combined) {
			return
		}
		if !positiveClassRe.MatchString(combined) {
			return
		}

		n := utf8.RuneCountInString(strings.TrimSpace(s.Text()))
		if n < MinMainTextChars {
			return
		}
		if n > bestLen {
			best = s
			bestLen = n
		}
	})

	if best == nil {
		return nil, nil
	}
	src, err := goquery.OuterHtml(best)
	if err != nil {
		return nil, fmt.Errorf("serialize candidate: %w", err)
	}
	return &Fragment{HTML: src, Kind: FragmentMain}, nil
}
