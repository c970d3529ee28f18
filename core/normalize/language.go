// Package normalize — language sniffing for preformatted blocks.
// The sniffer inspects serialized markup around a <pre> node and guesses the
// fence language tag. Matchers run in priority order; the first hit wins.
package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	classLangRegex  = regexp.MustCompile(`(?:highlight-source-|language-|lang-)([a-z]+)`)
	dataChLangRegex = regexp.MustCompile(`data-ch-lang="([^"]+)"`)
	langAttrRegex   = regexp.MustCompile(`lang="([^"]+)"`)
)

// langMatcher pairs a markup view of the node with the pattern applied to it.
type langMatcher struct {
	name    string
	markup  func(n *html.Node) string
	pattern *regexp.Regexp
}

// langMatchers is evaluated in order. Explicit class/data attributes on the
// block outrank a bare lang attribute, which outranks the parent and the
// first child.
var langMatchers = []langMatcher{
	{name: "class", markup: openingTag, pattern: classLangRegex},
	{name: "data-ch-lang", markup: outerHTML, pattern: dataChLangRegex},
	{name: "lang", markup: outerHTML, pattern: langAttrRegex},
	{name: "parent-class", markup: parentOpeningTag, pattern: classLangRegex},
	{name: "child-class", markup: innerOpeningTag, pattern: classLangRegex},
}

// SniffLanguage returns a best-effort language tag for a preformatted node,
// or "" when nothing matches. It never fails.
func SniffLanguage(n *html.Node) string {
	if n == nil {
		return ""
	}
	for _, m := range langMatchers {
		markup := m.markup(n)
		if markup == "" {
			continue
		}
		if sub := m.pattern.FindStringSubmatch(markup); len(sub) == 2 {
			return sub[1]
		}
	}
	return ""
}

// outerHTML serializes the node and its subtree.
func outerHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// innerHTML serializes the node's children.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// firstTag cuts markup after its first '>'.
func firstTag(markup string) string {
	if i := strings.IndexByte(markup, '>'); i >= 0 {
		return markup[:i+1]
	}
	return markup
}

func openingTag(n *html.Node) string {
	return firstTag(outerHTML(n))
}

func parentOpeningTag(n *html.Node) string {
	if n.Parent == nil || n.Parent.Type != html.ElementNode {
		return ""
	}
	return firstTag(outerHTML(n.Parent))
}

func innerOpeningTag(n *html.Node) string {
	return firstTag(innerHTML(n))
}
