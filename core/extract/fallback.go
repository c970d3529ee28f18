// Package extract — low-fidelity fallback linearization.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/parselinks/core"
)

// Fallback walks every <p> and <pre> in document order. Paragraphs become
// one trimmed line each; preformatted blocks become untagged fences.
//
// Nesting is not tracked: a <p> inside a <pre> contributes its text twice.
// The reverse nesting cannot occur, since the HTML parser closes an open <p>
// before starting a <pre>.
func Fallback(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("p, pre").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		switch goquery.NodeName(s) {
		case "p":
			b.WriteString(text)
			b.WriteString("\n")
		case "pre":
			b.WriteString("\n```\n")
			b.WriteString(text)
			b.WriteString("\n```\n\n")
		}
	})
	return b.String()
}

// FallbackFromHTML parses raw independently of the primary path and runs
// Fallback over it.
func FallbackFromHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	return Fallback(doc), nil
}
