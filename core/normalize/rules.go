// Package normalize converts cleaned HTML into Markdown, the canonical
// intermediate format for every downstream consumer.
//
// The RuleSet is built once at startup and shared by every conversion. It is
// never mutated after NewRuleSet returns, so it needs no locking.
package normalize

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/marker"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// strikeTags are the elements rendered with single tildes.
var strikeTags = []string{"del", "s", "strike"}

// RuleSet converts HTML fragments to Markdown with ATX headings, "---"
// breaks, "-" bullets, fenced code and GitHub-flavored tables.
type RuleSet struct {
	conv *converter.Converter
}

// NewRuleSet creates the converter and registers the custom rules.
func NewRuleSet() *RuleSet {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithHorizontalRule("---"),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithCodeBlockFence("```"),
			),
			table.NewTablePlugin(),
			strikethrough.NewStrikethroughPlugin(),
		),
	)

	// PriorityEarly runs before the plugin renderers (PriorityStandard),
	// so these override the default pre and strikethrough output.
	conv.Register.RendererFor("pre", converter.TagTypeBlock, renderFencedCode, converter.PriorityEarly)
	for _, tag := range strikeTags {
		conv.Register.RendererFor(tag, converter.TagTypeInline, renderStrikethrough, converter.PriorityEarly)
	}

	return &RuleSet{conv: conv}
}

// Convert turns an HTML fragment into Markdown. A fragment the converter
// rejects degrades to its visible text instead of an error.
func (r *RuleSet) Convert(fragment string) string {
	markdown, err := r.conv.ConvertString(fragment)
	if err != nil {
		return visibleText(fragment)
	}
	return markdown
}

// renderFencedCode emits every <pre> as a fenced block. Inline formatting
// inside the block is ignored: the raw text of each child is concatenated
// so '_', '*' and backticks survive untouched. Newlines are written as the
// code-block marker so blank-line collapsing leaves the block intact.
func renderFencedCode(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	lang := SniffLanguage(n)

	var code strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		code.WriteString(textContent(c))
	}

	w.WriteString("\n\n```" + lang + "\n")
	w.WriteString(strings.ReplaceAll(code.String(), "\n", string(marker.MarkerCodeBlockNewline)))
	w.WriteString("\n```\n\n")
	return converter.RenderSuccess
}

// renderStrikethrough wraps the rendered children in single tildes.
func renderStrikethrough(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)

	w.WriteString("~")
	w.Write(buf.Bytes())
	w.WriteString("~")
	return converter.RenderSuccess
}

// textContent mirrors the DOM textContent property.
func textContent(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.CommentNode:
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func visibleText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
