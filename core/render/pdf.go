// Package render — PDF renderer.
// Lays out the goldmark AST with gofpdf core fonts: headings by level,
// paragraphs, bulleted list items and shaded monospace code blocks.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/gaurav-prasanna/parselinks/core"
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	left, _, _, _ := pdf.GetMargins()

	if meta.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+meta.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	root, source := parseMarkdown(markdown)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			size, ok := headingSizes[node.Level]
			if !ok {
				size = 10
			}
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.6, tr(inlineText(node, source)), "", "L", false)
			pdf.Ln(2)
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			text := inlineText(node, source)
			depth := listDepth(node)
			if depth > 0 && node.PreviousSibling() == nil {
				text = "• " + text
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetX(left + float64(depth)*5)
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
			if depth == 0 {
				pdf.Ln(2)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			pdf.Ln(1)
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			for _, line := range codeLines(node, source) {
				pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			}
			pdf.Ln(3)
			return ast.WalkSkipChildren, nil

		case *extast.TableHeader, *extast.TableRow:
			style := ""
			if _, ok := node.(*extast.TableHeader); ok {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 9)
			pdf.MultiCell(0, 5, tr(rowText(node, source)), "B", "L", false)
			if node.NextSibling() == nil {
				pdf.Ln(3)
			}
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak:
			y := pdf.GetY() + 2
			w, _ := pdf.GetPageSize()
			pdf.Line(left, y, w-left, y)
			pdf.Ln(5)
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// listDepth counts the list items enclosing n.
func listDepth(n ast.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.ListItem); ok {
			depth++
		}
	}
	return depth
}
