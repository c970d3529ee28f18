// Package render — JSON renderer.
// Walks the goldmark AST of the converted Markdown and reports headings,
// links and block counts next to the Markdown itself.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/gaurav-prasanna/parselinks/core"
)

// Heading is a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// PageContent holds the Markdown and its plain-text projection.
type PageContent struct {
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
}

// PageStructure summarizes the Markdown blocks.
type PageStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	ListItems  int       `json:"list_items"`
}

// PageJSON is the complete JSON output for one page.
type PageJSON struct {
	Metadata  core.PageMetadata `json:"metadata"`
	Content   PageContent       `json:"content"`
	Structure PageStructure     `json:"structure"`
}

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render builds the PageJSON document for markdown.
func (r *JSONRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	structure, plain := analyze(markdown)

	page := PageJSON{
		Metadata:  meta,
		Content:   PageContent{Markdown: markdown, Text: plain},
		Structure: structure,
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// analyze collects the structure and plain text of markdown in one walk.
func analyze(markdown string) (PageStructure, string) {
	root, source := parseMarkdown(markdown)

	s := PageStructure{Headings: []Heading{}, Links: []Link{}}
	var blocks []string

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			text := inlineText(node, source)
			s.Headings = append(s.Headings, Heading{Level: node.Level, Text: text})
			blocks = append(blocks, text)
		case *ast.Paragraph, *ast.TextBlock:
			blocks = append(blocks, inlineText(node, source))
		case *ast.Link:
			s.Links = append(s.Links, Link{Text: inlineText(node, source), Href: string(node.Destination)})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			s.CodeBlocks++
			blocks = append(blocks, strings.Join(codeLines(node, source), "\n"))
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			s.Tables++
		case *extast.TableHeader, *extast.TableRow:
			blocks = append(blocks, rowText(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			s.ListItems++
		}
		return ast.WalkContinue, nil
	})

	return s, strings.Join(blocks, "\n\n")
}
