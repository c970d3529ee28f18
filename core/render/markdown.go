// Package render turns converted Markdown into the CLI output formats.
// Markdown is already the canonical format, so its renderer is a passthrough.
package render

import (
	"github.com/gaurav-prasanna/parselinks/core"
)

// MarkdownRenderer writes Markdown as-is with a trailing newline.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes.
func (r *MarkdownRenderer) Render(markdown string, _ core.PageMetadata) ([]byte, error) {
	return []byte(markdown + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
