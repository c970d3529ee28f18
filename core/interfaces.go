// Package core defines the data model and stage interfaces for parselinks.
// Every value here lives for the length of one conversion; nothing is persisted.
package core

import (
	"context"
	"net/url"

	"golang.org/x/net/html"
)

// Input is a single conversion request. Exactly one of URL or RawHTML is
// expected to be set; URL wins when both are.
type Input struct {
	URL     string
	RawHTML string
	// Name is an optional file name used for the Markdown suffix check
	// when the input did not come from a URL.
	Name string
}

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Article is the title/content pair isolated by main-content extraction.
type Article struct {
	Title   string
	Content string // HTML fragment
}

// Status tags an ExtractionResult.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ExtractionResult is the outcome of the primary extraction path.
// On error Markdown is always empty and Err carries the cause.
type ExtractionResult struct {
	Status   Status
	Markdown string
	Title    string
	Err      error
}

// Succeeded builds a success result.
func Succeeded(title, markdown string) ExtractionResult {
	return ExtractionResult{Status: StatusSuccess, Title: title, Markdown: markdown}
}

// Failed builds an error result.
func Failed(err error) ExtractionResult {
	return ExtractionResult{Status: StatusError, Err: err}
}

// OK reports whether the extraction succeeded.
func (r ExtractionResult) OK() bool {
	return r.Status == StatusSuccess
}

// FinalResult is the externally visible result of one conversion.
// A nil Markdown means total failure, distinct from an empty success.
type FinalResult struct {
	Markdown *string `json:"markdown"`
}

// Success wraps markdown in a FinalResult.
func Success(markdown string) FinalResult {
	return FinalResult{Markdown: &markdown}
}

// Failure is the total-failure FinalResult.
func Failure() FinalResult {
	return FinalResult{}
}

// OK reports whether the conversion produced markdown (possibly empty).
func (r FinalResult) OK() bool {
	return r.Markdown != nil
}

// String returns the markdown or "" on failure.
func (r FinalResult) String() string {
	if r.Markdown == nil {
		return ""
	}
	return *r.Markdown
}

// LinkResult is one entry of a batch response.
type LinkResult struct {
	Markdown *string `json:"markdown"`
	Link     string  `json:"link"`
}

// PageMetadata holds metadata derived from the URL and the converted page.
type PageMetadata struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Fetcher retrieves a raw page body from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// ContentExtractor runs the primary extraction path over a parsed document.
// Implementations must never panic out of Extract; failures are results.
type ContentExtractor interface {
	Extract(doc *html.Node, pageURL *url.URL) ExtractionResult
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
