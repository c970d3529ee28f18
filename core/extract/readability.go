// Package extract isolates readable content from a parsed page.
//
// The primary path runs readability over the document, repairs the
// title/heading relationship and converts the result with the shared
// normalize.RuleSet. The fallback path linearizes <p> and <pre> text and is
// used when the primary path fails or underperforms.
package extract

import (
	"fmt"
	"net/url"

	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/core/normalize"
	"github.com/gaurav-prasanna/parselinks/internal/logging"
)

// DefaultCharThreshold is the minimum block size readability treats as content.
const DefaultCharThreshold = 100

// Option configures a ReadabilityExtractor.
type Option func(*ReadabilityExtractor)

// WithCharThreshold overrides DefaultCharThreshold.
func WithCharThreshold(n int) Option {
	return func(e *ReadabilityExtractor) {
		if n > 0 {
			e.parser.CharThresholds = n
		}
	}
}

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *ReadabilityExtractor) {
		e.log = l
	}
}

// ReadabilityExtractor is the primary content extractor.
type ReadabilityExtractor struct {
	parser readability.Parser
	rules  *normalize.RuleSet
	log    logrus.FieldLogger
}

// New creates a ReadabilityExtractor that converts through rules.
func New(rules *normalize.RuleSet, opts ...Option) *ReadabilityExtractor {
	parser := readability.NewParser()
	parser.KeepClasses = true
	parser.Debug = false
	parser.CharThresholds = DefaultCharThreshold

	e := &ReadabilityExtractor{
		parser: parser,
		rules:  rules,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the cleaned Markdown for doc. It never panics: every
// failure, including one raised inside readability, becomes an error result.
func (e *ReadabilityExtractor) Extract(doc *html.Node, pageURL *url.URL) (result core.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Debug("readability panicked")
			result = core.Failed(fmt.Errorf("%w: %v", core.ErrExtractionFailed, r))
		}
	}()

	article, err := e.Article(doc, pageURL)
	if err != nil {
		return core.Failed(err)
	}

	markdown := StripFragmentLinks(e.rules.Convert(article.Content))
	return core.Succeeded(article.Title, markdown)
}

// Article runs readability and applies the HTML-level cleanup: comment
// removal and title/heading repair.
func (e *ReadabilityExtractor) Article(doc *html.Node, pageURL *url.URL) (core.Article, error) {
	if doc == nil {
		return core.Article{}, core.ErrExtractionFailed
	}
	if pageURL == nil {
		pageURL = &url.URL{}
	}

	// The parser keeps per-document state; each call works on its own copy
	// of the configured value.
	parser := e.parser
	parsed, err := parser.ParseDocument(doc, pageURL)
	if err != nil {
		return core.Article{}, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}
	if parsed.Node == nil || parsed.Content == "" {
		return core.Article{}, core.ErrExtractionFailed
	}

	content := StripComments(parsed.Content)
	content = RepairTitle(parsed.Title, content)

	return core.Article{Title: parsed.Title, Content: content}, nil
}
