// Package convert is the conversion orchestrator. It picks between the
// primary readability path and the fallback linearization, normalizes the
// result and reports success or total failure.
//
// Convert is total: it never returns an error and never panics. A nil
// FinalResult.Markdown is the only failure signal.
package convert

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/core/extract"
	"github.com/gaurav-prasanna/parselinks/core/fetch"
	"github.com/gaurav-prasanna/parselinks/core/normalize"
	"github.com/gaurav-prasanna/parselinks/internal/logging"
)

// DefaultQualityThreshold is the character floor below which primary
// extraction output is replaced by the fallback.
const DefaultQualityThreshold = 1000

// ParseFunc parses raw HTML into a document.
type ParseFunc func(raw string) (*html.Node, error)

// Option configures a Converter.
type Option func(*Converter)

// WithRuleSet shares an existing rule set instead of building one.
func WithRuleSet(r *normalize.RuleSet) Option {
	return func(c *Converter) { c.rules = r }
}

// WithExtractor replaces the primary content extractor.
func WithExtractor(e core.ContentExtractor) Option {
	return func(c *Converter) { c.extractor = e }
}

// WithFetcher replaces the fetcher used for URL inputs.
func WithFetcher(f core.Fetcher) Option {
	return func(c *Converter) { c.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) { c.log = l }
}

// WithQualityThreshold overrides DefaultQualityThreshold.
func WithQualityThreshold(n int) Option {
	return func(c *Converter) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithParser replaces the HTML parser.
func WithParser(p ParseFunc) Option {
	return func(c *Converter) { c.parse = p }
}

// Converter converts pages to Markdown. It holds only read-only
// collaborators and is safe for concurrent use.
type Converter struct {
	rules     *normalize.RuleSet
	extractor core.ContentExtractor
	fetcher   core.Fetcher
	parse     ParseFunc
	threshold int
	log       logrus.FieldLogger
}

// New creates a Converter. Unset collaborators get their defaults.
func New(opts ...Option) *Converter {
	c := &Converter{
		parse:     ParseHTML,
		threshold: DefaultQualityThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.rules == nil {
		c.rules = normalize.NewRuleSet()
	}
	if c.extractor == nil {
		c.extractor = extract.New(c.rules, extract.WithLogger(c.log))
	}
	if c.fetcher == nil {
		c.fetcher = fetch.New()
	}
	return c
}

// Convert fetches (for URL inputs) and converts one page.
func (c *Converter) Convert(ctx context.Context, in core.Input) (result core.FinalResult) {
	source := in.URL
	if source == "" {
		source = in.Name
	}
	log := c.log.WithField("source", source)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("conversion failed")
			result = core.Failure()
		}
	}()

	raw := in.RawHTML
	if in.URL != "" {
		fetched, err := c.fetcher.Fetch(ctx, in.URL)
		if err != nil {
			log.WithError(err).Warn("fetch failed")
			return core.Failure()
		}
		raw = fetched.HTML
	}

	markdown, err := c.markdown(log, in, raw)
	if err != nil {
		log.WithError(err).Warn("conversion failed")
		return core.Failure()
	}
	return core.Success(Normalize(markdown))
}

// ConvertHTML converts already-fetched HTML.
func (c *Converter) ConvertHTML(raw string) core.FinalResult {
	return c.Convert(context.Background(), core.Input{RawHTML: raw})
}

// markdown produces the un-normalized Markdown for raw.
func (c *Converter) markdown(log logrus.FieldLogger, in core.Input, raw string) (string, error) {
	if IsMarkdownSource(in.URL) || IsMarkdownSource(in.Name) {
		log.WithField("path", "markdown-passthrough").Debug("source is already markdown")
		return raw, nil
	}

	doc, err := c.parse(raw)
	if err != nil {
		log.WithError(err).WithField("path", "fallback").Debug("parse failed")
		return extract.FallbackFromHTML(raw)
	}

	result := c.extractor.Extract(doc, pageURL(in.URL))
	if reason := c.rejectReason(result); reason != "" {
		log.WithFields(logrus.Fields{
			"path":   "fallback",
			"reason": reason,
			"length": utf8.RuneCountInString(result.Markdown),
		}).Debug("primary extraction rejected")
		return extract.FallbackFromHTML(raw)
	}

	log.WithFields(logrus.Fields{
		"path":   "primary",
		"length": utf8.RuneCountInString(result.Markdown),
	}).Debug("primary extraction accepted")
	return result.Markdown, nil
}

// rejectReason returns why result must not be used, or "".
func (c *Converter) rejectReason(result core.ExtractionResult) string {
	if !result.OK() {
		return "extraction-failed"
	}
	if utf8.RuneCountInString(result.Markdown) < c.threshold {
		return "low-quality"
	}
	return ""
}

// ParseHTML is the default ParseFunc.
func ParseHTML(raw string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	return doc, nil
}

var blankRunRegex = regexp.MustCompile(`\n{3,}`)

// Normalize collapses runs of three or more newlines to two and trims the
// result. It is idempotent.
func Normalize(markdown string) string {
	return strings.TrimSpace(blankRunRegex.ReplaceAllString(markdown, "\n\n"))
}

// IsMarkdownSource reports whether source names a Markdown document by its
// ".md" suffix (case-insensitive). For absolute URLs only the path counts.
func IsMarkdownSource(source string) bool {
	if source == "" {
		return false
	}
	name := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		name = u.Path
	}
	return strings.HasSuffix(strings.ToLower(name), ".md")
}

func pageURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}
