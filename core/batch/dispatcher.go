// Package batch fans a list of links out to the converter.
// Results keep input order, at most MaxPages are returned, and one link
// failing never affects its siblings.
package batch

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/internal/logging"
)

const (
	DefaultMaxPages    = 10
	DefaultConcurrency = 6
)

// Converter converts a single input. *convert.Converter satisfies it.
type Converter interface {
	Convert(ctx context.Context, in core.Input) core.FinalResult
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxPages caps the number of links converted and returned.
func WithMaxPages(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxPages = n
		}
	}
}

// WithConcurrency bounds the number of conversions in flight.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Dispatcher runs batch conversions.
type Dispatcher struct {
	conv        Converter
	maxPages    int
	concurrency int
	log         logrus.FieldLogger
}

// New creates a Dispatcher over conv.
func New(conv Converter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		conv:        conv,
		maxPages:    DefaultMaxPages,
		concurrency: DefaultConcurrency,
		log:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run converts the first MaxPages links and returns one result per link in
// input order. Failed links have a nil Markdown.
func (d *Dispatcher) Run(ctx context.Context, links []string) []core.LinkResult {
	// Truncating before fan-out returns the same entries as converting
	// everything and keeping the first MaxPages.
	if len(links) > d.maxPages {
		links = links[:d.maxPages]
	}

	results := make([]core.LinkResult, len(links))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, link := range links {
		g.Go(func() error {
			results[i] = d.convertOne(ctx, link)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, r := range results {
		if r.Markdown == nil {
			failed++
		}
	}
	d.log.WithFields(logrus.Fields{"links": len(results), "failed": failed}).Info("batch converted")

	return results
}

// convertOne isolates a single link, including from panics.
func (d *Dispatcher) convertOne(ctx context.Context, link string) (result core.LinkResult) {
	result.Link = link
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{"link": link, "panic": r}).Warn("conversion panicked")
			result.Markdown = nil
		}
	}()

	result.Markdown = d.conv.Convert(ctx, core.Input{URL: link}).Markdown
	return result
}
