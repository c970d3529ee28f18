package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/parselinks/core/batch"
	"github.com/gaurav-prasanna/parselinks/core/convert"
	"github.com/gaurav-prasanna/parselinks/core/extract"
	"github.com/gaurav-prasanna/parselinks/core/fetch"
	"github.com/gaurav-prasanna/parselinks/core/normalize"
	"github.com/gaurav-prasanna/parselinks/internal/config"
)

// newConverter wires one converter from cfg. The rule set is built once and
// shared by the extractor and the converter.
func newConverter(cfg *config.Config, log logrus.FieldLogger) *convert.Converter {
	rules := normalize.NewRuleSet()
	return convert.New(
		convert.WithRuleSet(rules),
		convert.WithExtractor(extract.New(rules,
			extract.WithCharThreshold(cfg.Convert.CharThreshold),
			extract.WithLogger(log),
		)),
		convert.WithFetcher(fetch.New(
			fetch.WithTimeout(cfg.Fetch.Timeout),
			fetch.WithUserAgent(cfg.Fetch.UserAgent),
		)),
		convert.WithQualityThreshold(cfg.Convert.QualityThreshold),
		convert.WithLogger(log),
	)
}

func newDispatcher(cfg *config.Config, conv batch.Converter, log logrus.FieldLogger) *batch.Dispatcher {
	return batch.New(conv,
		batch.WithMaxPages(cfg.Batch.MaxPages),
		batch.WithConcurrency(cfg.Batch.Concurrency),
		batch.WithLogger(log),
	)
}
