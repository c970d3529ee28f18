package core

import "errors"

// Error taxonomy for the conversion pipeline. Callers match with errors.Is.
var (
	// ErrParseFailed means the input could not be parsed into a document.
	ErrParseFailed = errors.New("parse failed")
	// ErrExtractionFailed means readability found no qualifying article.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrFetchFailed covers transport errors and non-2xx responses.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrFetchTimeout means the fetch exceeded its deadline.
	ErrFetchTimeout = errors.New("fetch timed out")
)
