// Package interfaces defines core abstractions for the feeds converter
// to improve testability and separation of concerns.
package interfaces

import (
	"github.com/giygas/feedsconverter/feedsparser"
	"github.com/giygas/feedsconverter/metrics"
)

// Compile-time checks for the concrete implementations
var (
	_ FeedConverter   = (*feedsparser.Converter)(nil)
	_ MetricsExporter = (*metrics.Collector)(nil)
)

// FeedConverter defines the contract for converting feed descriptor files.
// Failures of a single file are reported in its Result, never as an error
// of the batch.
type FeedConverter interface {
	// ListCandidates returns the sorted names of the feed files in dir
	ListCandidates(dir string) ([]string, error)

	// ConvertOne converts one file and writes its JSON document
	ConvertOne(path string) feedsparser.Result

	// ConvertAll converts every feed file in dir
	ConvertAll(dir string) (feedsparser.Summary, error)
}

// MetricsExporter persists the metrics of a run.
type MetricsExporter interface {
	WriteTextfile(path string) error
}
