// Package metrics provides Prometheus metrics for feed conversion runs.
// It exports:
//   - feeds_files_processed_total: Counter with result label (converted, failed)
//   - feeds_records_written_total: Counter of records written to JSON files
//   - feeds_lines_skipped_total: Counter with reason label (empty, no_pair)
//   - feeds_conversion_duration_seconds: Histogram of per-file conversion time
//   - feeds_last_run_timestamp_seconds: Gauge set when a run completes
//
// The converter is a one-shot process, so metrics live in a private registry
// that is written to a node-exporter textfile at the end of the run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "feeds"

const (
	ResultConverted = "converted"
	ResultFailed    = "failed"

	SkipEmpty  = "empty"
	SkipNoPair = "no_pair"
)

// Collector groups the conversion metrics and the registry they belong to.
type Collector struct {
	Registry *prometheus.Registry

	FilesProcessed     *prometheus.CounterVec
	RecordsWritten     prometheus.Counter
	LinesSkipped       *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	LastRunTimestamp   prometheus.Gauge
}

// NewCollector creates the collectors and registers them on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),

		FilesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_processed_total",
				Help:      "Feed files processed, by result",
			},
			[]string{"result"},
		),

		RecordsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_written_total",
				Help:      "Feed records written to JSON files",
			},
		),

		LinesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_skipped_total",
				Help:      "Input lines skipped without error, by reason",
			},
			[]string{"reason"},
		),

		ConversionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Time spent converting one feed file",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),

		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed conversion run",
			},
		),
	}

	c.Registry.MustRegister(
		c.FilesProcessed,
		c.RecordsWritten,
		c.LinesSkipped,
		c.ConversionDuration,
		c.LastRunTimestamp,
	)

	return c
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. The write is atomic.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
