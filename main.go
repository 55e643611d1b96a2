package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/giygas/feedsconverter/config"
	"github.com/giygas/feedsconverter/feedsparser"
	"github.com/giygas/feedsconverter/interfaces"
	"github.com/giygas/feedsconverter/logging"
	"github.com/giygas/feedsconverter/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

func main() {
	// A .env file in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := loadConfig()
	defer logging.Close()

	collector := metrics.NewCollector()
	converter := feedsparser.NewConverter(afero.NewOsFs(), converterOptions(cfg, collector)...)

	run(cfg, converter, collector)
}

// loadConfig loads the configuration and initializes logging. Invalid values
// fall back to their defaults so the run still happens.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	logging.InitLogger(cfg)
	if err != nil {
		logging.Warn("Invalid configuration, using defaults for invalid values", "error", err)
	}
	return cfg
}

func converterOptions(cfg *config.Config, collector *metrics.Collector) []feedsparser.Option {
	opts := []feedsparser.Option{
		feedsparser.WithOutput(os.Stdout),
		feedsparser.WithMetrics(collector),
	}
	if cfg.MarkdownTables {
		opts = append(opts, feedsparser.WithMarkdownTables(cfg.MarkdownColumns))
	}
	return opts
}

// run converts the feed files of the configured directory. Per-file failures
// are reported on the console only and never change the exit status.
func run(cfg *config.Config, converter interfaces.FeedConverter, exporter interfaces.MetricsExporter) feedsparser.Summary {
	start := time.Now()

	summary, err := converter.ConvertAll(cfg.FeedsDir)
	if err != nil {
		logging.Error("Feed conversion run aborted", "dir", cfg.FeedsDir, "error", err)
	}

	if cfg.MetricsFile != "" {
		if err := exporter.WriteTextfile(cfg.MetricsFile); err != nil {
			logging.Warn("Failed to export metrics", "file", cfg.MetricsFile, "error", err)
		} else {
			logging.Debug("Metrics exported", "file", cfg.MetricsFile)
		}
	}

	logging.Info("Run finished",
		"env", cfg.Env.String(),
		"converted", summary.Converted,
		"failed", summary.Failed,
		"duration", time.Since(start).String())

	return summary
}
