// Package feedsparser converts tab-separated feed descriptor files into JSON
// documents listing price-feed pairs.
package feedsparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/giygas/feedsconverter/feedsparser/entities"
	"github.com/giygas/feedsconverter/logging"
	"github.com/giygas/feedsconverter/metrics"
	"github.com/spf13/afero"
)

const (
	InputSuffix  = ".txt"
	OutputSuffix = ".json"

	jsonIndent = "    "
)

// Result is the outcome of converting one feed file.
// Err is nil on success; Output is only set on success.
type Result struct {
	File    string
	Output  string
	Records []entities.FeedRecord
	Stats   ParseStats
	Err     error
}

// Failed reports whether the file could not be converted.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Kind returns the failure kind, KindNone for a successful conversion.
func (r Result) Kind() ErrorKind {
	return KindOf(r.Err)
}

// Summary aggregates the results of one batch run.
type Summary struct {
	Results   []Result
	Converted int
	Failed    int
	Duration  time.Duration
}

// Converter runs feed conversions against a filesystem.
type Converter struct {
	fs              afero.Fs
	out             io.Writer
	metrics         *metrics.Collector
	markdownColumns int
}

// Option configures a Converter.
type Option func(*Converter)

// WithOutput sets where progress lines are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.out = w
	}
}

// WithMetrics records conversion metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Converter) {
		c.metrics = collector
	}
}

// WithMarkdownTables also writes a markdown table of the pairs next to each
// JSON file, with the given number of columns.
func WithMarkdownTables(columns int) Option {
	return func(c *Converter) {
		c.markdownColumns = columns
	}
}

// NewConverter creates a Converter working on fs.
func NewConverter(fs afero.Fs, opts ...Option) *Converter {
	c := &Converter{
		fs:  fs,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewCollector()
	}
	return c
}

// IsFeedFile reports whether name follows the feed descriptor naming
// convention. Only a trailing ".txt" counts: "feeds.txt.old" is not a feed file.
func IsFeedFile(name string) bool {
	return strings.HasSuffix(name, InputSuffix) && len(name) > len(InputSuffix)
}

// OutputName maps a feed file name to its JSON name by replacing the
// trailing ".txt" extension only, so "a.txt.txt" becomes "a.txt.json".
func OutputName(name string) string {
	return strings.TrimSuffix(name, InputSuffix) + OutputSuffix
}

// ListCandidates returns the names of the feed files in dir, sorted.
func (c *Converter) ListCandidates(dir string) ([]string, error) {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsFeedFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)

	return names, nil
}

// ConvertAll converts every feed file in dir. A failing file is reported and
// the run moves on to the next one. The returned error is only set when the
// directory itself cannot be listed. The completion line is always printed.
func (c *Converter) ConvertAll(dir string) (summary Summary, err error) {
	start := time.Now()

	defer func() {
		summary.Duration = time.Since(start)
		c.metrics.LastRunTimestamp.SetToCurrentTime()
		fmt.Fprintln(c.out, "Done!")
	}()

	names, err := c.ListCandidates(dir)
	if err != nil {
		logging.Error("Failed to list feed files", "dir", dir, "error", err)
		return summary, err
	}

	logging.Info("Converting feed files", "dir", dir, "candidates", len(names))

	for _, name := range names {
		fmt.Fprintf(c.out, "Parsing %s\n", name)

		result := c.ConvertOne(filepath.Join(dir, name))
		summary.Results = append(summary.Results, result)

		if result.Failed() {
			summary.Failed++
			fmt.Fprintf(c.out, "Failed to parse feed data from file: %s\n", name)
			continue
		}
		summary.Converted++
	}

	logging.Info("Feed conversion completed",
		"dir", dir,
		"converted", summary.Converted,
		"failed", summary.Failed,
		"duration", time.Since(start).String())

	return summary, nil
}

// ConvertOne converts a single feed file and writes its JSON document.
// Either the whole file is written or nothing is.
func (c *Converter) ConvertOne(path string) Result {
	start := time.Now()
	result := Result{File: path}

	defer func() {
		c.metrics.ConversionDuration.Observe(time.Since(start).Seconds())
		if result.Failed() {
			c.metrics.FilesProcessed.WithLabelValues(metrics.ResultFailed).Inc()
			logging.Warn("Feed file conversion failed",
				"file", path,
				"kind", result.Kind().String(),
				"error", result.Err)
			return
		}
		c.metrics.FilesProcessed.WithLabelValues(metrics.ResultConverted).Inc()
		c.metrics.RecordsWritten.Add(float64(len(result.Records)))
	}()

	content, err := c.readFile(path)
	if err != nil {
		result.Err = &ConversionError{Kind: KindIOFailure, File: path, Err: err}
		return result
	}

	records, stats, err := ParseFeeds(content)
	result.Stats = stats
	c.metrics.LinesSkipped.WithLabelValues(metrics.SkipEmpty).Add(float64(stats.EmptyLines))
	c.metrics.LinesSkipped.WithLabelValues(metrics.SkipNoPair).Add(float64(stats.NoPairLines))
	if err != nil {
		result.Err = withFile(err, path)
		return result
	}

	data, err := encodeFeeds(records)
	if err != nil {
		result.Err = &ConversionError{Kind: KindEncodingFailure, File: path, Err: err}
		return result
	}

	target := filepath.Join(filepath.Dir(path), OutputName(filepath.Base(path)))
	if err := writeFileAtomic(c.fs, target, data); err != nil {
		result.Err = &ConversionError{Kind: KindIOFailure, File: path, Err: err}
		return result
	}

	result.Records = records
	result.Output = target

	logging.Debug("Feed file converted",
		"file", path,
		"output", target,
		"records_count", len(records),
		"pairs", Pairs(records))

	if c.markdownColumns > 0 {
		c.writeMarkdown(path, records)
	}

	return result
}

func (c *Converter) readFile(path string) ([]byte, error) {
	file, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close feed file", "file", path, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}

// MarkdownPath maps a feed file to its table under MarkdownDir, so a
// hand-written <name>.md next to the feed is never overwritten.
func MarkdownPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), InputSuffix)
	return filepath.Join(filepath.Dir(path), MarkdownDir, stem+MarkdownSuffix)
}

func (c *Converter) writeMarkdown(path string, records []entities.FeedRecord) {
	target := MarkdownPath(path)
	table := FormatMarkdownTable(Pairs(records), c.markdownColumns)

	if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		logging.Warn("Failed to create markdown directory", "dir", filepath.Dir(target), "error", err)
		return
	}
	if err := writeFileAtomic(c.fs, target, []byte(table)); err != nil {
		logging.Warn("Failed to write markdown table", "file", target, "error", err)
		return
	}
	logging.Debug("Markdown table written", "file", target, "pairs", len(records))
}

// encodeFeeds serializes records as an indented JSON array. HTML characters
// are kept as-is.
func encodeFeeds(records []entities.FeedRecord) ([]byte, error) {
	if records == nil {
		records = []entities.FeedRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", jsonIndent)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to marshal feeds: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file next to target and renames
// it into place, overwriting any existing target.
func writeFileAtomic(fs afero.Fs, target string, data []byte) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", target, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if err := fs.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			logging.Warn("Failed to remove temporary file", "file", tmpName, "error", err)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := fs.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := fs.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, target, err)
	}
	return nil
}

func withFile(err error, path string) error {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		convErr.File = path
		return convErr
	}
	return &ConversionError{Kind: KindIOFailure, File: path, Err: err}
}
