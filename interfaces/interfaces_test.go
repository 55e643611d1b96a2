package interfaces

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/feedsconverter/feedsparser"
	"github.com/giygas/feedsconverter/metrics"
	"github.com/spf13/afero"
)

func TestFeedConverterInterface(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/feeds/ethereum.txt": "ETH / USD\t8\t0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419\n",
		"/feeds/broken.txt":   "ETH / USD\t8\n",
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	var out bytes.Buffer
	var converter FeedConverter = feedsparser.NewConverter(fs, feedsparser.WithOutput(&out))

	names, err := converter.ListCandidates("/feeds")
	if err != nil {
		t.Fatalf("Unexpected list error: %v", err)
	}
	if len(names) != 2 || names[0] != "broken.txt" || names[1] != "ethereum.txt" {
		t.Errorf("Expected sorted candidates [broken.txt ethereum.txt], got %v", names)
	}

	result := converter.ConvertOne("/feeds/broken.txt")
	if !result.Failed() || result.Kind() != feedsparser.KindMalformedLine {
		t.Errorf("Expected a malformed-line failure, got %+v", result)
	}

	summary, err := converter.ConvertAll("/feeds")
	if err != nil {
		t.Fatalf("Unexpected batch error: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 1 {
		t.Errorf("Expected 1 converted and 1 failed, got %d and %d", summary.Converted, summary.Failed)
	}
	if !strings.HasSuffix(out.String(), "Done!\n") {
		t.Errorf("Expected the run to end with Done!, got %q", out.String())
	}

	exists, err := afero.Exists(fs, "/feeds/ethereum.json")
	if err != nil || !exists {
		t.Errorf("Expected ethereum.json to be written (err: %v)", err)
	}
}

func TestFeedConverterListError(t *testing.T) {
	var converter FeedConverter = feedsparser.NewConverter(afero.NewMemMapFs(), feedsparser.WithOutput(&bytes.Buffer{}))

	if _, err := converter.ListCandidates("/missing"); err == nil {
		t.Error("Expected an error listing a missing directory")
	}
}

func TestMetricsExporterInterface(t *testing.T) {
	collector := metrics.NewCollector()
	collector.FilesProcessed.WithLabelValues(metrics.ResultConverted).Inc()

	var exporter MetricsExporter = collector
	path := filepath.Join(t.TempDir(), "feeds.prom")

	if err := exporter.WriteTextfile(path); err != nil {
		t.Fatalf("Unexpected export error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected metrics textfile: %v", err)
	}
	if !strings.Contains(string(data), `feeds_files_processed_total{result="converted"} 1`) {
		t.Errorf("Metrics textfile missing converted count:\n%s", data)
	}
}

func TestMetricsExporterUnwritablePath(t *testing.T) {
	var exporter MetricsExporter = metrics.NewCollector()

	path := filepath.Join(t.TempDir(), "missing", "feeds.prom")
	if err := exporter.WriteTextfile(path); err == nil {
		t.Error("Expected an error writing into a missing directory")
	}
}
