package feedsparser

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/feedsconverter/feedsparser/entities"
	"github.com/giygas/feedsconverter/logging"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

const (
	fieldSeparator = "\t"
	pairSeparator  = "/"
	pairJoiner     = "-"
	expectedFields = 3

	// Longest line the scanner accepts
	maxLineSize = 1 * 1024 * 1024
)

// ParseStats counts what happened to the lines of one feed file.
type ParseStats struct {
	TotalLines   int
	EmptyLines   int
	NoPairLines  int
	RecordsFound int
}

// ParseFeeds turns the content of a feed descriptor file into records.
// Lines are "<feed name>\t<decimals>\t<address>". Lines whose feed name
// has no "/" are not pairs and are skipped. Any malformed line fails the
// whole file.
func ParseFeeds(content []byte) ([]entities.FeedRecord, ParseStats, error) {
	var stats ParseStats

	if !utf8.Valid(content) {
		return nil, stats, &ConversionError{Kind: KindEncodingFailure, Err: fmt.Errorf("content is not valid UTF-8")}
	}

	// UTF8BOM drops a leading byte order mark, if any
	reader := transform.NewReader(bytes.NewReader(content), unicode.UTF8BOM.NewDecoder())
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lower := cases.Lower(language.Und)
	records := make([]entities.FeedRecord, 0)

	for scanner.Scan() {
		stats.TotalLines++
		// ScanLines already drops "\n" and a trailing "\r"
		line := scanner.Text()

		if len(line) == 0 {
			stats.EmptyLines++
			continue
		}

		fields := strings.Split(line, fieldSeparator)
		if len(fields) != expectedFields {
			return nil, stats, malformed(stats.TotalLines, "expected %d tab-separated fields, got %d", expectedFields, len(fields))
		}

		feedName, decimalsRaw, addressRaw := fields[0], fields[1], fields[2]

		if !strings.Contains(feedName, pairSeparator) {
			stats.NoPairLines++
			continue
		}

		decimals, err := strconv.Atoi(strings.TrimSpace(decimalsRaw))
		if err != nil {
			return nil, stats, malformed(stats.TotalLines, "invalid decimals %q: %w", decimalsRaw, err)
		}

		records = append(records, entities.FeedRecord{
			Pair:     normalizePair(lower, feedName),
			Decimals: decimals,
			Address:  strings.TrimSpace(addressRaw),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, &ConversionError{Kind: KindIOFailure, Line: stats.TotalLines + 1, Err: fmt.Errorf("scanner error: %w", err)}
	}

	stats.RecordsFound = len(records)

	logging.Debug("Feed file parsed",
		"total_lines", stats.TotalLines,
		"empty_lines", stats.EmptyLines,
		"no_pair_lines", stats.NoPairLines,
		"records_parsed", stats.RecordsFound)

	return records, stats, nil
}

// NormalizePair converts a feed name such as "ETH / USD" into its pair
// identifier "eth-usd". Every "/" separates a token, so "A/B/C" gives "a-b-c".
func NormalizePair(feedName string) string {
	return normalizePair(cases.Lower(language.Und), feedName)
}

func normalizePair(lower cases.Caser, feedName string) string {
	tokens := strings.Split(feedName, pairSeparator)
	for i, token := range tokens {
		tokens[i] = lower.String(strings.TrimSpace(token))
	}

	return strings.ReplaceAll(strings.Join(tokens, pairJoiner), " ", "")
}

// Pairs lists the pair identifiers of records, in record order.
func Pairs(records []entities.FeedRecord) []string {
	pairs := make([]string, 0, len(records))
	for _, record := range records {
		pairs = append(pairs, record.Pair)
	}
	return pairs
}
