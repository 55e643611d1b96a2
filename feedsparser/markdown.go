package feedsparser

import (
	"fmt"
	"strings"
)

const (
	MarkdownSuffix = ".md"
	// MarkdownDir holds the tables, next to the feed files
	MarkdownDir = "markdown_tables"

	// Pairs resolve through ENS as <pair>.data.eth
	explorerURL = "https://etherscan.io/address/%s.data.eth"
)

// FormatMarkdownTable lays out pairs as a GitHub table with the given number
// of columns. Every cell links the pair to its ENS name on the explorer and the
// last row is padded with empty cells.
func FormatMarkdownTable(pairs []string, columns int) string {
	if columns < 1 {
		columns = 1
	}

	blank := "|" + strings.Repeat(" |", columns)
	rows := []string{blank, "|" + strings.Repeat("---|", columns)}

	for start := 0; start < len(pairs); start += columns {
		cells := make([]string, columns)
		for i := range cells {
			if start+i < len(pairs) {
				pair := pairs[start+i]
				cells[i] = fmt.Sprintf("[%s]("+explorerURL+")", pair, pair)
			} else {
				cells[i] = " "
			}
		}
		rows = append(rows, "|"+strings.Join(cells, "|")+"|")
	}

	rows = append(rows, blank)
	return strings.Join(rows, "\n") + "\n"
}
