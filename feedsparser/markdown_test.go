package feedsparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMarkdownTable(t *testing.T) {
	table := FormatMarkdownTable([]string{"eth-usd", "btc-usd", "link-eth"}, 2)

	expected := "| | |\n" +
		"|---|---|\n" +
		"|[eth-usd](https://etherscan.io/address/eth-usd.data.eth)|[btc-usd](https://etherscan.io/address/btc-usd.data.eth)|\n" +
		"|[link-eth](https://etherscan.io/address/link-eth.data.eth)| |\n" +
		"| | |\n"

	assert.Equal(t, expected, table)
}

func TestFormatMarkdownTableFullRows(t *testing.T) {
	table := FormatMarkdownTable([]string{"a-b", "c-d", "e-f", "g-h"}, 4)

	assert.Equal(t, "| | | | |\n"+
		"|---|---|---|---|\n"+
		"|[a-b](https://etherscan.io/address/a-b.data.eth)|[c-d](https://etherscan.io/address/c-d.data.eth)|[e-f](https://etherscan.io/address/e-f.data.eth)|[g-h](https://etherscan.io/address/g-h.data.eth)|\n"+
		"| | | | |\n", table)
}

func TestFormatMarkdownTableEmpty(t *testing.T) {
	assert.Equal(t, "| | |\n|---|---|\n| | |\n", FormatMarkdownTable(nil, 2))
}

func TestFormatMarkdownTableClampsColumns(t *testing.T) {
	assert.Equal(t, "| |\n|---|\n|[a-b](https://etherscan.io/address/a-b.data.eth)|\n| |\n",
		FormatMarkdownTable([]string{"a-b"}, 0))
}
