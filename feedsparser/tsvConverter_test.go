package feedsparser

import (
	"errors"
	"testing"

	"github.com/giygas/feedsconverter/feedsparser/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePair(t *testing.T) {
	testCases := []struct {
		name     string
		feedName string
		expected string
	}{
		{"spaced slash", "ETH / USD", "eth-usd"},
		{"no spaces", "wbtc/usdc", "wbtc-usdc"},
		{"extra internal spaces", "BTC /  USD ", "btc-usd"},
		{"leading spaces", "  LINK / ETH", "link-eth"},
		{"space inside token", "ETH 2X / USD", "eth2x-usd"},
		{"multiple slashes", "BTC / ETH / USD", "btc-eth-usd"},
		{"non-ascii uppercase", "ÆTH / USD", "æth-usd"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePair(tc.feedName))
		})
	}
}

func TestParseFeeds(t *testing.T) {
	content := "ETH / USD\t8\t0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419\n" +
		"Total Marketcap USD\t8\t0xEC8761a0A73c34329CA5B1D3Dc7eD07F30e836e2\n" +
		"BTC / ETH\t 18 \t0xdeb288F737066589598e9214E782fa5A8eD689e8\n"

	records, stats, err := ParseFeeds([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, []entities.FeedRecord{
		{Pair: "eth-usd", Decimals: 8, Address: "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"},
		{Pair: "btc-eth", Decimals: 18, Address: "0xdeb288F737066589598e9214E782fa5A8eD689e8"},
	}, records)
	assert.Equal(t, ParseStats{TotalLines: 3, NoPairLines: 1, RecordsFound: 2}, stats)
}

func TestParseFeedsLineEndings(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"no trailing newline", "ETH / USD\t8\t0xabc"},
		{"trailing newline", "ETH / USD\t8\t0xabc\n"},
		{"crlf", "ETH / USD\t8\t0xabc\r\n"},
		{"blank lines", "\nETH / USD\t8\t0xabc\n\n"},
		{"utf-8 bom", "\xef\xbb\xbfETH / USD\t8\t0xabc\n"},
		{"address whitespace", "ETH / USD\t8\t  0xabc \n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, _, err := ParseFeeds([]byte(tc.content))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, entities.FeedRecord{Pair: "eth-usd", Decimals: 8, Address: "0xabc"}, records[0])
		})
	}
}

func TestParseFeedsSkipsNonPairLines(t *testing.T) {
	content := "Metadata line\t0\tnone\nAnother one\t8\t0x0\n"

	records, stats, err := ParseFeeds([]byte(content))
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Equal(t, 2, stats.NoPairLines)
}

func TestParseFeedsPreservesOrder(t *testing.T) {
	content := "ZRX / USD\t8\t0x3\nAAVE / USD\t8\t0x1\nMKR / USD\t8\t0x2\n"

	records, _, err := ParseFeeds([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"zrx-usd", "aave-usd", "mkr-usd"}, Pairs(records))
}

func TestParseFeedsMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		line    int
	}{
		{"two fields", "ETH / USD\t8\t0x1\nBTC / USD\t8\n", 2},
		{"four fields", "ETH / USD\t8\t0x1\textra\n", 1},
		{"no tabs", "just some text\n", 1},
		{"bad decimals", "ETH / USD\teight\t0x1\n", 1},
		{"empty decimals", "ETH / USD\t\t0x1\n", 1},
		{"two fields on a non-pair line", "metadata\t8\n", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, _, err := ParseFeeds([]byte(tc.content))
			require.Error(t, err)
			assert.Nil(t, records)

			assert.True(t, errors.Is(err, ErrMalformedLine))
			assert.Equal(t, KindMalformedLine, KindOf(err))

			var convErr *ConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, tc.line, convErr.Line)
		})
	}
}

func TestParseFeedsInvalidUTF8(t *testing.T) {
	content := []byte("ETH / USD\t8\t0x\xff\xfe\n")

	_, _, err := ParseFeeds(content)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncodingFailure))
	assert.False(t, errors.Is(err, ErrMalformedLine))
}

func TestParseFeedsLineTooLong(t *testing.T) {
	long := make([]byte, maxLineSize+1)
	for i := range long {
		long[i] = 'a'
	}

	_, _, err := ParseFeeds(long)
	require.Error(t, err)
	assert.Equal(t, KindIOFailure, KindOf(err))
}
