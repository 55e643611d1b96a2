package entities

// FeedRecord is one price-feed pair as written to the JSON output.
// Field order is the key order of the serialized objects.
type FeedRecord struct {
	Pair     string `json:"pair"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address"`
}
