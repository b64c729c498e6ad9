package common

import "time"

// BBO is the best bid and offer for a symbol. Nil means that side is empty.
type BBO struct {
	Symbol string   `json:"symbol"`
	Bid    *float64 `json:"bid"`
	Ask    *float64 `json:"ask"`
}

// DepthLevel is one aggregated price level: total resting quantity at Price
// across every entry in that level's queue.
type DepthLevel struct {
	Price    float64
	Quantity float64
}

// DepthSnapshot is the top-k view of both sides of a book, published to
// market-data subscribers after every mutating submit.
type DepthSnapshot struct {
	Symbol    string
	Timestamp time.Time
	Bids      []DepthLevel
	Asks      []DepthLevel
}
