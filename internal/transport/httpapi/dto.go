package httpapi

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"clobengine/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	errMissingSymbol     = errors.New("symbol is required")
	errInvalidSide       = errors.New("side must be \"buy\" or \"sell\"")
	errInvalidType       = errors.New("type must be one of \"limit\", \"market\", \"ioc\", \"fok\"")
	errInvalidAssetClass = errors.New("asset_class must be one of \"equity\", \"crypto\", \"fx\"")
	errNonPositiveQty    = errors.New("quantity must be positive")
	errNegativePrice     = errors.New("price must be non-negative")
)

// orderRequest mirrors the wire Order JSON accepted by submit_order.
// AssetClass is optional and affects only metrics labeling; it never gates
// matching or routes to a different book.
type orderRequest struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Type       string  `json:"type"`
	AssetClass string  `json:"asset_class"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
}

// toOrder validates the request and converts it to a domain Order. Price
// and quantity are round-tripped through shopspring/decimal so that callers
// supplying equivalent-but-differently-formatted numbers (e.g. "100.50" vs
// "100.5000") canonicalize to the same float64 key before they ever reach
// the engine's exact-equality price map.
func (r orderRequest) toOrder() (common.Order, error) {
	if strings.TrimSpace(r.Symbol) == "" {
		return common.Order{}, errMissingSymbol
	}

	var side common.Side
	switch strings.ToLower(r.Side) {
	case "buy":
		side = common.Buy
	case "sell":
		side = common.Sell
	default:
		return common.Order{}, errInvalidSide
	}

	var typ common.OrderType
	switch strings.ToLower(r.Type) {
	case "", "limit":
		typ = common.Limit
	case "market":
		typ = common.Market
	case "ioc":
		typ = common.IOC
	case "fok":
		typ = common.FOK
	default:
		return common.Order{}, errInvalidType
	}

	var assetClass common.AssetClass
	switch strings.ToLower(r.AssetClass) {
	case "", "equity":
		assetClass = common.Equity
	case "crypto":
		assetClass = common.Crypto
	case "fx":
		assetClass = common.FX
	default:
		return common.Order{}, errInvalidAssetClass
	}

	qty, err := canonicalDecimal(r.Quantity)
	if err != nil {
		return common.Order{}, err
	}
	if qty <= 0 {
		return common.Order{}, errNonPositiveQty
	}

	price, err := canonicalDecimal(r.Price)
	if err != nil {
		return common.Order{}, err
	}
	if price < 0 {
		return common.Order{}, errNegativePrice
	}

	order := common.NewOrder(r.Symbol, side, typ, price, qty)
	order.AssetClass = assetClass
	if r.ID != "" {
		order.ID = r.ID
	} else {
		order.ID = uuid.New().String()
	}
	return order, nil
}

var errNotFinite = errors.New("price/quantity must be a finite number")

// canonicalDecimal rounds v to 8 decimal places via decimal.Decimal,
// rejecting NaN/Inf before it ever reaches decimal.NewFromFloat, which does
// not accept them.
func canonicalDecimal(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	f, _ := decimal.NewFromFloat(v).Round(8).Float64()
	return f, nil
}

// bboWire is the wire shape of a BBO: best prices only, no symbol or sizes.
type bboWire struct {
	Bid *float64 `json:"bid"`
	Ask *float64 `json:"ask"`
}

func toBBOWire(bbo common.BBO) bboWire {
	return bboWire{Bid: bbo.Bid, Ask: bbo.Ask}
}

// bboResponse is the envelope submit_order returns, wrapping the post-submit
// BBO under a "bbo" key.
type bboResponse struct {
	BBO bboWire `json:"bbo"`
}

type depthLevelWire struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type depthResponse struct {
	Symbol    string           `json:"symbol"`
	Timestamp string           `json:"timestamp"`
	Bids      []depthLevelWire `json:"bids"`
	Asks      []depthLevelWire `json:"asks"`
}

// toWireLevels preserves the source's stringified-number convention.
func toWireLevels(levels []common.DepthLevel) []depthLevelWire {
	out := make([]depthLevelWire, len(levels))
	for i, l := range levels {
		out[i] = depthLevelWire{
			Price:    strconv.FormatFloat(l.Price, 'f', -1, 64),
			Quantity: strconv.FormatFloat(l.Quantity, 'f', -1, 64),
		}
	}
	return out
}
