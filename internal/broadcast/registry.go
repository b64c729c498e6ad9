package broadcast

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"clobengine/internal/common"

	"github.com/google/uuid"
)

// Registry holds the two independent sink sets (market-data, trade) for one
// book.
type Registry struct {
	symbol string

	mu          sync.Mutex
	marketSinks map[string]*dispatcher
	tradeSinks  map[string]*dispatcher
}

// NewRegistry builds an empty registry for symbol.
func NewRegistry(symbol string) *Registry {
	return &Registry{
		symbol:      symbol,
		marketSinks: make(map[string]*dispatcher),
		tradeSinks:  make(map[string]*dispatcher),
	}
}

// AttachMarket registers a market-data sink and returns a function that
// detaches it.
func (r *Registry) AttachMarket(sink Sink) func() {
	return r.attach(r.marketSinks, sink)
}

// AttachTrade registers a trade sink and returns a function that detaches
// it.
func (r *Registry) AttachTrade(sink Sink) func() {
	return r.attach(r.tradeSinks, sink)
}

func (r *Registry) attach(set map[string]*dispatcher, sink Sink) func() {
	id := uuid.New().String()

	evict := func() {
		r.mu.Lock()
		delete(set, id)
		r.mu.Unlock()
	}
	d := newDispatcher(sink, evict)

	r.mu.Lock()
	set[id] = d
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(set, id)
		r.mu.Unlock()
		d.stop()
	}
}

// BroadcastDepth serializes snapshot to the market wire format and fans it
// out to every attached market sink.
func (r *Registry) BroadcastDepth(snapshot common.DepthSnapshot) {
	payload, err := json.Marshal(marketEnvelope{
		Type: "market_depth",
		Data: marketPayload{
			Timestamp: snapshot.Timestamp.Format(time.RFC3339Nano),
			Symbol:    snapshot.Symbol,
			Bids:      levelsToWire(snapshot.Bids),
			Asks:      levelsToWire(snapshot.Asks),
		},
	})
	if err != nil {
		return
	}
	r.fanOut(r.marketSinks, payload)
}

// BroadcastTrade serializes trade to the trade wire format and fans it out
// to every attached trade sink.
func (r *Registry) BroadcastTrade(trade common.Trade) {
	payload, err := json.Marshal(tradeEnvelope{
		Type: "trade",
		Data: tradePayload{
			Price:         trade.Price,
			Quantity:      trade.Quantity,
			Symbol:        trade.Symbol,
			Timestamp:     trade.Timestamp.Format(time.RFC3339Nano),
			AggressorSide: trade.AggressorSide.String(),
			MakerOrderID:  trade.MakerID,
			TakerOrderID:  trade.TakerID,
		},
	})
	if err != nil {
		return
	}
	r.fanOut(r.tradeSinks, payload)
}

func (r *Registry) fanOut(set map[string]*dispatcher, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range set {
		d.enqueue(payload)
	}
}

// --- wire format -------------------------------------------------------

type marketEnvelope struct {
	Type string        `json:"type"`
	Data marketPayload `json:"data"`
}

type marketPayload struct {
	Timestamp string     `json:"timestamp"`
	Symbol    string     `json:"symbol"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
}

type tradeEnvelope struct {
	Type string       `json:"type"`
	Data tradePayload `json:"data"`
}

type tradePayload struct {
	Price         float64 `json:"price"`
	Quantity      float64 `json:"quantity"`
	Symbol        string  `json:"symbol"`
	Timestamp     string  `json:"timestamp"`
	AggressorSide string  `json:"aggressor_side"`
	MakerOrderID  string  `json:"maker_order_id"`
	TakerOrderID  string  `json:"taker_order_id"`
}

// levelsToWire preserves the source's stringified-number convention for
// depth arrays.
func levelsToWire(levels []common.DepthLevel) [][]string {
	out := make([][]string, len(levels))
	for i, l := range levels {
		out[i] = []string{
			strconv.FormatFloat(l.Price, 'f', -1, 64),
			strconv.FormatFloat(l.Quantity, 'f', -1, 64),
		}
	}
	return out
}
