// Package engine implements the per-symbol matching engine: order-type
// dispatch, the match loop, trade recording, and the multi-book registry.
// Each Book runs its own single-writer goroutine: a tomb-supervised worker
// fed by a buffered channel, the same shape this codebase uses for
// connection handling, repointed at book mutation. At most one submit is
// ever in flight against a given symbol, while different symbols progress
// independently.
package engine

import (
	"context"
	"time"

	"clobengine/internal/book"
	"clobengine/internal/broadcast"
	"clobengine/internal/common"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const defaultTradeLogCap = 10_000

// DefaultDepth is the depth returned when a caller does not specify k.
const DefaultDepth = 10

type submission struct {
	order common.Order
	reply chan submitResult
}

type submitResult struct {
	bbo common.BBO
}

// Book is the matching engine for a single symbol.
type Book struct {
	symbol      string
	bids        *book.Side
	asks        *book.Side
	trades      []common.Trade
	tradeCap    int
	broadcaster *broadcast.Registry

	intake chan submission
}

// NewBook constructs an idle book for symbol, retaining at most tradeCap
// trades in its in-memory log. Call Run in its own goroutine (normally done
// by the Registry) before submitting orders.
func NewBook(symbol string, tradeCap int) *Book {
	if tradeCap <= 0 {
		tradeCap = defaultTradeLogCap
	}
	return &Book{
		symbol:      symbol,
		bids:        book.NewBidSide(),
		asks:        book.NewAskSide(),
		tradeCap:    tradeCap,
		broadcaster: broadcast.NewRegistry(symbol),
		intake:      make(chan submission, 256),
	}
}

// Run is the book's single writer. It must be started exactly once, and is
// the only goroutine permitted to mutate bids/asks/trades.
func (b *Book) Run(t *tomb.Tomb) error {
	log.Info().Str("symbol", b.symbol).Msg("book started")
	for {
		select {
		case <-t.Dying():
			log.Info().Str("symbol", b.symbol).Msg("book stopping")
			return nil
		case req := <-b.intake:
			start := time.Now()
			bbo := b.process(req.order)
			metrics.submitLatency.WithLabelValues(b.symbol, req.order.Type.String(), req.order.AssetClass.String()).
				Observe(time.Since(start).Seconds())
			req.reply <- submitResult{bbo: bbo}
		}
	}
}

// Submit enqueues order for matching and blocks until matching and
// broadcast enqueue have both completed, returning the post-submit BBO.
func (b *Book) Submit(ctx context.Context, order common.Order) (common.BBO, error) {
	reply := make(chan submitResult, 1)
	select {
	case b.intake <- submission{order: order, reply: reply}:
	case <-ctx.Done():
		return common.BBO{}, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.bbo, nil
	case <-ctx.Done():
		return common.BBO{}, ctx.Err()
	}
}

// GetBBO is a pure read: it never mutates book state.
func (b *Book) GetBBO() common.BBO {
	return b.bbo()
}

// GetDepth is a pure read returning the top k levels of each side.
func (b *Book) GetDepth(k int) common.DepthSnapshot {
	if k <= 0 {
		k = DefaultDepth
	}
	return common.DepthSnapshot{
		Symbol:    b.symbol,
		Timestamp: time.Now().UTC(),
		Bids:      b.bids.Depth(k),
		Asks:      b.asks.Depth(k),
	}
}

// AttachMarket and AttachTrade register subscriber sinks and return a
// detach function. Callers should hold onto the detach function, not the
// book itself, for the lifetime of the subscription.
func (b *Book) AttachMarket(sink broadcast.Sink) (detach func()) {
	return b.broadcaster.AttachMarket(sink)
}

func (b *Book) AttachTrade(sink broadcast.Sink) (detach func()) {
	return b.broadcaster.AttachTrade(sink)
}

func (b *Book) bbo() common.BBO {
	bbo := common.BBO{Symbol: b.symbol}
	if lvl, ok := b.bids.Best(); ok {
		p := lvl.Price
		bbo.Bid = &p
	}
	if lvl, ok := b.asks.Best(); ok {
		p := lvl.Price
		bbo.Ask = &p
	}
	return bbo
}

func (b *Book) contraSide(side common.Side) *book.Side {
	if side == common.Buy {
		return b.asks
	}
	return b.bids
}

func (b *Book) ownSide(side common.Side) *book.Side {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) appendTrade(t common.Trade) {
	b.trades = append(b.trades, t)
	if len(b.trades) > b.tradeCap {
		b.trades = b.trades[len(b.trades)-b.tradeCap:]
	}
	metrics.tradesTotal.WithLabelValues(b.symbol).Inc()
}

func (b *Book) updateLevelGauges() {
	metrics.bookLevels.WithLabelValues(b.symbol, "bid").Set(float64(b.bids.Len()))
	metrics.bookLevels.WithLabelValues(b.symbol, "ask").Set(float64(b.asks.Len()))
}
