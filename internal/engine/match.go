package engine

import (
	"clobengine/internal/book"
	"clobengine/internal/common"

	"github.com/rs/zerolog/log"
)

// process dispatches order by type, mutates the book, records trades, and
// publishes the resulting broadcasts. It is only ever called from Run's
// goroutine, so no further locking is required here.
func (b *Book) process(order common.Order) common.BBO {
	var trades []common.Trade

	switch order.Type {
	case common.Limit:
		trades = b.matchAgainstLimit(&order)
		if order.Quantity > 0 {
			b.restResidual(order)
		}
	case common.Market:
		trades = b.matchLoop(&order, b.contraSide(order.Side), nil)
	case common.IOC:
		trades = b.matchAgainstLimit(&order)
		// Residual is dropped: IOC never rests.
	case common.FOK:
		if b.feasible(order) {
			trades = b.matchAgainstLimit(&order)
		}
		// Infeasible FOK mutates nothing and produces no trades.
	default:
		log.Error().Str("symbol", b.symbol).Int("type", int(order.Type)).Msg("unknown order type")
	}

	for _, t := range trades {
		b.appendTrade(t)
		b.broadcaster.BroadcastTrade(t)
	}
	b.updateLevelGauges()

	bbo := b.bbo()
	b.broadcaster.BroadcastDepth(b.GetDepth(DefaultDepth))
	return bbo
}

// matchAgainstLimit runs the shared match loop with the order's own price
// acting as the crossing constraint: BUY crosses while best_ask <= price,
// SELL crosses while best_bid >= price.
func (b *Book) matchAgainstLimit(order *common.Order) []common.Trade {
	contra := b.contraSide(order.Side)
	return b.matchLoop(order, contra, func(levelPrice float64) bool {
		if order.Side == common.Buy {
			return levelPrice <= order.Price
		}
		return levelPrice >= order.Price
	})
}

// matchLoop is the engine's one shared matching routine. It consumes the contra side from best to worst, and within a level from
// front to back, stopping when the order is filled, the contra side is
// exhausted, or priceOK rejects the best remaining level. priceOK is nil
// for MARKET orders, which have no price constraint.
func (b *Book) matchLoop(order *common.Order, contra *book.Side, priceOK func(levelPrice float64) bool) []common.Trade {
	var trades []common.Trade

	for order.Quantity > 0 {
		lvl, ok := contra.Best()
		if !ok {
			break
		}
		if priceOK != nil && !priceOK(lvl.Price) {
			break
		}

		for !lvl.Empty() && order.Quantity > 0 {
			top := lvl.Front()
			traded := min(order.Quantity, top.Quantity)

			trades = append(trades, common.NewTrade(b.symbol, lvl.Price, traded, top, *order))

			top.Quantity -= traded
			order.Quantity -= traded
			if top.Quantity <= 0 {
				lvl.PopFront()
			}
		}
		contra.RemoveIfEmpty(lvl)
	}

	return trades
}

// feasible performs the FOK pre-check: traverse the contra side from best
// inward, summing quantity at levels that cross the limit, until either the
// cumulative sum covers the order or the price constraint fails / the book
// is exhausted. Traversal is level-by-level rather than entry-by-entry,
// since only the cumulative quantity at each price matters for feasibility.
func (b *Book) feasible(order common.Order) bool {
	contra := b.contraSide(order.Side)
	var sum float64
	ok := false

	contra.IterateLevels(func(lvl *book.Level) bool {
		crosses := lvl.Price <= order.Price
		if order.Side == common.Sell {
			crosses = lvl.Price >= order.Price
		}
		if !crosses {
			return false
		}
		sum += lvl.Quantity()
		if sum >= order.Quantity {
			ok = true
			return false
		}
		return true
	})

	return ok
}

// restResidual inserts the unfilled remainder of a LIMIT order at the tail
// of its own side's queue at its limit price.
func (b *Book) restResidual(order common.Order) {
	own := b.ownSide(order.Side)
	lvl := own.Level(order.Price)
	lvl.Append(common.NewEntry(order))
}
