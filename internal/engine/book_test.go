package engine

import (
	"testing"

	"clobengine/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook() *Book {
	return NewBook("AAPL", 0)
}

func limitOrder(side common.Side, price, qty float64) common.Order {
	return common.NewOrder("AAPL", side, common.Limit, price, qty)
}

// (A) Basic match: SELL LIMIT 100x1 then BUY MARKET x1 produces exactly one
// trade at price 100, leaving both sides empty.
func TestBasicMatch(t *testing.T) {
	b := newTestBook()

	ask := limitOrder(common.Sell, 100, 1)
	b.process(ask)

	market := common.NewOrder("AAPL", common.Buy, common.Market, 0, 1)
	b.process(market)

	require.Len(t, b.trades, 1)
	assert.Equal(t, 100.0, b.trades[0].Price)
	assert.Equal(t, 1.0, b.trades[0].Quantity)

	_, bidsOk := b.bids.Best()
	_, asksOk := b.asks.Best()
	assert.False(t, bidsOk)
	assert.False(t, asksOk)
}

// (B) Price-time priority: two asks at the same price, the earlier one
// fills first; one ask remains resting.
func TestPriceTimePriority(t *testing.T) {
	b := newTestBook()

	first := limitOrder(common.Sell, 100, 1)
	second := limitOrder(common.Sell, 100, 1)
	b.process(first)
	b.process(second)

	market := common.NewOrder("AAPL", common.Buy, common.Market, 0, 1)
	b.process(market)

	require.Len(t, b.trades, 1)
	assert.Equal(t, first.ID, b.trades[0].MakerID)

	lvl, ok := b.asks.Best()
	require.True(t, ok)
	require.Len(t, lvl.Orders, 1)
	assert.Equal(t, second.ID, lvl.Orders[0].OrderID)
	assert.Equal(t, 1.0, lvl.Orders[0].Quantity)
}

// (C) IOC partial: book has SELL LIMIT 100x2, BUY IOC 100x5 fills 2 and
// drops the residual without resting a new bid.
func TestIOCPartial(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 2))

	ioc := common.NewOrder("AAPL", common.Buy, common.IOC, 100, 5)
	b.process(ioc)

	require.Len(t, b.trades, 1)
	assert.Equal(t, 2.0, b.trades[0].Quantity)

	_, bidsOk := b.bids.Best()
	_, asksOk := b.asks.Best()
	assert.False(t, bidsOk, "IOC residual must never rest")
	assert.False(t, asksOk, "ask side fully consumed")
}

// (D) FOK reject: book has SELL LIMIT 100x2, BUY FOK 100x5 cannot fill in
// full, so it produces zero trades and leaves the ask side untouched.
func TestFOKReject(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 2))

	fok := common.NewOrder("AAPL", common.Buy, common.FOK, 100, 5)
	b.process(fok)

	assert.Empty(t, b.trades)
	lvl, ok := b.asks.Best()
	require.True(t, ok)
	assert.Equal(t, 2.0, lvl.Quantity())
}

// (D2) FOK that IS feasible fully executes, symmetric to the reject case.
func TestFOKFillsWhenFeasible(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 2))
	b.process(limitOrder(common.Sell, 101, 3))

	fok := common.NewOrder("AAPL", common.Buy, common.FOK, 101, 5)
	b.process(fok)

	require.Len(t, b.trades, 2)
	_, asksOk := b.asks.Best()
	assert.False(t, asksOk)
}

// (E) Depth: two resting bids at distinct prices report in descending
// price order with no asks.
func TestDepth(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Buy, 100, 2))
	b.process(limitOrder(common.Buy, 99.5, 3))

	snapshot := b.GetDepth(2)
	require.Len(t, snapshot.Bids, 2)
	assert.Equal(t, 100.0, snapshot.Bids[0].Price)
	assert.Equal(t, 2.0, snapshot.Bids[0].Quantity)
	assert.Equal(t, 99.5, snapshot.Bids[1].Price)
	assert.Equal(t, 3.0, snapshot.Bids[1].Quantity)
	assert.Empty(t, snapshot.Asks)
}

// (F) Limit that crosses and rests residual: BUY LIMIT 101x3 against a
// resting SELL LIMIT 100x1 improves on the taker's price and rests the
// remainder at 101.
func TestLimitCrossesAndRestsResidual(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 1))

	buy := limitOrder(common.Buy, 101, 3)
	b.process(buy)

	require.Len(t, b.trades, 1)
	assert.Equal(t, 100.0, b.trades[0].Price, "trade price is the resting maker's price, not the taker's")

	lvl, ok := b.bids.Best()
	require.True(t, ok)
	assert.Equal(t, 101.0, lvl.Price)
	require.Len(t, lvl.Orders, 1)
	assert.Equal(t, 2.0, lvl.Orders[0].Quantity)

	bbo := b.bbo()
	require.NotNil(t, bbo.Bid)
	assert.Equal(t, 101.0, *bbo.Bid)
	assert.Nil(t, bbo.Ask)
}

// Conservation: every unit of an incoming order is either traded or ends up
// resting/cancelled; nothing is created or destroyed.
func TestConservation(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 4))

	buy := limitOrder(common.Buy, 100, 10)
	b.process(buy)

	var tradedQty float64
	for _, tr := range b.trades {
		tradedQty += tr.Quantity
	}

	lvl, ok := b.bids.Best()
	require.True(t, ok)
	residual := lvl.Quantity()

	assert.Equal(t, buy.Quantity, tradedQty+residual)
}

// Reads never mutate: calling GetBBO/GetDepth repeatedly is idempotent.
func TestReadsAreIdempotent(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Buy, 100, 2))

	first := b.GetBBO()
	second := b.GetBBO()
	assert.Equal(t, first, second)

	depthFirst := b.GetDepth(5)
	depthSecond := b.GetDepth(5)
	assert.Equal(t, depthFirst.Bids, depthSecond.Bids)
}

// No crossed book: with non-crossing limits resting on both sides, best_bid
// must stay strictly below best_ask.
func TestNoCrossedBook(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 101, 5))
	b.process(limitOrder(common.Buy, 100, 5))

	bbo := b.bbo()
	require.NotNil(t, bbo.Bid)
	require.NotNil(t, bbo.Ask)
	assert.Less(t, *bbo.Bid, *bbo.Ask)
}

// Market order sweeping multiple price levels, confirming price-time
// priority and level removal as each level is exhausted.
func TestMarketSweepMultipleLevels(t *testing.T) {
	b := newTestBook()
	b.process(limitOrder(common.Sell, 100, 2))
	b.process(limitOrder(common.Sell, 101, 3))

	market := common.NewOrder("AAPL", common.Buy, common.Market, 0, 4)
	b.process(market)

	require.Len(t, b.trades, 2)
	assert.Equal(t, 100.0, b.trades[0].Price)
	assert.Equal(t, 2.0, b.trades[0].Quantity)
	assert.Equal(t, 101.0, b.trades[1].Price)
	assert.Equal(t, 2.0, b.trades[1].Quantity)

	lvl, ok := b.asks.Best()
	require.True(t, ok)
	assert.Equal(t, 101.0, lvl.Price)
	assert.Equal(t, 1.0, lvl.Quantity())
}

// A batch of resting bids at distinct prices never trades, and depth
// remains correctly sorted after every insert (supplemental throughput-style
// property test, grounded in original_source/tests/test_performance.py).
func TestDepthStaysSortedUnderBatchInserts(t *testing.T) {
	b := newTestBook()
	prices := []float64{99, 97, 98, 95, 96}
	for _, p := range prices {
		b.process(limitOrder(common.Buy, p, 1))
		snapshot := b.GetDepth(len(prices))
		for i := 1; i < len(snapshot.Bids); i++ {
			assert.Greater(t, snapshot.Bids[i-1].Price, snapshot.Bids[i].Price)
		}
	}
	assert.Empty(t, b.trades)
}

// The trade log is capped at the configured size, oldest first, so a book
// with a small cap never grows its in-memory trade history unbounded.
func TestTradeLogCapIsConfigurable(t *testing.T) {
	b := NewBook("AAPL", 2)
	for i := 0; i < 5; i++ {
		b.process(limitOrder(common.Sell, 100, 1))
		b.process(common.NewOrder("AAPL", common.Buy, common.Market, 0, 1))
	}

	require.Len(t, b.trades, 2)
}

// A non-positive cap falls back to the default rather than disabling the
// trade log entirely.
func TestTradeLogCapFallsBackToDefault(t *testing.T) {
	b := NewBook("AAPL", 0)
	assert.Equal(t, defaultTradeLogCap, b.tradeCap)
}
