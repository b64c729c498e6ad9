package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order is the request submitted to the engine. Quantity is decremented in
// place as the match loop consumes it; every other field is immutable once
// constructed.
type Order struct {
	ID         string
	Timestamp  time.Time
	Symbol     string
	Side       Side
	Type       OrderType
	AssetClass AssetClass
	Price      float64
	Quantity   float64
}

// NewOrder builds an order with a fresh id and submission timestamp. The
// source's id default was computed once and shared by every order built
// without an id; every order built here gets its own uuid, never a shared
// default.
func NewOrder(symbol string, side Side, typ OrderType, price, quantity float64) Order {
	return Order{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  quantity,
	}
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%s symbol=%s side=%s type=%s price=%.8f qty=%.8f ts=%s}",
		o.ID, o.Symbol, o.Side, o.Type, o.Price, o.Quantity, o.Timestamp.Format(time.RFC3339Nano),
	)
}

// OrderBookEntry is the resting state of a limit order once its residual has
// joined a price level's FIFO queue. It is owned exclusively by that queue;
// only Quantity ever mutates, as trades consume it.
type OrderBookEntry struct {
	OrderID   string
	Side      Side
	Timestamp time.Time
	Quantity  float64
}

// NewEntry converts the residual of a limit order into a resting entry.
func NewEntry(o Order) *OrderBookEntry {
	return &OrderBookEntry{
		OrderID:   o.ID,
		Side:      o.Side,
		Timestamp: o.Timestamp,
		Quantity:  o.Quantity,
	}
}
