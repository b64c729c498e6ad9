package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trade is produced once per fill. Price is always the resting (maker)
// entry's level price; the aggressor is always the incoming (taker) order.
type Trade struct {
	ID            string
	Timestamp     time.Time
	Symbol        string
	Price         float64
	Quantity      float64
	MakerID       string
	TakerID       string
	AggressorSide Side
}

// NewTrade records a single fill between an incoming order and a resting
// entry it consumed.
func NewTrade(symbol string, price, qty float64, maker *OrderBookEntry, taker Order) Trade {
	return Trade{
		ID:            uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		Symbol:        symbol,
		Price:         price,
		Quantity:      qty,
		MakerID:       maker.OrderID,
		TakerID:       taker.ID,
		AggressorSide: taker.Side,
	}
}

// BuyOrderID and SellOrderID are convenience accessors derived from
// maker/taker and aggressor side.
func (t Trade) BuyOrderID() string {
	if t.AggressorSide == Buy {
		return t.TakerID
	}
	return t.MakerID
}

func (t Trade) SellOrderID() string {
	if t.AggressorSide == Sell {
		return t.TakerID
	}
	return t.MakerID
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{id=%s symbol=%s price=%.8f qty=%.8f maker=%s taker=%s aggressor=%s ts=%s}",
		t.ID, t.Symbol, t.Price, t.Quantity, t.MakerID, t.TakerID, t.AggressorSide,
		t.Timestamp.Format(time.RFC3339Nano),
	)
}
