package book

import "clobengine/internal/common"

// Level is the FIFO queue of resting entries at a single price. All entries
// share Price; the queue is removed from its side once it empties.
type Level struct {
	Price  float64
	Orders []*common.OrderBookEntry
}

// Front returns the earliest-arrived entry, or nil if the level is empty.
func (l *Level) Front() *common.OrderBookEntry {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopFront removes the earliest-arrived entry.
func (l *Level) PopFront() {
	if len(l.Orders) == 0 {
		return
	}
	l.Orders = l.Orders[1:]
}

// Append adds a new resting entry to the tail of the queue (arrival order).
func (l *Level) Append(e *common.OrderBookEntry) {
	l.Orders = append(l.Orders, e)
}

// Quantity sums the remaining quantity of every resting entry in the level.
func (l *Level) Quantity() float64 {
	var total float64
	for _, o := range l.Orders {
		total += o.Quantity
	}
	return total
}

// Empty reports whether the level's queue has no resting entries left.
func (l *Level) Empty() bool {
	return len(l.Orders) == 0
}
