// Package book implements one side of a price-time-priority order book: an
// ordered map from price to a FIFO queue of resting entries, backed by
// tidwall/btree.
package book

import (
	"clobengine/internal/common"

	"github.com/tidwall/btree"
)

// Side is one side (bid or ask) of a single symbol's book. The comparator
// chosen by NewBidSide or NewAskSide determines ordering: descending for bids, ascending for
// asks, so that "best" is always the tree's minimum element.
type Side struct {
	levels *btree.BTreeG[*Level]
}

// NewBidSide orders levels from highest to lowest price, so the first
// element under the comparator is the best (highest) bid.
func NewBidSide() *Side {
	return &Side{levels: btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price > b.Price
	})}
}

// NewAskSide orders levels from lowest to highest price, so the first
// element under the comparator is the best (lowest) ask.
func NewAskSide() *Side {
	return &Side{levels: btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price < b.Price
	})}
}

// Best returns the most aggressive level (highest bid / lowest ask) and
// whether one exists.
func (s *Side) Best() (*Level, bool) {
	return s.levels.MinMut()
}

// Level returns the FIFO queue at price, creating an empty one if absent.
func (s *Side) Level(price float64) *Level {
	if lvl, ok := s.levels.GetMut(&Level{Price: price}); ok {
		return lvl
	}
	lvl := &Level{Price: price}
	s.levels.Set(lvl)
	return lvl
}

// RemoveIfEmpty drops the level at price from the tree if its queue has been
// fully consumed. No empty level is ever left resting.
func (s *Side) RemoveIfEmpty(lvl *Level) {
	if lvl.Empty() {
		s.levels.Delete(lvl)
	}
}

// Len reports the number of non-empty price levels.
func (s *Side) Len() int {
	return s.levels.Len()
}

// IterateLevels walks the side from best to worst, invoking fn for each
// level. It stops early if fn returns false. Used for FOK feasibility
// checks and depth snapshots.
func (s *Side) IterateLevels(fn func(*Level) bool) {
	s.levels.Scan(func(lvl *Level) bool {
		return fn(lvl)
	})
}

// Items returns every resting level in best-to-worst order. Intended for
// tests and debug dumps, not the hot path.
func (s *Side) Items() []*Level {
	return s.levels.Items()
}

// Depth returns the top k levels as aggregated (price, quantity) pairs, in
// the side's natural best-to-worst order.
func (s *Side) Depth(k int) []common.DepthLevel {
	out := make([]common.DepthLevel, 0, k)
	s.IterateLevels(func(lvl *Level) bool {
		if len(out) >= k {
			return false
		}
		out = append(out, common.DepthLevel{Price: lvl.Price, Quantity: lvl.Quantity()})
		return true
	})
	return out
}
