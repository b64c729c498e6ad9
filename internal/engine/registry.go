package engine

import (
	"sync"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Registry lazily creates one Book per symbol and routes lookups to it.
// Creation is race-free: concurrent callers asking for an unseen symbol
// block on the same mutex and receive the same *Book.
type Registry struct {
	mu          sync.Mutex
	books       map[string]*Book
	t           *tomb.Tomb
	tradeLogCap int
}

// NewRegistry builds an empty registry. Every book it creates is supervised
// under t, so stopping t stops every book's writer goroutine. tradeLogCap is
// passed through to every book it creates; a value <= 0 falls back to
// defaultTradeLogCap.
func NewRegistry(t *tomb.Tomb, tradeLogCap int) *Registry {
	if tradeLogCap <= 0 {
		tradeLogCap = defaultTradeLogCap
	}
	return &Registry{
		books:       make(map[string]*Book),
		t:           t,
		tradeLogCap: tradeLogCap,
	}
}

// GetOrCreate returns the book for symbol, creating and starting it on
// first reference.
func (r *Registry) GetOrCreate(symbol string) *Book {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.books[symbol]; ok {
		return b
	}

	b := NewBook(symbol, r.tradeLogCap)
	r.books[symbol] = b
	log.Info().Str("symbol", symbol).Msg("book created")
	r.t.Go(func() error {
		return b.Run(r.t)
	})
	return b
}

// Lookup returns the book for symbol without creating it.
func (r *Registry) Lookup(symbol string) (*Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[symbol]
	return b, ok
}

// Symbols returns every symbol with a live book, for dashboard listings.
func (r *Registry) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}
