package engine

import (
	"fmt"
	"sync"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/matching-core/internal/usecase/orderbook"
)

// bookHandle pairs a book with its instrument lock. Mutating operations take
// the write lock, so at most one placement or cancel runs per instrument at
// a time; snapshots and lookups share the read lock and never observe a
// half-applied match.
type bookHandle struct {
	mu   sync.RWMutex
	book *orderbook.Book
}

// Engine is the multi-instrument facade over per-symbol books. Books are
// created lazily on first reference and never removed. Operations on
// different symbols run fully in parallel; there is no global lock on the
// matching path.
type Engine struct {
	mu    sync.RWMutex // guards the books map only
	books map[string]*bookHandle
}

// NewEngine creates an engine with no books.
func NewEngine() *Engine {
	return &Engine{
		books: make(map[string]*bookHandle),
	}
}

var _ orderbookv1.Engine = (*Engine)(nil)

// PlaceOrder matches the order against its symbol's book, creating the book
// if this is the first order for the symbol.
func (e *Engine) PlaceOrder(order *orderbookv1.Order) (*orderbookv1.MatchResult, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if order.Symbol == "" {
		return nil, orderbookv1.ErrEmptySymbol
	}

	handle := e.handleFor(order.Symbol)

	handle.mu.Lock()
	defer handle.mu.Unlock()

	return handle.book.AddOrder(order)
}

// CancelOrder cancels a resting order. Returns false for an unknown symbol or
// order id.
func (e *Engine) CancelOrder(symbol, orderID string) bool {
	handle, exists := e.lookup(symbol)
	if !exists {
		return false
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	return handle.book.CancelOrder(orderID)
}

// GetSnapshot returns up to depth levels per side. A symbol that has never
// seen an order yields an empty snapshot, not an error.
func (e *Engine) GetSnapshot(symbol string, depth int) (*orderbookv1.Snapshot, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: got %d", orderbookv1.ErrInvalidDepth, depth)
	}

	handle, exists := e.lookup(symbol)
	if !exists {
		return &orderbookv1.Snapshot{
			Symbol: symbol,
			Bids:   []orderbookv1.PriceLevel{},
			Asks:   []orderbookv1.PriceLevel{},
		}, nil
	}

	handle.mu.RLock()
	defer handle.mu.RUnlock()

	return handle.book.GetSnapshot(depth)
}

// OrderExists reports whether the order is resting in the symbol's book.
func (e *Engine) OrderExists(symbol, orderID string) bool {
	handle, exists := e.lookup(symbol)
	if !exists {
		return false
	}

	handle.mu.RLock()
	defer handle.mu.RUnlock()

	return handle.book.ExistsOrder(orderID)
}

// GetOrderCount returns the number of resting orders for the symbol.
func (e *Engine) GetOrderCount(symbol string) int {
	handle, exists := e.lookup(symbol)
	if !exists {
		return 0
	}

	handle.mu.RLock()
	defer handle.mu.RUnlock()

	return handle.book.OrderCount()
}

// Symbols returns the symbols that have a book, in no particular order.
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// handleFor returns the handle for symbol, creating it if needed
// (double-checked locking so the read path stays cheap).
func (e *Engine) handleFor(symbol string) *bookHandle {
	e.mu.RLock()
	handle, exists := e.books[symbol]
	e.mu.RUnlock()

	if exists {
		return handle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if handle, exists = e.books[symbol]; exists {
		return handle
	}

	handle = &bookHandle{book: orderbook.NewBook(symbol)}
	e.books[symbol] = handle
	return handle
}

func (e *Engine) lookup(symbol string) (*bookHandle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	handle, exists := e.books[symbol]
	return handle, exists
}
