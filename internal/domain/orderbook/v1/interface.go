package orderbookv1

// Engine defines the instrument-scoped operations of the matching core.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Engine interface {
	// PlaceOrder matches the order against the book for its symbol and rests
	// any unfilled remainder.
	PlaceOrder(order *Order) (*MatchResult, error)
	// CancelOrder cancels a resting order. Returns false when the order is
	// unknown; an unknown id is a normal outcome, not an error.
	CancelOrder(symbol, orderID string) bool
	// GetSnapshot returns up to depth price levels per side.
	GetSnapshot(symbol string, depth int) (*Snapshot, error)
	// OrderExists reports whether the order is resting in the book.
	OrderExists(symbol, orderID string) bool
	// GetOrderCount returns the number of resting orders for the symbol.
	GetOrderCount(symbol string) int
	// Symbols returns the symbols that have a book.
	Symbols() []string
}
