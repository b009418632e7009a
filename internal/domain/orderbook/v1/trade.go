package orderbookv1

import "github.com/shopspring/decimal"

// Trade is a single crossing event between a buy and a sell order.
// The price is always the resting (maker) order's price.
type Trade struct {
	BuyOrderID  string          `json:"buyOrderID"`
	SellOrderID string          `json:"sellOrderID"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// PriceLevel is an aggregate view of all resting orders at one price on one side.
// Derived on demand from the live book, never stored.
type PriceLevel struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"orderCount"`
}

// MatchResult is the outcome of placing one order: the order's state after
// matching and the trades it produced, in execution order.
type MatchResult struct {
	Order  *Order  `json:"order"`
	Trades []Trade `json:"trades"`
}

// HasMatched reports whether the placement produced at least one trade.
func (r *MatchResult) HasMatched() bool {
	return len(r.Trades) > 0
}

// Snapshot is a point-in-time depth view of one instrument's book.
// Bids are ordered by price descending, asks ascending.
type Snapshot struct {
	Symbol string       `json:"symbol"`
	Bids   []PriceLevel `json:"bids"`
	Asks   []PriceLevel `json:"asks"`
}
