package orderbookv1

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilOrder is returned when a nil order is passed to the book.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrEmptyOrderID is returned when an order is created without an id.
	ErrEmptyOrderID = errors.New("order id cannot be empty")
	// ErrEmptySymbol is returned when an order is created without a symbol.
	ErrEmptySymbol = errors.New("symbol cannot be empty")
	// ErrInvalidSide is returned when an order side is neither BUY nor SELL.
	ErrInvalidSide = errors.New("side must be BUY or SELL")
	// ErrInvalidPrice is returned when a price is zero or negative.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidQuantity is returned when a quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrOverfill is returned when a fill would exceed the order's remaining quantity.
	ErrOverfill = errors.New("fill quantity exceeds remaining quantity")
	// ErrOrderTerminal is returned when filling an order that is already filled or cancelled.
	ErrOrderTerminal = errors.New("cannot fill a filled or cancelled order")
	// ErrCancelFilled is returned when cancelling an order that is already filled.
	ErrCancelFilled = errors.New("cannot cancel a filled order")
	// ErrDuplicateOrder is returned when an order id is already resting in the book.
	ErrDuplicateOrder = errors.New("order id already exists in the book")
	// ErrOrderNotActive is returned when placing an order that is already terminal.
	ErrOrderNotActive = errors.New("order is not active")
	// ErrSymbolMismatch is returned when an order is placed into a book for another symbol.
	ErrSymbolMismatch = errors.New("order symbol does not match book symbol")
	// ErrInvalidDepth is returned when a snapshot is requested with a non-positive depth.
	ErrInvalidDepth = errors.New("depth must be positive")
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "BUY"
	// SideSell represents a sell (ask) order.
	SideSell Side = "SELL"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusPending means the order has not been filled at all.
	StatusPending Status = "PENDING"
	// StatusPartiallyFilled means the order has been filled for part of its quantity.
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	// StatusFilled means the order has been filled completely. Terminal.
	StatusFilled Status = "FILLED"
	// StatusCancelled means the order was cancelled before completion. Terminal.
	StatusCancelled Status = "CANCELLED"
)

// Order is a single limit order, resting in the book or crossing against it.
// The book is the only mutator once the order has been placed.
type Order struct {
	ID             string          `json:"id"`
	Symbol         string          `json:"symbol"`
	Side           Side            `json:"side"`
	Price          decimal.Decimal `json:"price"`
	Quantity       decimal.Decimal `json:"quantity"`
	FilledQuantity decimal.Decimal `json:"filledQuantity"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewOrder creates a new pending order, validating every argument before
// constructing it.
func NewOrder(id, symbol string, side Side, price, quantity decimal.Decimal) (*Order, error) {
	if id == "" {
		return nil, ErrEmptyOrderID
	}
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if side != SideBuy && side != SideSell {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSide, side)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPrice, price)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuantity, quantity)
	}

	now := time.Now()
	return &Order{
		ID:             id,
		Symbol:         symbol,
		Side:           side,
		Price:          price,
		Quantity:       quantity,
		FilledQuantity: decimal.Zero,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Fill records qty as executed against this order. Validation happens before
// any mutation, so a failed fill leaves the order untouched.
func (o *Order) Fill(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidQuantity, qty)
	}
	if o.Status == StatusFilled || o.Status == StatusCancelled {
		return ErrOrderTerminal
	}

	newFilled := o.FilledQuantity.Add(qty)
	if newFilled.GreaterThan(o.Quantity) {
		return fmt.Errorf("%w: remaining %s, fill %s", ErrOverfill, o.RemainingQuantity(), qty)
	}

	o.FilledQuantity = newFilled
	o.UpdatedAt = time.Now()

	if o.FilledQuantity.Equal(o.Quantity) {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
	return nil
}

// Cancel moves the order to CANCELLED. Cancelling an already-cancelled order
// is a no-op; cancelling a filled order is a state error.
func (o *Order) Cancel() error {
	if o.Status == StatusFilled {
		return ErrCancelFilled
	}
	if o.Status == StatusCancelled {
		return nil
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// RemainingQuantity returns the quantity still open for matching.
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// IsActive reports whether the order can still trade.
func (o *Order) IsActive() bool {
	return o.Status == StatusPending || o.Status == StatusPartiallyFilled
}

// IsBid reports whether the order is on the buy side.
func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// Clone returns a copy of the order. Results handed back to callers carry
// clones so the book can keep mutating the resting original.
func (o *Order) Clone() *Order {
	clone := *o
	return &clone
}
