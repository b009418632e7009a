package orderreaderv1

import (
	"github.com/shopspring/decimal"
)

// RequestType discriminates the order stream payloads.
type RequestType string

const (
	// RequestTypePlace places a new limit order.
	RequestTypePlace RequestType = "PLACE"
	// RequestTypeCancel cancels a resting order.
	RequestTypeCancel RequestType = "CANCEL"
)

// OrderRequest is the wire payload consumed from the order topic. Place
// requests carry the full order; cancel requests only need the id and symbol.
type OrderRequest struct {
	Type     RequestType     `json:"type"`
	OrderID  string          `json:"orderId"`
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Offset   int64           `json:"offset"`
}
