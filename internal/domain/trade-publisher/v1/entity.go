package tradepublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// TradeEvent is the wire payload published for every execution.
type TradeEvent struct {
	TradeID     string          `json:"tradeId"`
	Symbol      string          `json:"symbol"`
	BuyOrderID  string          `json:"buyOrderId"`
	SellOrderID string          `json:"sellOrderId"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	TakerSide   string          `json:"takerSide"`
	Timestamp   time.Time       `json:"timestamp"`
}

// CreateFromTrade builds a trade event from an execution and the taker order.
// Trade ids are ULIDs, so events sort lexicographically by creation time.
func CreateFromTrade(trade orderbookv1.Trade, taker *orderbookv1.Order) *TradeEvent {
	event := &TradeEvent{
		TradeID:     ulid.Make().String(),
		Symbol:      taker.Symbol,
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		Price:       trade.Price,
		Quantity:    trade.Quantity,
		Timestamp:   time.Now(),
	}

	if taker.IsBid() {
		event.TakerSide = "buy"
	} else {
		event.TakerSide = "sell"
	}

	return event
}

// ToBytes converts the trade event to a byte array.
func ToBytes(event *TradeEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return buf
}

// FromBytes converts a byte array to a trade event.
func FromBytes(data []byte) *TradeEvent {
	var event TradeEvent
	err := json.Unmarshal(data, &event)
	if err != nil {
		return nil
	}
	return &event
}
