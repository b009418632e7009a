package orderbook

import (
	"container/list"
	"fmt"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// priceLevel holds the FIFO queue of resting orders at one price.
// Queue order is insertion order and is the sole source of time priority.
type priceLevel struct {
	price  decimal.Decimal
	orders *list.List // of *orderbookv1.Order
}

func newPriceLevel(price decimal.Decimal) *priceLevel {
	return &priceLevel{
		price:  price,
		orders: list.New(),
	}
}

// Book is the matching core for a single instrument: two price-ordered sides
// of FIFO queues plus an id index for O(1) cancel and lookup.
//
// The Book itself is not safe for concurrent use. Callers must guarantee at
// most one mutating operation in flight per instrument; the Engine facade
// does this with a per-instrument lock.
type Book struct {
	symbol string
	bids   *btree.BTreeG[*priceLevel] // best bid first (price descending)
	asks   *btree.BTreeG[*priceLevel] // best ask first (price ascending)
	index  map[string]*orderbookv1.Order
}

// NewBook creates an empty book for the given symbol.
func NewBook(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price.GreaterThan(b.price)
		}),
		asks: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price.LessThan(b.price)
		}),
		index: make(map[string]*orderbookv1.Order),
	}
}

// Symbol returns the instrument this book serves.
func (b *Book) Symbol() string {
	return b.symbol
}

// AddOrder crosses the incoming order against the opposite side under
// price-time priority and rests any unfilled remainder. The returned result
// carries a snapshot of the incoming order, so the caller never aliases an
// order the book keeps mutating.
func (b *Book) AddOrder(order *orderbookv1.Order) (*orderbookv1.MatchResult, error) {
	if err := b.validateIncoming(order); err != nil {
		return nil, err
	}

	trades, err := b.match(order)
	if err != nil {
		return nil, err
	}

	if order.IsActive() {
		b.rest(order)
	}

	return &orderbookv1.MatchResult{
		Order:  order.Clone(),
		Trades: trades,
	}, nil
}

// CancelOrder removes a resting order from its queue and index and cancels it.
// Returns false when the id is unknown; an unknown id is a normal outcome.
func (b *Book) CancelOrder(orderID string) bool {
	order, exists := b.index[orderID]
	if !exists {
		return false
	}

	side := b.sideFor(order)
	if level, ok := side.Get(&priceLevel{price: order.Price}); ok {
		for el := level.orders.Front(); el != nil; el = el.Next() {
			if el.Value.(*orderbookv1.Order) == order {
				level.orders.Remove(el)
				break
			}
		}
		if level.orders.Len() == 0 {
			side.Delete(level)
		}
	}

	delete(b.index, orderID)

	// The index only holds active orders, so Cancel cannot fail here.
	_ = order.Cancel()

	return true
}

// GetSnapshot returns up to depth levels per side, bids descending and asks
// ascending by price. Read-only traversal of the live book.
func (b *Book) GetSnapshot(depth int) (*orderbookv1.Snapshot, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: got %d", orderbookv1.ErrInvalidDepth, depth)
	}

	return &orderbookv1.Snapshot{
		Symbol: b.symbol,
		Bids:   collectLevels(b.bids, depth),
		Asks:   collectLevels(b.asks, depth),
	}, nil
}

// ExistsOrder reports whether the order id is resting in the book.
func (b *Book) ExistsOrder(orderID string) bool {
	_, exists := b.index[orderID]
	return exists
}

// OrderCount returns the number of resting orders.
func (b *Book) OrderCount() int {
	return len(b.index)
}

// match runs the crossing loop: while the incoming order is active and the
// best opposite level crosses, trade against the FIFO head of that level.
func (b *Book) match(incoming *orderbookv1.Order) ([]orderbookv1.Trade, error) {
	var trades []orderbookv1.Trade

	opposite := b.asks
	if !incoming.IsBid() {
		opposite = b.bids
	}

	for incoming.IsActive() {
		best, ok := opposite.Min()
		if !ok {
			break
		}

		if !crosses(incoming, best.price) {
			break
		}

		front := best.orders.Front()
		resting := front.Value.(*orderbookv1.Order)

		tradeQty := decimal.Min(incoming.RemainingQuantity(), resting.RemainingQuantity())
		if err := incoming.Fill(tradeQty); err != nil {
			return trades, err
		}
		if err := resting.Fill(tradeQty); err != nil {
			return trades, err
		}

		trades = append(trades, newTrade(incoming, resting, best.price, tradeQty))

		if !resting.IsActive() {
			best.orders.Remove(front)
			delete(b.index, resting.ID)
			if best.orders.Len() == 0 {
				opposite.Delete(best)
			}
		}
	}

	return trades, nil
}

// rest inserts the order at the tail of its price level, creating the level
// if absent, and records it in the index.
func (b *Book) rest(order *orderbookv1.Order) {
	side := b.sideFor(order)

	level, ok := side.Get(&priceLevel{price: order.Price})
	if !ok {
		level = newPriceLevel(order.Price)
		side.Set(level)
	}

	level.orders.PushBack(order)
	b.index[order.ID] = order
}

func (b *Book) sideFor(order *orderbookv1.Order) *btree.BTreeG[*priceLevel] {
	if order.IsBid() {
		return b.bids
	}
	return b.asks
}

// validateIncoming re-checks the order's construction invariants so a reused
// or hand-mutated instance cannot corrupt the book.
func (b *Book) validateIncoming(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if order.ID == "" {
		return orderbookv1.ErrEmptyOrderID
	}
	if order.Symbol != b.symbol {
		return fmt.Errorf("%w: order %q, book %q", orderbookv1.ErrSymbolMismatch, order.Symbol, b.symbol)
	}
	if order.Side != orderbookv1.SideBuy && order.Side != orderbookv1.SideSell {
		return fmt.Errorf("%w: got %q", orderbookv1.ErrInvalidSide, order.Side)
	}
	if !order.Price.IsPositive() {
		return fmt.Errorf("%w: got %s", orderbookv1.ErrInvalidPrice, order.Price)
	}
	if !order.Quantity.IsPositive() {
		return fmt.Errorf("%w: got %s", orderbookv1.ErrInvalidQuantity, order.Quantity)
	}
	if !order.IsActive() {
		return orderbookv1.ErrOrderNotActive
	}
	if _, exists := b.index[order.ID]; exists {
		return fmt.Errorf("%w: %s", orderbookv1.ErrDuplicateOrder, order.ID)
	}
	return nil
}

// crosses reports whether the incoming order's limit is aggressive enough to
// trade at the given opposite price.
func crosses(incoming *orderbookv1.Order, oppositePrice decimal.Decimal) bool {
	if incoming.IsBid() {
		return incoming.Price.GreaterThanOrEqual(oppositePrice)
	}
	return incoming.Price.LessThanOrEqual(oppositePrice)
}

// newTrade builds a trade at the maker's price.
func newTrade(incoming, resting *orderbookv1.Order, price, qty decimal.Decimal) orderbookv1.Trade {
	trade := orderbookv1.Trade{
		Price:    price,
		Quantity: qty,
	}
	if incoming.IsBid() {
		trade.BuyOrderID = incoming.ID
		trade.SellOrderID = resting.ID
	} else {
		trade.BuyOrderID = resting.ID
		trade.SellOrderID = incoming.ID
	}
	return trade
}

func collectLevels(side *btree.BTreeG[*priceLevel], depth int) []orderbookv1.PriceLevel {
	levels := make([]orderbookv1.PriceLevel, 0, depth)
	side.Scan(func(level *priceLevel) bool {
		if len(levels) >= depth {
			return false
		}

		total := decimal.Zero
		for el := level.orders.Front(); el != nil; el = el.Next() {
			total = total.Add(el.Value.(*orderbookv1.Order).RemainingQuantity())
		}

		levels = append(levels, orderbookv1.PriceLevel{
			Price:      level.price,
			Quantity:   total,
			OrderCount: level.orders.Len(),
		})
		return true
	})
	return levels
}
