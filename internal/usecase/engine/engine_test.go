package engine

import (
	"fmt"
	"sync"
	"testing"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrder(t *testing.T, id, symbol string, side orderbookv1.Side, price, qty string) *orderbookv1.Order {
	t.Helper()
	order, err := orderbookv1.NewOrder(id, symbol, side, dec(price), dec(qty))
	require.NoError(t, err)
	return order
}

func TestEngine_PlaceOrder(t *testing.T) {
	t.Run("creates a book per symbol", func(t *testing.T) {
		eng := NewEngine()

		_, err := eng.PlaceOrder(newOrder(t, "b1", "BTC/USD", orderbookv1.SideBuy, "100", "10"))
		require.NoError(t, err)
		_, err = eng.PlaceOrder(newOrder(t, "e1", "ETH/USD", orderbookv1.SideBuy, "50", "10"))
		require.NoError(t, err)

		assert.Equal(t, 1, eng.GetOrderCount("BTC/USD"))
		assert.Equal(t, 1, eng.GetOrderCount("ETH/USD"))
		assert.ElementsMatch(t, []string{"BTC/USD", "ETH/USD"}, eng.Symbols())
	})

	t.Run("orders never cross between symbols", func(t *testing.T) {
		eng := NewEngine()

		_, err := eng.PlaceOrder(newOrder(t, "s1", "BTC/USD", orderbookv1.SideSell, "100", "10"))
		require.NoError(t, err)

		result, err := eng.PlaceOrder(newOrder(t, "b1", "ETH/USD", orderbookv1.SideBuy, "100", "10"))
		require.NoError(t, err)

		assert.False(t, result.HasMatched())
		assert.True(t, eng.OrderExists("BTC/USD", "s1"))
		assert.True(t, eng.OrderExists("ETH/USD", "b1"))
	})

	t.Run("matches within a symbol", func(t *testing.T) {
		eng := NewEngine()

		_, err := eng.PlaceOrder(newOrder(t, "s1", "BTC/USD", orderbookv1.SideSell, "100", "10"))
		require.NoError(t, err)

		result, err := eng.PlaceOrder(newOrder(t, "b1", "BTC/USD", orderbookv1.SideBuy, "100", "10"))
		require.NoError(t, err)

		require.Len(t, result.Trades, 1)
		assert.Equal(t, orderbookv1.StatusFilled, result.Order.Status)
		assert.Equal(t, 0, eng.GetOrderCount("BTC/USD"))
	})

	t.Run("nil order", func(t *testing.T) {
		eng := NewEngine()
		_, err := eng.PlaceOrder(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
	})

	t.Run("empty symbol", func(t *testing.T) {
		eng := NewEngine()
		order := newOrder(t, "o1", "BTC/USD", orderbookv1.SideBuy, "100", "10")
		order.Symbol = ""
		_, err := eng.PlaceOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrEmptySymbol)
	})
}

func TestEngine_CancelOrder(t *testing.T) {
	eng := NewEngine()

	_, err := eng.PlaceOrder(newOrder(t, "s1", "BTC/USD", orderbookv1.SideSell, "100", "10"))
	require.NoError(t, err)

	assert.True(t, eng.CancelOrder("BTC/USD", "s1"))
	assert.False(t, eng.CancelOrder("BTC/USD", "s1"))
	assert.False(t, eng.CancelOrder("BTC/USD", "missing"))
	assert.False(t, eng.CancelOrder("ETH/USD", "s1"))
}

func TestEngine_GetSnapshot(t *testing.T) {
	t.Run("unknown symbol yields an empty snapshot", func(t *testing.T) {
		eng := NewEngine()

		snapshot, err := eng.GetSnapshot("BTC/USD", 10)
		require.NoError(t, err)
		assert.Equal(t, "BTC/USD", snapshot.Symbol)
		assert.Empty(t, snapshot.Bids)
		assert.Empty(t, snapshot.Asks)
	})

	t.Run("non-positive depth", func(t *testing.T) {
		eng := NewEngine()
		_, err := eng.GetSnapshot("BTC/USD", 0)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidDepth)
	})

	t.Run("reflects resting orders", func(t *testing.T) {
		eng := NewEngine()

		_, err := eng.PlaceOrder(newOrder(t, "b1", "BTC/USD", orderbookv1.SideBuy, "99", "10"))
		require.NoError(t, err)
		_, err = eng.PlaceOrder(newOrder(t, "s1", "BTC/USD", orderbookv1.SideSell, "101", "5"))
		require.NoError(t, err)

		snapshot, err := eng.GetSnapshot("BTC/USD", 10)
		require.NoError(t, err)
		require.Len(t, snapshot.Bids, 1)
		require.Len(t, snapshot.Asks, 1)
		assert.True(t, snapshot.Bids[0].Price.Equal(dec("99")))
		assert.True(t, snapshot.Asks[0].Price.Equal(dec("101")))
	})
}

// Concurrent placements across many symbols must leave every book with
// exactly the orders placed into it.
func TestEngine_ConcurrentSymbols(t *testing.T) {
	eng := NewEngine()

	const symbols = 8
	const perSymbol = 50

	var wg sync.WaitGroup
	for s := 0; s < symbols; s++ {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			symbol := fmt.Sprintf("SYM%d/USD", s)
			for i := 0; i < perSymbol; i++ {
				order, err := orderbookv1.NewOrder(
					fmt.Sprintf("%s-o%d", symbol, i),
					symbol,
					orderbookv1.SideBuy,
					dec(fmt.Sprintf("%d", 100+i)),
					dec("1"),
				)
				if !assert.NoError(t, err) {
					return
				}
				_, err = eng.PlaceOrder(order)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for s := 0; s < symbols; s++ {
		symbol := fmt.Sprintf("SYM%d/USD", s)
		assert.Equal(t, perSymbol, eng.GetOrderCount(symbol))
	}
}

// Concurrent mixed traffic on a single symbol must keep the book consistent:
// the engine serializes mutations per instrument.
func TestEngine_ConcurrentSameSymbol(t *testing.T) {
	eng := NewEngine()

	const writers = 4
	const perWriter = 100

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				side := orderbookv1.SideBuy
				price := fmt.Sprintf("%d", 90-i%10)
				if i%2 == 0 {
					side = orderbookv1.SideSell
					price = fmt.Sprintf("%d", 110+i%10)
				}
				order, err := orderbookv1.NewOrder(
					fmt.Sprintf("w%d-o%d", w, i),
					"BTC/USD",
					side,
					dec(price),
					dec("1"),
				)
				if !assert.NoError(t, err) {
					return
				}
				_, err = eng.PlaceOrder(order)
				assert.NoError(t, err)

				// Reads interleave with writes.
				_, err = eng.GetSnapshot("BTC/USD", 5)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// Prices never crossed, so every order is still resting.
	assert.Equal(t, writers*perWriter, eng.GetOrderCount("BTC/USD"))
}
