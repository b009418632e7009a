package orderbook

import (
	"fmt"
	"testing"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

type benchmarkTestCase struct {
	name      string
	setupData func(*Book, *testing.B)
	operation func(*Book, int)
}

func benchOrder(id string, side orderbookv1.Side, price, qty float64) *orderbookv1.Order {
	order, err := orderbookv1.NewOrder(
		id,
		"BTC/USD",
		side,
		decimal.NewFromFloat(price),
		decimal.NewFromFloat(qty),
	)
	if err != nil {
		panic(err)
	}
	return order
}

func BenchmarkBook_AddOrder(b *testing.B) {
	testCases := []benchmarkTestCase{
		{
			name:      "resting_orders_no_match",
			setupData: func(book *Book, b *testing.B) {},
			operation: func(book *Book, i int) {
				side := orderbookv1.SideBuy
				price := 49000.0 - float64(i%100)
				if i%2 == 0 {
					side = orderbookv1.SideSell
					price = 51000.0 + float64(i%100)
				}
				_, _ = book.AddOrder(benchOrder(fmt.Sprintf("o%d", i), side, price, 10))
			},
		},
		{
			name: "crossing_orders",
			setupData: func(book *Book, b *testing.B) {
				for i := 0; i < 1000; i++ {
					_, _ = book.AddOrder(benchOrder(fmt.Sprintf("liq%d", i), orderbookv1.SideSell, 50000.0+float64(i), 1000))
				}
			},
			operation: func(book *Book, i int) {
				_, _ = book.AddOrder(benchOrder(fmt.Sprintf("taker%d", i), orderbookv1.SideBuy, 51000, 1))
			},
		},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			book := NewBook("BTC/USD")
			tc.setupData(book, b)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				tc.operation(book, i)
			}
		})
	}
}

func BenchmarkBook_CancelOrder(b *testing.B) {
	book := NewBook("BTC/USD")
	for i := 0; i < b.N; i++ {
		_, _ = book.AddOrder(benchOrder(fmt.Sprintf("o%d", i), orderbookv1.SideBuy, 49000.0-float64(i%500), 10))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		book.CancelOrder(fmt.Sprintf("o%d", i))
	}
}

func BenchmarkBook_GetSnapshot(b *testing.B) {
	sizes := []int{100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("orders_%d", size), func(b *testing.B) {
			book := NewBook("BTC/USD")
			for i := 0; i < size; i++ {
				side := orderbookv1.SideBuy
				price := 49000.0 - float64(i%50)
				if i%2 == 0 {
					side = orderbookv1.SideSell
					price = 51000.0 + float64(i%50)
				}
				_, _ = book.AddOrder(benchOrder(fmt.Sprintf("o%d", i), side, price, 10))
			}

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = book.GetSnapshot(10)
			}
		})
	}
}
