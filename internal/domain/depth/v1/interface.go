package depthv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
)

// Store defines the interface for storing and loading depth snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=depthv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *orderbookv1.Snapshot) error
	Load(ctx context.Context, symbol string) (*orderbookv1.Snapshot, error)
}
