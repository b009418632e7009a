package depth

import (
	"context"
	"encoding/json"
	"fmt"

	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/matching-core/pkg/errors"
	"github.com/muhammadchandra19/matching-core/pkg/logger"
	"github.com/muhammadchandra19/matching-core/pkg/redis"
)

// Store persists depth snapshots in Redis, one key per symbol.
type Store struct {
	prefix      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore creates a new depth store backed by the given Redis client. Keys
// are prefixed so several deployments can share one Redis.
func NewStore(redisclient redis.Client, prefix string, logger *logger.Logger) *Store {
	return &Store{
		prefix:      prefix,
		redisclient: redisclient,
		logger:      logger,
	}
}

// Store serializes the snapshot and stores it under the symbol's key.
func (s *Store) Store(ctx context.Context, snapshot *orderbookv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: snapshot.Symbol,
		})
		return errors.NewTracer(string(errors.DepthStoreError)).Wrap(err)
	}

	err = s.redisclient.Set(ctx, s.key(snapshot.Symbol), buf, 0)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: snapshot.Symbol,
		})

		return errors.NewTracer(string(errors.DepthStoreError)).Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("Depth snapshot stored for %s", snapshot.Symbol), logger.Field{
		Key:   "symbol",
		Value: snapshot.Symbol,
	}, logger.Field{
		Key:   "action",
		Value: "store depth snapshot",
	})
	return nil
}

// Load reads the snapshot for the symbol. A missing key yields a nil snapshot
// and no error.
func (s *Store) Load(ctx context.Context, symbol string) (*orderbookv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key(symbol))
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: symbol,
		}, logger.Field{
			Key:   "action",
			Value: "load depth snapshot",
		})
		return nil, errors.NewTracer(string(errors.DepthLoadError)).Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No depth snapshot found for %s", symbol), logger.Field{
			Key:   "symbol",
			Value: symbol,
		})
		return nil, nil
	}

	var snapshot orderbookv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: symbol,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal depth snapshot",
		})
		return nil, errors.NewTracer(string(errors.DepthLoadError)).Wrap(err)
	}

	return &snapshot, nil
}

func (s *Store) key(symbol string) string {
	return s.prefix + "depth:" + symbol
}
