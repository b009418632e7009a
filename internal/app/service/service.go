package service

import (
	"context"
	"sync"
	"time"

	depthv1 "github.com/muhammadchandra19/matching-core/internal/domain/depth/v1"
	orderreaderv1 "github.com/muhammadchandra19/matching-core/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/matching-core/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/muhammadchandra19/matching-core/internal/domain/trade-publisher/v1"
	"github.com/muhammadchandra19/matching-core/pkg/errors"
	"github.com/muhammadchandra19/matching-core/pkg/logger"
)

// Service is the main orchestrator: it consumes order requests, drives the
// matching engine, publishes the resulting trades and periodically stores
// depth snapshots for every active symbol.
type Service struct {
	// Core components
	engine         orderbookv1.Engine
	orderReader    orderreaderv1.OrderReader
	depthStore     depthv1.Store
	tradePublisher tradepublisherv1.TradePublisher
	logger         *logger.Logger

	// Simple shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Configuration
	snapshotInterval time.Duration
	snapshotDepth    int

	// Trade statistics
	totalTrades int64
	tradesMutex sync.RWMutex
}

// NewService creates a new instance of Service with the provided dependencies.
func NewService(
	engine orderbookv1.Engine,
	orderReader orderreaderv1.OrderReader,
	depthStore depthv1.Store,
	tradePublisher tradepublisherv1.TradePublisher,
	logger *logger.Logger,
) *Service {
	return NewServiceWithOptions(engine, orderReader, depthStore, tradePublisher, logger, DefaultServiceOptions())
}

// NewServiceWithOptions creates a new service with custom options
func NewServiceWithOptions(
	engine orderbookv1.Engine,
	orderReader orderreaderv1.OrderReader,
	depthStore depthv1.Store,
	tradePublisher tradepublisherv1.TradePublisher,
	logger *logger.Logger,
	options *Options,
) *Service {
	return &Service{
		engine:         engine,
		orderReader:    orderReader,
		depthStore:     depthStore,
		tradePublisher: tradePublisher,
		logger:         logger,

		snapshotInterval: options.SnapshotInterval,
		snapshotDepth:    options.SnapshotDepth,
	}
}

// Start initializes the service and starts processing routines.
func (s *Service) Start(ctx context.Context) error {
	// Create cancellable context
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.runOrderProcessor()
	go s.runDepthSnapshotter()

	s.logger.Info("Matching core started")

	return nil
}

// Stop gracefully shuts down the service
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Matching core stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Service stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines order reading and processing in a single goroutine
func (s *Service) runOrderProcessor() {
	defer s.wg.Done()

	s.logger.Info("Starting order processor")

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Order processor shutting down")
			s.orderReader.Close()
			return
		default:
			// Read message directly
			msg, request, err := s.orderReader.ReadMessage(s.ctx)
			if err != nil {
				s.logger.ErrorContext(s.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			// Commit message
			if err := s.orderReader.CommitMessages(s.ctx, msg); err != nil {
				s.logger.ErrorContext(s.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			// Process request immediately
			if err := s.processRequest(request); err != nil {
				s.logger.ErrorContext(s.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order_request",
				})
				continue
			}
		}
	}
}

// runDepthSnapshotter periodically stores a depth snapshot for every symbol
// that has a book.
func (s *Service) runDepthSnapshotter() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.snapshotInterval)
	defer ticker.Stop()

	s.logger.Info("Starting depth snapshotter")

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Depth snapshotter shutting down")
			return
		case <-ticker.C:
			s.storeDepthSnapshots()
		}
	}
}

// processRequest processes a single order request
func (s *Service) processRequest(request *orderreaderv1.OrderRequest) error {
	s.logger.Debug("Processing order request",
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "orderId", Value: request.OrderID},
		logger.Field{Key: "symbol", Value: request.Symbol},
	)

	switch request.Type {
	case orderreaderv1.RequestTypePlace:
		order, err := orderbookv1.NewOrder(
			request.OrderID,
			request.Symbol,
			orderbookv1.Side(request.Side),
			request.Price,
			request.Quantity,
		)
		if err != nil {
			return errors.NewErrorDetailsWithObject(err.Error(), string(errors.OrderValidationError), "place_order", request)
		}

		result, err := s.engine.PlaceOrder(order)
		if err != nil {
			return errors.NewErrorDetailsWithObject(err.Error(), string(errors.OrderStateError), "place_order", request)
		}

		if result.HasMatched() {
			s.publishTrades(result)
		}
	case orderreaderv1.RequestTypeCancel:
		if !s.engine.CancelOrder(request.Symbol, request.OrderID) {
			// Unknown ids are normal: the order may have been filled already.
			s.logger.Debug("Cancel request for unknown order",
				logger.Field{Key: "orderId", Value: request.OrderID},
				logger.Field{Key: "symbol", Value: request.Symbol},
			)
		}
	}
	return nil
}

// publishTrades publishes the trades of a match result and updates statistics
func (s *Service) publishTrades(result *orderbookv1.MatchResult) {
	s.tradesMutex.Lock()
	s.totalTrades += int64(len(result.Trades))
	currentTotal := s.totalTrades
	s.tradesMutex.Unlock()

	s.logger.Info("Trades executed",
		logger.Field{Key: "tradeCount", Value: len(result.Trades)},
		logger.Field{Key: "totalTrades", Value: currentTotal},
		logger.Field{Key: "takerOrderId", Value: result.Order.ID},
		logger.Field{Key: "takerStatus", Value: result.Order.Status},
	)

	for _, trade := range result.Trades {
		event := tradepublisherv1.CreateFromTrade(trade, result.Order)
		if err := s.tradePublisher.PublishTradeEvent(s.ctx, event); err != nil {
			s.logger.ErrorContext(s.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_trade_event",
			}, logger.Field{
				Key:   "tradeId",
				Value: event.TradeID,
			})
		}
	}
}

// storeDepthSnapshots stores a snapshot for every active symbol
func (s *Service) storeDepthSnapshots() {
	for _, symbol := range s.engine.Symbols() {
		snapshot, err := s.engine.GetSnapshot(symbol, s.snapshotDepth)
		if err != nil {
			s.logger.ErrorContext(s.ctx, err, logger.Field{
				Key:   "action",
				Value: "create_depth_snapshot",
			}, logger.Field{
				Key:   "symbol",
				Value: symbol,
			})
			continue
		}

		if err := s.depthStore.Store(s.ctx, snapshot); err != nil {
			s.logger.ErrorContext(s.ctx, err, logger.Field{
				Key:   "action",
				Value: "store_depth_snapshot",
			}, logger.Field{
				Key:   "symbol",
				Value: symbol,
			})
		}
	}
}

// GetTotalTrades returns the total number of trades published
func (s *Service) GetTotalTrades() int64 {
	s.tradesMutex.RLock()
	defer s.tradesMutex.RUnlock()
	return s.totalTrades
}
