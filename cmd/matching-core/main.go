package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/matching-core/internal/app/service"
	"github.com/muhammadchandra19/matching-core/internal/usecase/depth"
	"github.com/muhammadchandra19/matching-core/internal/usecase/engine"
	orderreader "github.com/muhammadchandra19/matching-core/internal/usecase/order-reader"
	tradepublisher "github.com/muhammadchandra19/matching-core/internal/usecase/trade-publisher"
	"github.com/muhammadchandra19/matching-core/pkg/config"
	"github.com/muhammadchandra19/matching-core/pkg/logger"
	"github.com/muhammadchandra19/matching-core/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = []string{cfg.RedisConfig.Addrs}
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB
	// Initialize Redis client
	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// Initialize components
	eng := engine.NewEngine()
	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	depthStore := depth.NewStore(rclient, redisConfig.PrefixKey, log)
	tradePublisher := tradepublisher.NewPublisher(cfg.TradePublisherConfig, log)
	service := app.NewService(
		eng,
		oReader,
		depthStore,
		tradePublisher,
		log,
	)

	// Start the service
	if err := service.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_service",
		})
		return
	}

	log.Info("Matching core started successfully")

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	// Cancel the main context to signal shutdown
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the service gracefully
	if err := service.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_service",
		})
	}

	// Flush the trade publisher
	if err := tradePublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_trade_publisher",
		})
	}

	// Disconnect the Redis client
	if err := rclient.Disconnect(context.Background()); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Matching core shutdown complete")
}
