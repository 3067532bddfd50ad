package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/grocer/internal/adapter/broker"
	"github.com/rl1809/grocer/internal/adapter/client"
	"github.com/rl1809/grocer/internal/adapter/handler"
	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/adapter/storage"
	"github.com/rl1809/grocer/internal/config"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
	"github.com/rl1809/grocer/internal/port"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := domain.DefaultCatalog()

	// Ledger backend
	var ledger port.StockLedger
	switch cfg.Ledger {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable")
		}
		defer rdb.Close()

		redisLedger := storage.NewRedisLedger(rdb)
		for _, item := range catalog.Items() {
			if err := redisLedger.SetStock(ctx, item, cfg.InitialStock); err != nil {
				log.Fatal().Err(err).Str("item", item).Msg("failed to seed stock")
			}
		}
		ledger = redisLedger
	default:
		ledger = storage.NewMemoryLedger(catalog, cfg.InitialStock)
	}
	log.Info().
		Str("backend", cfg.Ledger).
		Int("items", len(catalog.Items())).
		Int("initial_stock", cfg.InitialStock).
		Msg("ledger seeded")

	// Task broadcast
	taskBus, err := broker.NewTaskBus(cfg.AMQPURL, cfg.TaskExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect task bus")
	}
	defer taskBus.Close()

	// Pricing client
	pricingConn, err := grpc.NewClient(cfg.PricingAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.PricingAddr).Msg("failed to dial pricing")
	}
	defer pricingConn.Close()

	aggregator := service.NewReplyAggregator(cfg.OrderTimeout)
	dispatcher := service.NewTaskDispatcher(catalog, taskBus, aggregator)
	coordinator := service.NewOrderCoordinator(catalog, ledger, dispatcher, client.NewPricing(pricingConn))

	grpcServer := grpc.NewServer()
	grpcHandler := handler.NewGRPCHandler(coordinator, aggregator)
	rpc.RegisterInventoryServer(grpcServer, grpcHandler)
	rpc.RegisterRobotReportsServer(grpcServer, grpcHandler)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Dur("order_timeout", cfg.OrderTimeout).Msg("coordinator listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	grpcServer.GracefulStop()
	log.Info().Msg("coordinator stopped")
}
