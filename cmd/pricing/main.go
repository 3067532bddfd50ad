package main

import (
	"context"
	"database/sql"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/rl1809/grocer/internal/adapter/handler"
	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/adapter/storage"
	"github.com/rl1809/grocer/internal/config"
	"github.com/rl1809/grocer/internal/core/service"
	"github.com/rl1809/grocer/internal/port"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	var source port.PriceSource
	switch cfg.Prices {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open mysql")
		}
		defer db.Close()
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ping mysql")
		}

		book := storage.NewMySQLPriceBook(db)
		if err := book.Load(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to load prices")
		}
		source = book
	default:
		source = storage.NewStaticPriceBook()
	}
	log.Info().Str("source", cfg.Prices).Msg("price book ready")

	grpcServer := grpc.NewServer()
	rpc.RegisterPricingServer(grpcServer, handler.NewPricingHandler(service.NewPricebook(source)))

	lis, err := net.Listen("tcp", cfg.PricingAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.PricingAddr).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.PricingAddr).Msg("pricing listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	grpcServer.GracefulStop()
	log.Info().Msg("pricing stopped")
}
