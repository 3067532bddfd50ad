package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/grocer/internal/adapter/broker"
	"github.com/rl1809/grocer/internal/adapter/handler"
	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to dial coordinator")
	}
	defer conn.Close()

	eventBus, err := broker.NewEventBus(cfg.AMQPURL, cfg.EventExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect event bus")
	}
	defer eventBus.Close()

	httpHandler := handler.NewHTTPHandler(rpc.NewInventoryClient(conn), eventBus, cfg.UpstreamTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.UpstreamTimeout + 5*time.Second))
	r.Get("/healthz", httpHandler.HealthCheck)
	r.Post("/api/orders", httpHandler.PlaceOrder)
	r.Post("/api/restocks", httpHandler.PlaceRestock)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: cors.AllowAll().Handler(r),
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("gateway listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info().Msg("gateway stopped")
}
