package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/grocer/internal/adapter/broker"
	"github.com/rl1809/grocer/internal/config"
	"github.com/rl1809/grocer/internal/core/service"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus, err := broker.NewEventBus(cfg.AMQPURL, cfg.EventExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect event bus")
	}
	defer eventBus.Close()

	events, err := eventBus.Events(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to events")
	}

	collector := service.NewCollector()
	ticker := time.NewTicker(cfg.StatsInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Dur("stats_interval", cfg.StatsInterval).Msg("analytics listening")

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				log.Warn().Msg("event stream closed")
				report(collector)
				return
			}
			collector.Record(ev)
			log.Info().
				Str("type", string(ev.Type)).
				Str("source", ev.Source).
				Int64("latency_ms", ev.LatencyMS).
				Bool("success", ev.Success).
				Msg("event")
		case <-ticker.C:
			report(collector)
		case <-quit:
			log.Info().Msg("shutting down")
			report(collector)
			return
		}
	}
}

func report(collector *service.Collector) {
	snapshot := collector.Snapshot()
	if len(snapshot) == 0 {
		log.Info().Msg("no events yet")
		return
	}
	for typ, stats := range snapshot {
		log.Info().
			Str("type", string(typ)).
			Int64("count", stats.Count).
			Int64("succeeded", stats.Succeeded).
			Int64("min_ms", stats.MinMS).
			Float64("mean_ms", stats.MeanMS()).
			Int64("max_ms", stats.MaxMS).
			Msg("stats")
	}
}
