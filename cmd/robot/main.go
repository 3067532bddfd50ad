package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/grocer/internal/adapter/broker"
	"github.com/rl1809/grocer/internal/adapter/client"
	"github.com/rl1809/grocer/internal/config"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	aisle := domain.Aisle(cfg.RobotAisle)
	if !validAisle(aisle) {
		log.Fatal().Str("aisle", cfg.RobotAisle).Msg("GROCER_ROBOT_AISLE must name a store aisle")
	}
	robotID := cfg.RobotID
	if robotID == "" {
		robotID = cfg.RobotAisle + "-" + uuid.New().String()[:8]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	taskBus, err := broker.NewTaskBus(cfg.AMQPURL, cfg.TaskExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect task bus")
	}
	defer taskBus.Close()

	tasks, err := taskBus.Tasks(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to tasks")
	}

	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to dial coordinator")
	}
	defer conn.Close()

	robot := service.NewRobot(robotID, aisle, client.NewReporter(conn), cfg.WorkDelay, cfg.ReportAttempts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		robot.Run(ctx, tasks)
	}()
	log.Info().
		Str("robot_id", robotID).
		Str("aisle", cfg.RobotAisle).
		Dur("work_delay", cfg.WorkDelay).
		Msg("robot on duty")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()
	<-done
	log.Info().Str("robot_id", robotID).Msg("robot stopped")
}

func validAisle(aisle domain.Aisle) bool {
	for _, a := range domain.Aisles() {
		if a == aisle {
			return true
		}
	}
	return false
}
