package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightapi/config"
	"github.com/Domenick1991/flightapi/internal/bootstrap"
	"github.com/Domenick1991/flightapi/internal/kafka"
	"github.com/Domenick1991/flightapi/internal/logger"
	"github.com/Domenick1991/flightapi/internal/migrations"
	"github.com/Domenick1991/flightapi/internal/repository"
	"github.com/Domenick1991/flightapi/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, "api")
	appLog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		appLog.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(ctx, pool, appLog); err != nil {
			appLog.Fatal().Err(err).Msg("migrate database")
		}
	}

	var opts []flights.FlightServiceOption
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.FlightEventsTopic, appLog)
		defer producer.Close()
		opts = append(opts, flights.WithEventPublisher(producer))
	}

	flightRepo := repository.NewFlightRepository(pool)
	flightService := flights.NewFlightService(flightRepo, appLog.With().Str("component", "flight_service").Logger(), opts...)

	if err := bootstrap.Run(ctx, cfg, flightService, appLog); err != nil {
		appLog.Fatal().Err(err).Msg("server error")
	}
}
