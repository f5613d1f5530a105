package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightapi/config"
	"github.com/Domenick1991/flightapi/internal/kafka"
	"github.com/Domenick1991/flightapi/internal/logger"
	"github.com/Domenick1991/flightapi/internal/notify"
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
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, "worker")
	workerLog := logger.Get()

	if !cfg.Kafka.Enabled() {
		workerLog.Fatal().Msg("kafka brokers and flight_events_topic must be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.FlightEventsTopic, workerLog)
	defer consumer.Close()

	notifier := notify.NewNotifier(workerLog)

	workerLog.Info().Str("topic", cfg.Kafka.FlightEventsTopic).Msg("consuming flight events")
	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.FlightEvent) error {
		_, err := notifier.Handle(ctx, event)
		return err
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		workerLog.Error().Err(err).Msg("consumer stopped")
	}
}
