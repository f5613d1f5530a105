package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads flight events from one topic as a member of a consumer group.
type Consumer struct {
	reader messageReader
	log    zerolog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log zerolog.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			StartOffset:       kafka.FirstOffset,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume hands decoded flight events to handle until ctx is cancelled or
// handle fails. Messages that do not decode are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handle func(context.Context, FlightEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := DecodeFlightEvent(msg)
		if err != nil {
			c.log.Warn().
				Err(err).
				Str("topic", msg.Topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Skipping malformed flight event")
			continue
		}

		if err := handle(ctx, event); err != nil {
			return fmt.Errorf("handle %s for flight %d: %w", event.Type, event.FlightID, err)
		}
	}
}

func DecodeFlightEvent(msg kafka.Message) (FlightEvent, error) {
	var event FlightEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return FlightEvent{}, fmt.Errorf("decode flight event at offset %d: %w", msg.Offset, err)
	}
	return event, nil
}
