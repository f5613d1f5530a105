package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	EventFlightCreated = "flight_created"
	EventFlightUpdated = "flight_updated"
	EventFlightDeleted = "flight_deleted"
)

type FlightEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	FlightID     int64     `json:"flight_id"`
	FlightNumber string    `json:"flight_number"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewFlightEvent(eventType string, flightID int64, flightNumber, status string) FlightEvent {
	return FlightEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		FlightID:     flightID,
		FlightNumber: flightNumber,
		Status:       status,
		OccurredAt:   time.Now().UTC(),
	}
}

// Key partitions events by flight so each flight's events stay ordered.
func (e FlightEvent) Key() string {
	return strconv.FormatInt(e.FlightID, 10)
}

type Producer struct {
	writer *kafka.Writer
	topic  string
	log    zerolog.Logger
}

func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		log:    log,
	}
}

func (p *Producer) Publish(ctx context.Context, event FlightEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Str("type", event.Type).
		Int64("flight_id", event.FlightID).
		Msg("flight event published")
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
