package notify

import (
	"context"

	"github.com/Domenick1991/flightapi/internal/domain"
	"github.com/Domenick1991/flightapi/internal/kafka"
	"github.com/rs/zerolog"
)

// Notifier turns flight events into passenger notices. Only disruptions
// (delays, cancellations, removed flights) produce a notice.
type Notifier struct {
	log zerolog.Logger
}

func NewNotifier(log zerolog.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle reports whether a notice was sent for the event.
func (n *Notifier) Handle(ctx context.Context, event kafka.FlightEvent) (bool, error) {
	reason, ok := noticeReason(event)
	if !ok {
		n.log.Debug().Str("type", event.Type).Int64("flight_id", event.FlightID).Msg("no notice required")
		return false, nil
	}

	n.log.Info().
		Str("event_id", event.EventID).
		Int64("flight_id", event.FlightID).
		Str("flight_number", event.FlightNumber).
		Str("reason", reason).
		Msg("passenger notice sent")
	return true, nil
}

func noticeReason(event kafka.FlightEvent) (string, bool) {
	if event.Type == kafka.EventFlightDeleted {
		return "flight removed from schedule", true
	}
	status, err := domain.ParseFlightStatus(event.Status)
	if err != nil {
		return "", false
	}
	switch status {
	case domain.FlightStatusDelayed:
		return "flight delayed", true
	case domain.FlightStatusCancelled:
		return "flight cancelled", true
	}
	return "", false
}
