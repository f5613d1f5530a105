package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidFlightStatus = errors.New("invalid flight status")

type FlightStatus int

const (
	FlightStatusScheduled FlightStatus = iota
	FlightStatusDelayed
	FlightStatusCancelled
	FlightStatusInAir
	FlightStatusLanded
)

var flightStatusNames = [...]string{
	FlightStatusScheduled: "Scheduled",
	FlightStatusDelayed:   "Delayed",
	FlightStatusCancelled: "Cancelled",
	FlightStatusInAir:     "InAir",
	FlightStatusLanded:    "Landed",
}

// FlightStatuses lists every status in declaration order.
func FlightStatuses() []FlightStatus {
	return []FlightStatus{
		FlightStatusScheduled,
		FlightStatusDelayed,
		FlightStatusCancelled,
		FlightStatusInAir,
		FlightStatusLanded,
	}
}

func (s FlightStatus) Valid() bool {
	return s >= FlightStatusScheduled && s <= FlightStatusLanded
}

func (s FlightStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("FlightStatus(%d)", int(s))
	}
	return flightStatusNames[s]
}

// ParseFlightStatus accepts only the exact status names.
func ParseFlightStatus(name string) (FlightStatus, error) {
	for i, n := range flightStatusNames {
		if n == name {
			return FlightStatus(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFlightStatus, name)
}

func (s FlightStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFlightStatus, int(s))
	}
	return []byte(s.String()), nil
}

func (s *FlightStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseFlightStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status as its name.
func (s FlightStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFlightStatus, int(s))
	}
	return s.String(), nil
}

func (s *FlightStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: null", ErrInvalidFlightStatus)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidFlightStatus, src)
	}
}

type Flight struct {
	ID               int64
	FlightNumber     string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Status           FlightStatus
}
