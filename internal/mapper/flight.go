package mapper

import (
	"fmt"

	"github.com/Domenick1991/flightapi/internal/domain"
	"github.com/Domenick1991/flightapi/internal/dto"
)

func ToDTO(f domain.Flight) dto.Flight {
	return dto.Flight{
		FlightID:         f.ID,
		FlightNumber:     f.FlightNumber,
		Airline:          f.Airline,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Status:           f.Status.String(),
	}
}

// ToDTOs never returns nil so an empty result encodes as [].
func ToDTOs(flights []domain.Flight) []dto.Flight {
	out := make([]dto.Flight, 0, len(flights))
	for _, f := range flights {
		out = append(out, ToDTO(f))
	}
	return out
}

func ToEntity(in dto.Flight) (domain.Flight, error) {
	var f domain.Flight
	if err := Apply(in, &f); err != nil {
		return domain.Flight{}, err
	}
	return f, nil
}

// Apply overwrites every field of dst with the values from in, zero values
// included. dst is left untouched when the status cannot be parsed.
func Apply(in dto.Flight, dst *domain.Flight) error {
	status, err := domain.ParseFlightStatus(in.Status)
	if err != nil {
		return fmt.Errorf("map flight %d: %w", in.FlightID, err)
	}

	dst.ID = in.FlightID
	dst.FlightNumber = in.FlightNumber
	dst.Airline = in.Airline
	dst.DepartureAirport = in.DepartureAirport
	dst.ArrivalAirport = in.ArrivalAirport
	dst.DepartureTime = in.DepartureTime
	dst.ArrivalTime = in.ArrivalTime
	dst.Status = status
	return nil
}
