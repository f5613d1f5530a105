package dto

import "time"

// Flight is the wire representation of a flight. Status carries the status
// name rather than its numeric value.
type Flight struct {
	FlightID         int64     `json:"flightId" validate:"required,gt=0"`
	FlightNumber     string    `json:"flightNumber" validate:"required,max=10"`
	Airline          string    `json:"airline" validate:"required,max=50"`
	DepartureAirport string    `json:"departureAirport" validate:"required,len=3"`
	ArrivalAirport   string    `json:"arrivalAirport" validate:"required,len=3"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	Status           string    `json:"status" validate:"required"`
}
