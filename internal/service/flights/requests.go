package flights

type GetFlightByIDRequest struct {
	FlightID int64 `json:"flightId" validate:"required,gt=0"`
}

type GetFlightByNumberRequest struct {
	FlightNumber string `json:"flightNumber" validate:"required,max=10"`
}

// SearchFlightsRequest criteria are optional; empty means no filter.
type SearchFlightsRequest struct {
	Airline          string `form:"airline" validate:"omitempty,max=50"`
	DepartureAirport string `form:"departureAirport" validate:"omitempty,len=3"`
	ArrivalAirport   string `form:"arrivalAirport" validate:"omitempty,len=3"`
}
