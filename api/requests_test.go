package api

import (
	"testing"

	"github.com/Domenick1991/flightapi/internal/dto"
	"github.com/Domenick1991/flightapi/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFlight() dto.Flight {
	return dto.Flight{
		FlightID:         1,
		FlightNumber:     "AB123",
		Airline:          "Test Airline",
		DepartureAirport: "ABC",
		ArrivalAirport:   "XYZ",
		Status:           "Scheduled",
	}
}

func TestValidateRequest_ValidFlight(t *testing.T) {
	assert.Nil(t, validateRequest(validFlight()))
}

func TestValidateRequest_FlightRules(t *testing.T) {
	f := validFlight()
	f.FlightID = 0
	f.FlightNumber = "ABCDEFGHIJK"
	f.Airline = ""
	f.DepartureAirport = "AB"
	f.ArrivalAirport = "ABCD"
	f.Status = "Boarding"

	invalid := validateRequest(f)

	require.Len(t, invalid, 5)
	assert.Equal(t, []string{"Flight ID is required."}, invalid["flightId"])
	assert.Equal(t, []string{"Flight number must be no more than 10 characters."}, invalid["flightNumber"])
	assert.Equal(t, []string{"Airline name is required."}, invalid["airline"])
	assert.Equal(t, []string{"Departure airport code must be exactly 3 characters."}, invalid["departureAirport"])
	assert.Equal(t, []string{"Arrival airport code must be exactly 3 characters."}, invalid["arrivalAirport"])
	assert.NotContains(t, invalid, "status")
}

func TestValidateRequest_StatusRequired(t *testing.T) {
	f := validFlight()
	f.Status = ""

	invalid := validateRequest(f)

	assert.Equal(t, []string{"Status is required."}, invalid["status"])
}

func TestValidateRequest_NegativeID(t *testing.T) {
	invalid := validateRequest(flights.GetFlightByIDRequest{FlightID: -4})
	assert.Equal(t, []string{"Flight ID must be a positive integer."}, invalid["flightId"])
}

func TestValidateRequest_SearchCriteriaOptional(t *testing.T) {
	assert.Nil(t, validateRequest(flights.SearchFlightsRequest{}))
	assert.Nil(t, validateRequest(flights.SearchFlightsRequest{Airline: "Search", DepartureAirport: "WXY"}))

	invalid := validateRequest(flights.SearchFlightsRequest{DepartureAirport: "WX"})
	assert.Contains(t, invalid, "departureAirport")
}

func TestParseFlightID(t *testing.T) {
	req, invalid := parseFlightID("12")
	assert.Nil(t, invalid)
	assert.Equal(t, int64(12), req.FlightID)

	_, invalid = parseFlightID("abc")
	assert.Contains(t, invalid, "flightId")

	_, invalid = parseFlightID("0")
	assert.Contains(t, invalid, "flightId")
}
