package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightapi/internal/service/flights"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateRequest returns field messages keyed by wire name, or nil when the
// request is valid.
func validateRequest(req any) map[string][]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string][]string{"request": {err.Error()}}
	}
	invalid := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		invalid[fe.Field()] = append(invalid[fe.Field()], fieldMessage(fe))
	}
	return invalid
}

var fieldLabels = map[string]string{
	"flightId":         "Flight ID",
	"flightNumber":     "Flight number",
	"airline":          "Airline name",
	"departureAirport": "Departure airport code",
	"arrivalAirport":   "Arrival airport code",
	"status":           "Status",
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "gt":
		return fmt.Sprintf("%s must be a positive integer.", label)
	case "max":
		return fmt.Sprintf("%s must be no more than %s characters.", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters.", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// parseFlightID validates a route identifier.
func parseFlightID(raw string) (flights.GetFlightByIDRequest, map[string][]string) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return flights.GetFlightByIDRequest{}, map[string][]string{
			"flightId": {"Flight ID must be a positive integer."},
		}
	}
	req := flights.GetFlightByIDRequest{FlightID: id}
	return req, validateRequest(req)
}
