package flights

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightapi/internal/dto"
	"github.com/Domenick1991/flightapi/internal/kafka"
	"github.com/Domenick1991/flightapi/internal/mapper"
	"github.com/Domenick1991/flightapi/internal/metrics"
	"github.com/Domenick1991/flightapi/internal/repository"
	"github.com/rs/zerolog"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrFlightExists   = errors.New("flight already exists")
)

type FlightUseCase interface {
	GetAll(ctx context.Context) ([]dto.Flight, error)
	GetByID(ctx context.Context, req GetFlightByIDRequest) (*dto.Flight, error)
	GetByNumber(ctx context.Context, req GetFlightByNumberRequest) (*dto.Flight, error)
	Add(ctx context.Context, flight dto.Flight) (*dto.Flight, error)
	Update(ctx context.Context, flight dto.Flight) (*dto.Flight, error)
	Delete(ctx context.Context, req GetFlightByIDRequest) (bool, error)
	Search(ctx context.Context, req SearchFlightsRequest) ([]dto.Flight, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.FlightEvent) error
}

type FlightService struct {
	repo      repository.FlightRepository
	publisher EventPublisher
	log       zerolog.Logger
}

type FlightServiceOption func(*FlightService)

func WithEventPublisher(p EventPublisher) FlightServiceOption {
	return func(s *FlightService) {
		s.publisher = p
	}
}

func NewFlightService(repo repository.FlightRepository, log zerolog.Logger, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) GetAll(ctx context.Context) ([]dto.Flight, error) {
	s.log.Info().Msg("Getting all flights")
	flights, err := s.repo.List(ctx)
	if err != nil {
		metrics.ObserveOperation("get_all", metrics.OutcomeError)
		return nil, fmt.Errorf("list flights: %w", err)
	}
	metrics.ObserveOperation("get_all", metrics.OutcomeOK)
	return mapper.ToDTOs(flights), nil
}

func (s *FlightService) GetByID(ctx context.Context, req GetFlightByIDRequest) (*dto.Flight, error) {
	s.log.Info().Int64("flight_id", req.FlightID).Msg("Getting flight by id")
	f, err := s.repo.GetByID(ctx, req.FlightID)
	if err != nil {
		return nil, s.lookupError("get_by_id", err, req.FlightID)
	}
	metrics.ObserveOperation("get_by_id", metrics.OutcomeOK)
	out := mapper.ToDTO(*f)
	return &out, nil
}

func (s *FlightService) GetByNumber(ctx context.Context, req GetFlightByNumberRequest) (*dto.Flight, error) {
	s.log.Info().Str("flight_number", req.FlightNumber).Msg("Getting flight by number")
	f, err := s.repo.GetByNumber(ctx, req.FlightNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Str("flight_number", req.FlightNumber).Msg("Flight not found")
			metrics.ObserveOperation("get_by_number", metrics.OutcomeNotFound)
			return nil, ErrFlightNotFound
		}
		metrics.ObserveOperation("get_by_number", metrics.OutcomeError)
		return nil, fmt.Errorf("get flight %q: %w", req.FlightNumber, err)
	}
	metrics.ObserveOperation("get_by_number", metrics.OutcomeOK)
	out := mapper.ToDTO(*f)
	return &out, nil
}

// Add returns the flight as stored. An unknown status is returned as a
// mapping error and nothing is written.
func (s *FlightService) Add(ctx context.Context, in dto.Flight) (*dto.Flight, error) {
	s.log.Info().Int64("flight_id", in.FlightID).Str("flight_number", in.FlightNumber).Msg("Adding flight")
	entity, err := mapper.ToEntity(in)
	if err != nil {
		metrics.ObserveOperation("add", metrics.OutcomeError)
		return nil, err
	}

	if err := s.repo.Create(ctx, &entity); err != nil {
		metrics.ObserveOperation("add", metrics.OutcomeError)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: id %d", ErrFlightExists, in.FlightID)
		}
		return nil, fmt.Errorf("create flight: %w", err)
	}
	metrics.ObserveOperation("add", metrics.OutcomeOK)

	out := mapper.ToDTO(entity)
	s.publish(ctx, kafka.EventFlightCreated, out)
	return &out, nil
}

// Update replaces every field of the stored flight with the submitted
// values. A missing flight is reported as ErrFlightNotFound and never created.
func (s *FlightService) Update(ctx context.Context, in dto.Flight) (*dto.Flight, error) {
	s.log.Info().Int64("flight_id", in.FlightID).Msg("Updating flight")
	existing, err := s.repo.GetByID(ctx, in.FlightID)
	if err != nil {
		return nil, s.lookupError("update", err, in.FlightID)
	}

	if err := mapper.Apply(in, existing); err != nil {
		metrics.ObserveOperation("update", metrics.OutcomeError)
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		// the row may have been deleted between the read and the write
		return nil, s.lookupError("update", err, in.FlightID)
	}
	metrics.ObserveOperation("update", metrics.OutcomeOK)

	out := mapper.ToDTO(*existing)
	s.publish(ctx, kafka.EventFlightUpdated, out)
	return &out, nil
}

func (s *FlightService) Delete(ctx context.Context, req GetFlightByIDRequest) (bool, error) {
	s.log.Info().Int64("flight_id", req.FlightID).Msg("Deleting flight")
	existing, err := s.repo.GetByID(ctx, req.FlightID)
	if err == nil {
		err = s.repo.Delete(ctx, req.FlightID)
	}
	if err != nil {
		err = s.lookupError("delete", err, req.FlightID)
		if errors.Is(err, ErrFlightNotFound) {
			return false, nil
		}
		return false, err
	}
	metrics.ObserveOperation("delete", metrics.OutcomeOK)

	s.publish(ctx, kafka.EventFlightDeleted, mapper.ToDTO(*existing))
	return true, nil
}

func (s *FlightService) Search(ctx context.Context, req SearchFlightsRequest) ([]dto.Flight, error) {
	s.log.Info().
		Str("airline", req.Airline).
		Str("departure_airport", req.DepartureAirport).
		Str("arrival_airport", req.ArrivalAirport).
		Msg("Searching flights")
	flights, err := s.repo.Search(ctx, repository.FlightFilter{
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
	})
	if err != nil {
		metrics.ObserveOperation("search", metrics.OutcomeError)
		return nil, fmt.Errorf("search flights: %w", err)
	}
	metrics.ObserveOperation("search", metrics.OutcomeOK)
	return mapper.ToDTOs(flights), nil
}

// lookupError turns repository absence into ErrFlightNotFound and wraps
// anything else.
func (s *FlightService) lookupError(op string, err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn().Int64("flight_id", id).Msg("Flight not found")
		metrics.ObserveOperation(op, metrics.OutcomeNotFound)
		return ErrFlightNotFound
	}
	metrics.ObserveOperation(op, metrics.OutcomeError)
	return fmt.Errorf("%s flight %d: %w", op, id, err)
}

func (s *FlightService) publish(ctx context.Context, eventType string, f dto.Flight) {
	if s.publisher == nil {
		return
	}
	event := kafka.NewFlightEvent(eventType, f.FlightID, f.FlightNumber, f.Status)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Int64("flight_id", f.FlightID).Msg("Failed to publish flight event")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
