package flights

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightapi/internal/domain"
	"github.com/Domenick1991/flightapi/internal/dto"
	"github.com/Domenick1991/flightapi/internal/kafka"
	"github.com/Domenick1991/flightapi/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) Search(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event kafka.FlightEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memFlightRepository mimics the PostgreSQL repository semantics in memory.
type memFlightRepository struct {
	mu      sync.Mutex
	flights map[int64]domain.Flight
	nextID  int64
}

func newMemFlightRepository() *memFlightRepository {
	return &memFlightRepository{flights: make(map[int64]domain.Flight), nextID: 1000}
}

func (r *memFlightRepository) sorted() []domain.Flight {
	out := make([]domain.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memFlightRepository) List(context.Context) ([]domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *memFlightRepository) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *memFlightRepository) GetByNumber(_ context.Context, number string) (*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.sorted() {
		if f.FlightNumber == number {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memFlightRepository) Create(_ context.Context, flight *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if flight.ID == 0 {
		r.nextID++
		flight.ID = r.nextID
	}
	if _, ok := r.flights[flight.ID]; ok {
		return repository.ErrDuplicate
	}
	r.flights[flight.ID] = *flight
	return nil
}

func (r *memFlightRepository) Update(_ context.Context, flight *domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flights[flight.ID]; !ok {
		return repository.ErrNotFound
	}
	r.flights[flight.ID] = *flight
	return nil
}

func (r *memFlightRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flights[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.flights, id)
	return nil
}

func (r *memFlightRepository) Search(_ context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Flight, 0)
	for _, f := range r.sorted() {
		if filter.Airline != "" && !strings.Contains(f.Airline, filter.Airline) {
			continue
		}
		if filter.DepartureAirport != "" && f.DepartureAirport != filter.DepartureAirport {
			continue
		}
		if filter.ArrivalAirport != "" && f.ArrivalAirport != filter.ArrivalAirport {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func newFlightDTO(id int64, number string) dto.Flight {
	dep := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	return dto.Flight{
		FlightID:         id,
		FlightNumber:     number,
		Airline:          "Test Airline",
		DepartureAirport: "ABC",
		ArrivalAirport:   "XYZ",
		DepartureTime:    dep,
		ArrivalTime:      dep.Add(3 * time.Hour),
		Status:           "Scheduled",
	}
}

func newMemService() (*FlightService, *memFlightRepository) {
	repo := newMemFlightRepository()
	return NewFlightService(repo, zerolog.Nop()), repo
}

func TestFlightService_GetAll_Empty(t *testing.T) {
	service, _ := newMemService()

	result, err := service.GetAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestFlightService_GetAll_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	expectedErr := errors.New("database error")
	mockRepo.On("List", ctx).Return(nil, expectedErr).Once()

	result, err := service.GetAll(ctx)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_AddThenGetByID(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()
	in := newFlightDTO(1, "AB123")

	added, err := service.Add(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, *added)

	got, err := service.GetByID(ctx, GetFlightByIDRequest{FlightID: 1})
	require.NoError(t, err)
	assert.Equal(t, *added, *got)
}

func TestFlightService_Add_StatusRoundTrips(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	for i, status := range domain.FlightStatuses() {
		in := newFlightDTO(int64(i+1), "ST"+status.String()[:2])
		in.Status = status.String()

		added, err := service.Add(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, *added)
	}
}

func TestFlightService_Add_InvalidStatus(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, zerolog.Nop())
	in := newFlightDTO(1, "AB123")
	in.Status = "Boarding"

	result, err := service.Add(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidFlightStatus)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Add_Duplicate(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	_, err = service.Add(ctx, newFlightDTO(1, "CD456"))
	assert.ErrorIs(t, err, ErrFlightExists)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	service, _ := newMemService()

	result, err := service.GetByID(context.Background(), GetFlightByIDRequest{FlightID: 999})

	assert.ErrorIs(t, err, ErrFlightNotFound)
	assert.Nil(t, result)
}

func TestFlightService_GetByID_StoreError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	expectedErr := errors.New("connection refused")
	mockRepo.On("GetByID", ctx, int64(4)).Return(nil, expectedErr).Once()

	_, err := service.GetByID(ctx, GetFlightByIDRequest{FlightID: 4})

	assert.ErrorIs(t, err, expectedErr)
	assert.NotErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightService_GetByNumber(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(2, "XY789"))
	require.NoError(t, err)
	_, err = service.Add(ctx, newFlightDTO(1, "XY789"))
	require.NoError(t, err)

	got, err := service.GetByNumber(ctx, GetFlightByNumberRequest{FlightNumber: "XY789"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.FlightID)

	_, err = service.GetByNumber(ctx, GetFlightByNumberRequest{FlightNumber: "XY78"})
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightService_Update_NotFoundDoesNotCreate(t *testing.T) {
	service, repo := newMemService()
	ctx := context.Background()

	result, err := service.Update(ctx, newFlightDTO(5, "AB123"))

	assert.ErrorIs(t, err, ErrFlightNotFound)
	assert.Nil(t, result)
	assert.Empty(t, repo.flights)
}

func TestFlightService_Update_OverwritesFields(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	changed := newFlightDTO(1, "AB999")
	changed.Airline = "Updated Airline"
	changed.Status = "Delayed"
	changed.DepartureTime = time.Time{}
	changed.ArrivalTime = time.Time{}

	updated, err := service.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, changed, *updated)

	got, err := service.GetByID(ctx, GetFlightByIDRequest{FlightID: 1})
	require.NoError(t, err)
	assert.Equal(t, changed, *got)
	assert.True(t, got.DepartureTime.IsZero())
}

func TestFlightService_Update_InvalidStatus(t *testing.T) {
	service, repo := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	bad := newFlightDTO(1, "ZZ000")
	bad.Status = "Lost"
	_, err = service.Update(ctx, bad)

	assert.ErrorIs(t, err, domain.ErrInvalidFlightStatus)
	assert.Equal(t, "AB123", repo.flights[1].FlightNumber)
}

func TestFlightService_Delete(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	deleted, err := service.Delete(ctx, GetFlightByIDRequest{FlightID: 1})
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = service.GetByID(ctx, GetFlightByIDRequest{FlightID: 1})
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightService_Delete_NotFound(t *testing.T) {
	service, repo := newMemService()
	ctx := context.Background()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	deleted, err := service.Delete(ctx, GetFlightByIDRequest{FlightID: 2})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, repo.flights, 1)
}

func TestFlightService_Delete_StoreError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	expectedErr := errors.New("deadlock detected")
	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.Flight{ID: 1}, nil).Once()
	mockRepo.On("Delete", ctx, int64(1)).Return(expectedErr).Once()

	deleted, err := service.Delete(ctx, GetFlightByIDRequest{FlightID: 1})

	assert.False(t, deleted)
	assert.ErrorIs(t, err, expectedErr)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search(t *testing.T) {
	service, _ := newMemService()
	ctx := context.Background()

	first := newFlightDTO(1, "SA100")
	first.Airline, first.DepartureAirport, first.ArrivalAirport = "Search Airline", "WXY", "ZAB"
	second := newFlightDTO(2, "SA200")
	second.Airline, second.DepartureAirport, second.ArrivalAirport = "Search Airline", "WXY", "ZAB"
	other := newFlightDTO(3, "OT300")

	for _, f := range []dto.Flight{first, second, other} {
		_, err := service.Add(ctx, f)
		require.NoError(t, err)
	}

	all, err := service.Search(ctx, SearchFlightsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := service.Search(ctx, SearchFlightsRequest{Airline: "Search Airline", DepartureAirport: "WXY", ArrivalAirport: "ZAB"})
	require.NoError(t, err)
	assert.Equal(t, []dto.Flight{first, second}, matched)

	partial, err := service.Search(ctx, SearchFlightsRequest{Airline: "Search"})
	require.NoError(t, err)
	assert.Len(t, partial, 2)

	none, err := service.Search(ctx, SearchFlightsRequest{ArrivalAirport: "QQQ"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFlightService_Search_PassesFilter(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	filter := repository.FlightFilter{Airline: "Air", DepartureAirport: "SVO"}
	mockRepo.On("Search", ctx, filter).Return([]domain.Flight{}, nil).Once()

	result, err := service.Search(ctx, SearchFlightsRequest{Airline: "Air", DepartureAirport: "SVO"})

	require.NoError(t, err)
	assert.Empty(t, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_PublishesEvents(t *testing.T) {
	repo := newMemFlightRepository()
	publisher := &MockPublisher{}
	service := NewFlightService(repo, zerolog.Nop(), WithEventPublisher(publisher))
	ctx := context.Background()

	ofType := func(eventType string) interface{} {
		return mock.MatchedBy(func(e kafka.FlightEvent) bool {
			return e.Type == eventType && e.FlightID == 1
		})
	}
	publisher.On("Publish", ctx, ofType(kafka.EventFlightCreated)).Return(nil).Once()
	publisher.On("Publish", ctx, ofType(kafka.EventFlightUpdated)).Return(errors.New("broker down")).Once()
	publisher.On("Publish", ctx, ofType(kafka.EventFlightDeleted)).Return(nil).Once()

	_, err := service.Add(ctx, newFlightDTO(1, "AB123"))
	require.NoError(t, err)

	// publish failures are not surfaced to the caller
	_, err = service.Update(ctx, newFlightDTO(1, "AB124"))
	require.NoError(t, err)

	deleted, err := service.Delete(ctx, GetFlightByIDRequest{FlightID: 1})
	require.NoError(t, err)
	assert.True(t, deleted)

	publisher.AssertExpectations(t)
}

func TestFlightService_NoEventsOnNotFound(t *testing.T) {
	publisher := &MockPublisher{}
	service := NewFlightService(newMemFlightRepository(), zerolog.Nop(), WithEventPublisher(publisher))
	ctx := context.Background()

	_, err := service.Update(ctx, newFlightDTO(3, "AB123"))
	assert.ErrorIs(t, err, ErrFlightNotFound)

	deleted, err := service.Delete(ctx, GetFlightByIDRequest{FlightID: 3})
	require.NoError(t, err)
	assert.False(t, deleted)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
