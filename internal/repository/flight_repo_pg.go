package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightapi/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
}

// FlightFilter holds optional search criteria. Empty fields are ignored.
type FlightFilter struct {
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
}

const flightColumns = `id, flight_number, airline, departure_airport, arrival_airport, departure_time, arrival_time, status`

// Querier is the subset of *pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

type PGFlightRepository struct {
	db Querier
}

func NewFlightRepository(db Querier) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number=$1 ORDER BY id LIMIT 1`, number)
	f, err := scanFlight(row)
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

// Create inserts the flight and refreshes it from the stored row. A zero ID
// lets the database assign one. After an explicit ID the identity sequence is
// moved past the highest stored ID so later generated IDs do not collide.
func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	explicitID := flight.ID > 0

	var row pgx.Row
	if explicitID {
		row = r.db.QueryRow(ctx, `INSERT INTO flights (`+flightColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+flightColumns,
			flight.ID, flight.FlightNumber, flight.Airline, flight.DepartureAirport, flight.ArrivalAirport,
			flight.DepartureTime, flight.ArrivalTime, flight.Status)
	} else {
		row = r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, departure_airport, arrival_airport, departure_time, arrival_time, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+flightColumns,
			flight.FlightNumber, flight.Airline, flight.DepartureAirport, flight.ArrivalAirport,
			flight.DepartureTime, flight.ArrivalTime, flight.Status)
	}

	stored, err := scanFlight(row)
	if err != nil {
		return mapError(err)
	}
	if explicitID {
		if _, err := r.db.Exec(ctx, advanceIDSequence); err != nil {
			return fmt.Errorf("advance flight id sequence: %w", err)
		}
	}
	*flight = *stored
	return nil
}

const advanceIDSequence = `SELECT setval(pg_get_serial_sequence('flights', 'id'), GREATEST((SELECT max(id) FROM flights), 1))`

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights
		SET flight_number=$2, airline=$3, departure_airport=$4, arrival_airport=$5, departure_time=$6, arrival_time=$7, status=$8
		WHERE id=$1`,
		flight.ID, flight.FlightNumber, flight.Airline, flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureTime, flight.ArrivalTime, flight.Status)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query, args := buildSearchQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

// buildSearchQuery ANDs the non-empty criteria. Airline uses strpos so the
// match is a plain substring test with no LIKE wildcards.
func buildSearchQuery(filter FlightFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Airline != "" {
		args = append(args, filter.Airline)
		conds = append(conds, fmt.Sprintf("strpos(airline, $%d) > 0", len(args)))
	}
	if filter.DepartureAirport != "" {
		args = append(args, filter.DepartureAirport)
		conds = append(conds, fmt.Sprintf("departure_airport = $%d", len(args)))
	}
	if filter.ArrivalAirport != "" {
		args = append(args, filter.ArrivalAirport)
		conds = append(conds, fmt.Sprintf("arrival_airport = $%d", len(args)))
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY id`, args
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureAirport, &f.ArrivalAirport, &f.DepartureTime, &f.ArrivalTime, &f.Status); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
