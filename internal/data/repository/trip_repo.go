package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TripRepository interface {
	Create(ctx context.Context, q database.Queryer, trip *entity.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)

	// FindWithBus loads a trip joined with its bus so callers can check
	// the seat map reference. Runs on the caller's Queryer so it can
	// participate in a transaction.
	FindWithBus(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Trip, *entity.Bus, error)
}

type tripRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTripRepository(db database.PgxIface, log *zap.Logger) TripRepository {
	return &tripRepository{
		db:  db,
		log: log.With(zap.String("repository", "trip")),
	}
}

func (r *tripRepository) Create(ctx context.Context, q database.Queryer, trip *entity.Trip) error {
	query := `
		INSERT INTO trips (id, bus_id, origin, destination, departure_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		trip.ID,
		trip.BusID,
		trip.Origin,
		trip.Destination,
		trip.DepartureAt,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create trip",
			zap.Error(err),
			zap.String("bus_id", trip.BusID.String()),
		)
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	query := `
		SELECT id, bus_id, origin, destination, departure_at, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip entity.Trip
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.BusID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartureAt,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, fmt.Errorf("find trip by ID %s: %w", id.String(), err)
	}

	return &trip, nil
}

func (r *tripRepository) FindWithBus(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Trip, *entity.Bus, error) {
	query := `
		SELECT t.id, t.bus_id, t.origin, t.destination, t.departure_at, t.created_at, t.updated_at,
		       b.id, b.name, b.plate_number, b.seat_map_id, b.created_at, b.updated_at
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		WHERE t.id = $1
	`

	var trip entity.Trip
	var bus entity.Bus
	err := q.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.BusID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartureAt,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&bus.ID,
		&bus.Name,
		&bus.PlateNumber,
		&bus.SeatMapID,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find trip with bus",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, nil, fmt.Errorf("find trip with bus %s: %w", id.String(), err)
	}

	return &trip, &bus, nil
}
