package repository

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TripSeatRepository methods take a Queryer because trip seat reads and
// writes must happen inside the caller's transaction: the trip_seats
// table is the durable arbiter against double-booking.
type TripSeatRepository interface {
	CreateBatch(ctx context.Context, q database.Queryer, seats []*entity.TripSeat) error
	FindByTripID(ctx context.Context, q database.Queryer, tripID uuid.UUID) ([]*entity.TripSeat, error)

	// FindForUpdate re-reads rows with FOR UPDATE so a concurrent
	// finalization cannot slip in a lost update.
	FindForUpdate(ctx context.Context, q database.Queryer, ids []uuid.UUID) ([]*entity.TripSeat, error)

	MarkBooked(ctx context.Context, q database.Queryer, ids []uuid.UUID, bookedAt time.Time) error
	Unbook(ctx context.Context, q database.Queryer, ids []uuid.UUID) error
}

type tripSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTripSeatRepository(db database.PgxIface, log *zap.Logger) TripSeatRepository {
	return &tripSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "trip_seat")),
	}
}

func (r *tripSeatRepository) CreateBatch(ctx context.Context, q database.Queryer, seats []*entity.TripSeat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `INSERT INTO trip_seats (id, trip_id, seat_definition_id, seat_code, price, is_booked, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8)

		args = append(args,
			seat.ID,
			seat.TripID,
			seat.SeatDefinitionID,
			seat.SeatCode,
			seat.Price,
			seat.IsBooked,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := q.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch trip seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch trip seats: %w", err)
	}

	return nil
}

func (r *tripSeatRepository) FindByTripID(ctx context.Context, q database.Queryer, tripID uuid.UUID) ([]*entity.TripSeat, error) {
	query := `
		SELECT ts.id, ts.trip_id, ts.seat_definition_id, ts.seat_code, ts.price,
		       ts.is_booked, ts.booked_at, ts.created_at, ts.updated_at, sd.is_active
		FROM trip_seats ts
		JOIN seat_definitions sd ON sd.id = ts.seat_definition_id
		WHERE ts.trip_id = $1
		ORDER BY ts.seat_code
	`

	rows, err := q.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find trip seats",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find trip seats for trip %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.TripSeat
	for rows.Next() {
		var seat entity.TripSeat
		err := rows.Scan(
			&seat.ID,
			&seat.TripID,
			&seat.SeatDefinitionID,
			&seat.SeatCode,
			&seat.Price,
			&seat.IsBooked,
			&seat.BookedAt,
			&seat.CreatedAt,
			&seat.UpdatedAt,
			&seat.SeatActive,
		)
		if err != nil {
			r.log.Error("Failed to scan trip seat row", zap.Error(err))
			return nil, fmt.Errorf("scan trip seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *tripSeatRepository) FindForUpdate(ctx context.Context, q database.Queryer, ids []uuid.UUID) ([]*entity.TripSeat, error) {
	if len(ids) == 0 {
		return []*entity.TripSeat{}, nil
	}

	query := `
		SELECT id, trip_id, seat_definition_id, seat_code, price, is_booked, booked_at, created_at, updated_at
		FROM trip_seats
		WHERE id = ANY($1)
		ORDER BY seat_code
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to lock trip seats",
			zap.Error(err),
			zap.Int("seat_count", len(ids)),
		)
		return nil, fmt.Errorf("lock trip seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.TripSeat
	for rows.Next() {
		var seat entity.TripSeat
		err := rows.Scan(
			&seat.ID,
			&seat.TripID,
			&seat.SeatDefinitionID,
			&seat.SeatCode,
			&seat.Price,
			&seat.IsBooked,
			&seat.BookedAt,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan trip seat row", zap.Error(err))
			return nil, fmt.Errorf("scan trip seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *tripSeatRepository) MarkBooked(ctx context.Context, q database.Queryer, ids []uuid.UUID, bookedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE trip_seats
		SET is_booked = true, booked_at = $2, updated_at = NOW()
		WHERE id = ANY($1) AND is_booked = false
	`

	result, err := q.Exec(ctx, query, ids, bookedAt)
	if err != nil {
		r.log.Error("Failed to mark trip seats booked",
			zap.Error(err),
			zap.Int("seat_count", len(ids)),
		)
		return fmt.Errorf("mark trip seats booked: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("marked %d of %d trip seats booked", result.RowsAffected(), len(ids))
	}

	return nil
}

func (r *tripSeatRepository) Unbook(ctx context.Context, q database.Queryer, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE trip_seats
		SET is_booked = false, booked_at = NULL, updated_at = NOW()
		WHERE id = ANY($1)
	`

	_, err := q.Exec(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to unbook trip seats",
			zap.Error(err),
			zap.Int("seat_count", len(ids)),
		)
		return fmt.Errorf("unbook trip seats: %w", err)
	}

	return nil
}
