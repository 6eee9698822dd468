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

type BookingRepository interface {
	Create(ctx context.Context, q database.Queryer, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, q database.Queryer, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_ref, trip_id, contact_name, contact_email, hold_token, total_seats, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.OrderRef,
		booking.TripID,
		booking.ContactName,
		booking.ContactEmail,
		booking.HoldToken,
		booking.TotalSeats,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_ref", booking.OrderRef),
			zap.String("trip_id", booking.TripID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderRef, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findByID(ctx, r.db, id, false)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Booking, error) {
	return r.findByID(ctx, q, id, true)
}

func (r *bookingRepository) findByID(ctx context.Context, q database.Queryer, id uuid.UUID, forUpdate bool) (*entity.Booking, error) {
	query := `
		SELECT id, order_ref, trip_id, contact_name, contact_email, hold_token, total_seats, total_price, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var booking entity.Booking
	err := q.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.OrderRef,
		&booking.TripID,
		&booking.ContactName,
		&booking.ContactEmail,
		&booking.HoldToken,
		&booking.TotalSeats,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}
