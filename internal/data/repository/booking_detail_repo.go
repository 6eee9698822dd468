package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingDetailRepository interface {
	CreateBatch(ctx context.Context, q database.Queryer, details []*entity.BookingDetail) error
	FindByBookingID(ctx context.Context, q database.Queryer, bookingID uuid.UUID) ([]*entity.BookingDetail, error)
}

type bookingDetailRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingDetailRepository(db database.PgxIface, log *zap.Logger) BookingDetailRepository {
	return &bookingDetailRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_detail")),
	}
}

func (r *bookingDetailRepository) CreateBatch(ctx context.Context, q database.Queryer, details []*entity.BookingDetail) error {
	if len(details) == 0 {
		return nil
	}

	query := `INSERT INTO booking_details (id, booking_id, trip_seat_id, seat_code, passenger_name, price, created_at) VALUES `
	args := []interface{}{}

	for i, detail := range details {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

		args = append(args,
			detail.ID,
			detail.BookingID,
			detail.TripSeatID,
			detail.SeatCode,
			detail.PassengerName,
			detail.Price,
			detail.CreatedAt,
		)
	}

	_, err := q.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch booking details",
			zap.Error(err),
			zap.Int("count", len(details)),
		)
		return fmt.Errorf("create batch booking details: %w", err)
	}

	return nil
}

func (r *bookingDetailRepository) FindByBookingID(ctx context.Context, q database.Queryer, bookingID uuid.UUID) ([]*entity.BookingDetail, error) {
	query := `
		SELECT id, booking_id, trip_seat_id, seat_code, passenger_name, price, created_at
		FROM booking_details
		WHERE booking_id = $1
		ORDER BY seat_code
	`

	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking details",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking details for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var details []*entity.BookingDetail
	for rows.Next() {
		var detail entity.BookingDetail
		err := rows.Scan(
			&detail.ID,
			&detail.BookingID,
			&detail.TripSeatID,
			&detail.SeatCode,
			&detail.PassengerName,
			&detail.Price,
			&detail.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking detail row", zap.Error(err))
			return nil, fmt.Errorf("scan booking detail row: %w", err)
		}
		details = append(details, &detail)
	}

	return details, nil
}
