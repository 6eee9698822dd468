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

// SeatLeaseRepository manages the durable shadow records of leases.
// These rows are bookkeeping for audit and operator queries; the lease
// store's TTL is what actually frees a seat.
type SeatLeaseRepository interface {
	CreateBatch(ctx context.Context, leases []*entity.SeatLease) error
	ReleaseByToken(ctx context.Context, token string) error

	// ExpireStale marks active rows whose expiry has passed and returns
	// the affected trip IDs.
	ExpireStale(ctx context.Context, now time.Time) ([]uuid.UUID, int64, error)
}

type seatLeaseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatLeaseRepository(db database.PgxIface, log *zap.Logger) SeatLeaseRepository {
	return &seatLeaseRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_lease")),
	}
}

func (r *seatLeaseRepository) CreateBatch(ctx context.Context, leases []*entity.SeatLease) error {
	if len(leases) == 0 {
		return nil
	}

	query := `INSERT INTO seat_leases (id, trip_id, seat_code, token, status, expires_at, created_at) VALUES `
	args := []interface{}{}

	for i, lease := range leases {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

		args = append(args,
			lease.ID,
			lease.TripID,
			lease.SeatCode,
			lease.Token,
			lease.Status,
			lease.ExpiresAt,
			lease.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch seat leases",
			zap.Error(err),
			zap.Int("count", len(leases)),
		)
		return fmt.Errorf("create batch seat leases: %w", err)
	}

	return nil
}

func (r *seatLeaseRepository) ReleaseByToken(ctx context.Context, token string) error {
	query := `UPDATE seat_leases SET status = $2 WHERE token = $1 AND status = $3`

	_, err := r.db.Exec(ctx, query, token, entity.LeaseStatusReleased, entity.LeaseStatusActive)
	if err != nil {
		r.log.Error("Failed to release seat leases by token", zap.Error(err))
		return fmt.Errorf("release seat leases by token: %w", err)
	}

	return nil
}

func (r *seatLeaseRepository) ExpireStale(ctx context.Context, now time.Time) ([]uuid.UUID, int64, error) {
	query := `
		UPDATE seat_leases
		SET status = $1
		WHERE status = $2 AND expires_at < $3
		RETURNING trip_id
	`

	rows, err := r.db.Query(ctx, query, entity.LeaseStatusExpired, entity.LeaseStatusActive, now)
	if err != nil {
		r.log.Error("Failed to expire stale seat leases", zap.Error(err))
		return nil, 0, fmt.Errorf("expire stale seat leases: %w", err)
	}
	defer rows.Close()

	var count int64
	seen := make(map[uuid.UUID]bool)
	var trips []uuid.UUID
	for rows.Next() {
		var tripID uuid.UUID
		if err := rows.Scan(&tripID); err != nil {
			r.log.Error("Failed to scan expired lease row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan expired lease row: %w", err)
		}
		count++
		if !seen[tripID] {
			seen[tripID] = true
			trips = append(trips, tripID)
		}
	}

	return trips, count, nil
}
