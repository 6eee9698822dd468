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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByOrderIDForUpdate locks the payment row so duplicate webhook
	// deliveries serialize on it.
	FindByOrderIDForUpdate(ctx context.Context, q database.Queryer, orderID string) (*entity.Payment, error)

	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.PaymentStatus) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, order_id, provider, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.OrderID,
		payment.Provider,
		payment.Amount,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("order_id", payment.OrderID),
			zap.String("booking_id", payment.BookingID.String()),
		)
		return fmt.Errorf("create payment %s: %w", payment.OrderID, err)
	}

	return nil
}

func (r *paymentRepository) FindByOrderIDForUpdate(ctx context.Context, q database.Queryer, orderID string) (*entity.Payment, error) {
	query := `
		SELECT id, booking_id, order_id, provider, amount, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1
		FOR UPDATE
	`

	var payment entity.Payment
	err := q.QueryRow(ctx, query, orderID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.OrderID,
		&payment.Provider,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find payment by order ID %s: %w", orderID, err)
	}

	return &payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}
