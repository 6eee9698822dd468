package entity

import "github.com/google/uuid"

type PaymentStatus string

const (
	PaymentStatusInit    PaymentStatus = "init"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records one attempt against exactly one booking, keyed by the
// provider-facing OrderID (unique). Multiple attempts per booking are
// allowed, at most one success.
type Payment struct {
	Base
	BookingID uuid.UUID     `db:"booking_id"`
	OrderID   string        `db:"order_id"`
	Provider  string        `db:"provider"`
	Amount    float64       `db:"amount"`
	Status    PaymentStatus `db:"status"`
}
