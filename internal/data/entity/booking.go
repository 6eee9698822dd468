package entity

import "github.com/google/uuid"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// Booking is never deleted, only status-transitioned. HoldToken retains
// the lease ownership token from the hold that backed this booking so
// the finalizer can release leases by owner.
type Booking struct {
	Base
	OrderRef     string        `db:"order_ref"`
	TripID       uuid.UUID     `db:"trip_id"`
	ContactName  string        `db:"contact_name"`
	ContactEmail string        `db:"contact_email"`
	HoldToken    *string       `db:"hold_token"`
	TotalSeats   int           `db:"total_seats"`
	TotalPrice   float64       `db:"total_price"`
	Status       BookingStatus `db:"status"`
}
