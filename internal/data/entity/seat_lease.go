package entity

import (
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusActive   LeaseStatus = "active"
	LeaseStatusReleased LeaseStatus = "released"
	LeaseStatusExpired  LeaseStatus = "expired"
)

// SeatLease is the durable shadow record of a lease, kept for audit and
// operator queries. The lease store's own TTL is what actually unlocks
// a seat; the sweeper only reconciles these rows.
type SeatLease struct {
	BaseSimple
	TripID    uuid.UUID   `db:"trip_id"`
	SeatCode  string      `db:"seat_code"`
	Token     string      `db:"token"`
	Status    LeaseStatus `db:"status"`
	ExpiresAt time.Time   `db:"expires_at"`
}
