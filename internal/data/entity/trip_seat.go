package entity

import (
	"time"

	"github.com/google/uuid"
)

// TripSeat is the per-trip materialization of a seat definition and the
// durable arbiter of booked state. Exactly one row exists per
// (trip, seat definition) pair, created at trip-creation time with a
// price snapshot. Only the reservation finalizer sets IsBooked; the
// admin cancellation path clears it.
type TripSeat struct {
	Base
	TripID           uuid.UUID  `db:"trip_id"`
	SeatDefinitionID uuid.UUID  `db:"seat_definition_id"`
	SeatCode         string     `db:"seat_code"` // snapshot of the definition code
	Price            float64    `db:"price"`     // snapshot at trip creation
	IsBooked         bool       `db:"is_booked"`
	BookedAt         *time.Time `db:"booked_at"`

	// SeatActive is joined from seat_definitions.is_active for availability checks.
	SeatActive bool `db:"is_active"`
}
