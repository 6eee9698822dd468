package usecase

import (
	"time"

	"github.com/google/uuid"
)

// Seat-state transition kinds announced to viewers of a trip.
const (
	AnnounceHeld     = "held"
	AnnounceReleased = "released"
	AnnounceBooked   = "booked"
)

// Broadcaster publishes seat-state transitions to all subscribers of a
// trip's channel. Delivery is best-effort, at-most-once per connected
// subscriber; it is not a durable log.
type Broadcaster interface {
	Announce(tripID uuid.UUID, kind string, seatCodes []string, expiresAt *time.Time)
}
