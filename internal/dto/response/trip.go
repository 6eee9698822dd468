package response

import (
	"time"

	"bus-booking/internal/data/entity"
)

// Seat statuses as shown to viewers of a trip. Booked wins over held.
const (
	SeatStatusAvailable = "available"
	SeatStatusHeld      = "held"
	SeatStatusBooked    = "booked"
)

type TripResponse struct {
	ID          string    `json:"id"`
	BusID       string    `json:"bus_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departure_at"`
	TotalSeats  int       `json:"total_seats,omitempty"`
}

// SeatSnapshotResponse maps seat code to status for availability display.
type SeatSnapshotResponse struct {
	TripID string            `json:"trip_id"`
	Seats  map[string]string `json:"seats"`
}

func TripToResponse(trip *entity.Trip, totalSeats int) *TripResponse {
	return &TripResponse{
		ID:          trip.ID.String(),
		BusID:       trip.BusID.String(),
		Origin:      trip.Origin,
		Destination: trip.Destination,
		DepartureAt: trip.DepartureAt,
		TotalSeats:  totalSeats,
	}
}
