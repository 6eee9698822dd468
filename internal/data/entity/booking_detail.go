package entity

import "github.com/google/uuid"

// BookingDetail assigns one passenger to one trip seat with a price snapshot.
type BookingDetail struct {
	BaseSimple
	BookingID     uuid.UUID `db:"booking_id"`
	TripSeatID    uuid.UUID `db:"trip_seat_id"`
	SeatCode      string    `db:"seat_code"`
	PassengerName string    `db:"passenger_name"`
	Price         float64   `db:"price"`
}
