package repository

import (
	"bus-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Bus            BusRepository
	SeatDefinition SeatDefinitionRepository
	Trip           TripRepository
	TripSeat       TripSeatRepository
	Booking        BookingRepository
	BookingDetail  BookingDetailRepository
	Payment        PaymentRepository
	SeatLease      SeatLeaseRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Bus:            NewBusRepository(db, log),
		SeatDefinition: NewSeatDefinitionRepository(db, log),
		Trip:           NewTripRepository(db, log),
		TripSeat:       NewTripSeatRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		BookingDetail:  NewBookingDetailRepository(db, log),
		Payment:        NewPaymentRepository(db, log),
		SeatLease:      NewSeatLeaseRepository(db, log),
	}
}
