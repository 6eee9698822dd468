package usecase

import (
	"time"

	"bus-booking/internal/data/repository"
	"bus-booking/pkg/database"
	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	SeatLock     SeatLockCoordinator
	Availability AvailabilityService
	Hold         HoldService
	Trip         TripService
	Booking      BookingService
	Payment      PaymentService
}

func NewService(
	db database.PgxIface,
	repo *repository.Repository,
	store leasestore.Store,
	broadcast Broadcaster,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	locks := NewSeatLockCoordinator(store, log)
	availability := NewAvailabilityService(repo, config.Hold.MaxSeatsPerBooking, log)
	defaultTTL := time.Duration(config.Hold.TTLSeconds) * time.Second

	return &Service{
		SeatLock:     locks,
		Availability: availability,
		Hold:         NewHoldService(locks, repo.SeatLease, broadcast, defaultTTL, log),
		Trip:         NewTripService(db, repo, locks, log),
		Booking:      NewBookingService(db, repo, availability, locks, broadcast, log),
		Payment:      NewPaymentService(db, repo, locks, broadcast, log),
	}
}
