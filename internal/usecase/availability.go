package usecase

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/database"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService cross-checks a requested seat list against the
// trip's durable inventory. It runs on the caller's Queryer so the check
// shares a transaction with whatever the caller does next; concurrent
// bookings committing seat state cannot race the validation.
type AvailabilityService interface {
	// ValidateSeats resolves seat codes to trip seat rows, or fails
	// with a single aggregated error: unknown codes first, then
	// inactive seats, then fail-fast on the first booked seat.
	ValidateSeats(ctx context.Context, q database.Queryer, tripID uuid.UUID, seatCodes []string) ([]*entity.TripSeat, error)
}

type availabilityService struct {
	repo     *repository.Repository
	maxSeats int
	log      *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, maxSeats int, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:     repo,
		maxSeats: maxSeats,
		log:      log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) ValidateSeats(ctx context.Context, q database.Queryer, tripID uuid.UUID, seatCodes []string) ([]*entity.TripSeat, error) {
	codes := utils.NormalizeSeatCodes(seatCodes)
	if len(codes) == 0 {
		return nil, fmt.Errorf("invalid seat list: empty")
	}
	if len(codes) > s.maxSeats {
		return nil, fmt.Errorf("invalid seat list: %d seats exceeds the limit of %d per booking", len(codes), s.maxSeats)
	}

	trip, bus, err := s.repo.Trip.FindWithBus(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("load trip: %w", err)
	}
	if trip == nil {
		return nil, fmt.Errorf("trip %s not found", tripID.String())
	}
	if bus == nil || bus.SeatMapID == nil {
		return nil, fmt.Errorf("trip %s has no seat map", tripID.String())
	}

	tripSeats, err := s.repo.TripSeat.FindByTripID(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("load trip seats: %w", err)
	}

	byCode := make(map[string]*entity.TripSeat, len(tripSeats))
	for _, seat := range tripSeats {
		byCode[seat.SeatCode] = seat
	}

	var unknown, inactive []string
	resolved := make([]*entity.TripSeat, 0, len(codes))
	for _, code := range codes {
		seat, ok := byCode[code]
		if !ok {
			unknown = append(unknown, code)
			continue
		}
		if !seat.SeatActive {
			inactive = append(inactive, code)
			continue
		}
		resolved = append(resolved, seat)
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("seats not found in trip inventory: %v", unknown)
	}
	if len(inactive) > 0 {
		return nil, fmt.Errorf("invalid seat list: seats inactive: %v", inactive)
	}

	// booked conflict is a hard stop, fail fast on the first one
	for _, seat := range resolved {
		if seat.IsBooked {
			s.log.Info("Seat validation hit booked seat",
				zap.String("trip_id", tripID.String()),
				zap.String("seat_code", seat.SeatCode),
			)
			return nil, &SeatConflictError{Seats: []string{seat.SeatCode}}
		}
	}

	return resolved, nil
}
