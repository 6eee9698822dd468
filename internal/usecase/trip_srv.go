package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/database"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripService interface {
	// CreateTrip materializes one trip seat per active seat definition
	// of the bus's seat map, snapshotting prices at creation time.
	CreateTrip(ctx context.Context, req *request.CreateTripRequest) (*response.TripResponse, error)

	GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error)

	// SeatStatuses merges durable trip seat state with a live read of
	// the lease store: seat code -> available|held|booked. Also feeds
	// the realtime snapshot for new subscribers.
	SeatStatuses(ctx context.Context, tripID uuid.UUID) (map[string]string, error)

	// SetSeatActive toggles a seat definition's active flag. Inactive
	// seats are skipped when new trips materialize and rejected by
	// availability validation on existing trips.
	SetSeatActive(ctx context.Context, seatDefinitionID string, isActive bool) error
}

type tripService struct {
	db    database.PgxIface
	repo  *repository.Repository
	locks SeatLockCoordinator
	log   *zap.Logger
}

func NewTripService(db database.PgxIface, repo *repository.Repository, locks SeatLockCoordinator, log *zap.Logger) TripService {
	return &tripService{
		db:    db,
		repo:  repo,
		locks: locks,
		log:   log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) CreateTrip(ctx context.Context, req *request.CreateTripRequest) (*response.TripResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create trip validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus ID format %s: %w", req.BusID, err)
	}

	bus, err := s.repo.Bus.FindByID(ctx, busID)
	if err != nil || bus == nil {
		return nil, fmt.Errorf("bus %s not found", req.BusID)
	}
	if bus.SeatMapID == nil {
		return nil, fmt.Errorf("bus %s has no seat map, cannot create trip", req.BusID)
	}

	definitions, err := s.repo.SeatDefinition.FindActiveBySeatMapID(ctx, *bus.SeatMapID)
	if err != nil {
		return nil, fmt.Errorf("load seat definitions: %w", err)
	}
	if len(definitions) == 0 {
		return nil, fmt.Errorf("seat map %s has no active seats", bus.SeatMapID.String())
	}

	now := time.Now()
	trip := &entity.Trip{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusID:       busID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: req.DepartureAt,
	}

	tripSeats := make([]*entity.TripSeat, len(definitions))
	for i, definition := range definitions {
		tripSeats[i] = &entity.TripSeat{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			TripID:           trip.ID,
			SeatDefinitionID: definition.ID,
			SeatCode:         definition.Code,
			Price:            definition.BasePrice, // snapshot, later price edits don't apply
			IsBooked:         false,
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin trip transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Trip.Create(ctx, tx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	if err := s.repo.TripSeat.CreateBatch(ctx, tx, tripSeats); err != nil {
		return nil, fmt.Errorf("create trip seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit trip transaction: %w", err)
	}

	s.log.Info("Trip created",
		zap.String("trip_id", trip.ID.String()),
		zap.String("bus_id", req.BusID),
		zap.Int("seat_count", len(tripSeats)),
	)

	return response.TripToResponse(trip, len(tripSeats)), nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID format %s: %w", tripID, err)
	}

	trip, err := s.repo.Trip.FindByID(ctx, id)
	if err != nil || trip == nil {
		return nil, fmt.Errorf("trip %s not found", tripID)
	}

	seats, err := s.repo.TripSeat.FindByTripID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("load trip seats: %w", err)
	}

	return response.TripToResponse(trip, len(seats)), nil
}

func (s *tripService) SetSeatActive(ctx context.Context, seatDefinitionID string, isActive bool) error {
	id, err := uuid.Parse(seatDefinitionID)
	if err != nil {
		return fmt.Errorf("invalid seat definition ID format %s: %w", seatDefinitionID, err)
	}

	if err := s.repo.SeatDefinition.UpdateActive(ctx, id, isActive); err != nil {
		return err
	}

	s.log.Info("Seat definition active flag updated",
		zap.String("seat_definition_id", seatDefinitionID),
		zap.Bool("is_active", isActive),
	)

	return nil
}

func (s *tripService) SeatStatuses(ctx context.Context, tripID uuid.UUID) (map[string]string, error) {
	seats, err := s.repo.TripSeat.FindByTripID(ctx, s.db, tripID)
	if err != nil {
		return nil, fmt.Errorf("load trip seats: %w", err)
	}
	if len(seats) == 0 {
		return nil, fmt.Errorf("trip %s not found", tripID.String())
	}

	codes := make([]string, len(seats))
	for i, seat := range seats {
		codes[i] = seat.SeatCode
	}

	// best effort: a lease store outage just shows fewer holds
	owners, err := s.locks.PeekOwners(ctx, tripID, codes)
	if err != nil {
		s.log.Warn("Seat status peek degraded", zap.Error(err))
		owners = map[string]string{}
	}

	statuses := make(map[string]string, len(seats))
	for _, seat := range seats {
		switch {
		case seat.IsBooked:
			statuses[seat.SeatCode] = response.SeatStatusBooked
		case owners[seat.SeatCode] != "":
			statuses[seat.SeatCode] = response.SeatStatusHeld
		default:
			statuses[seat.SeatCode] = response.SeatStatusAvailable
		}
	}

	return statuses, nil
}
