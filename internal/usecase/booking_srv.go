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

type BookingService interface {
	// CreateBooking validates durable availability inside a transaction
	// and persists a PENDING booking with its passenger/seat details.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// CancelBooking is the admin path: transitions to CANCELLED,
	// un-books any booked seats and releases held leases.
	CancelBooking(ctx context.Context, bookingID string) error
}

type bookingService struct {
	db           database.PgxIface
	repo         *repository.Repository
	availability AvailabilityService
	locks        SeatLockCoordinator
	broadcast    Broadcaster
	log          *zap.Logger
}

func NewBookingService(
	db database.PgxIface,
	repo *repository.Repository,
	availability AvailabilityService,
	locks SeatLockCoordinator,
	broadcast Broadcaster,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		db:           db,
		repo:         repo,
		availability: availability,
		locks:        locks,
		broadcast:    broadcast,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID format %s: %w", req.TripID, err)
	}

	seatCodes := make([]string, len(req.Passengers))
	for i, passenger := range req.Passengers {
		seatCodes[i] = passenger.SeatCode
	}
	seatCodes = utils.NormalizeSeatCodes(seatCodes)
	if len(seatCodes) != len(req.Passengers) {
		return nil, fmt.Errorf("invalid seat list: duplicate seat assignments")
	}

	// advisory: when the client passes its hold token, make sure the
	// leases actually back the requested seats before persisting
	if req.Token != "" {
		if err := s.locks.AssertOwned(ctx, tripID, seatCodes, req.Token); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tripSeats, err := s.availability.ValidateSeats(ctx, tx, tripID, seatCodes)
	if err != nil {
		return nil, err
	}

	seatByCode := make(map[string]*entity.TripSeat, len(tripSeats))
	totalPrice := 0.0
	for _, seat := range tripSeats {
		seatByCode[seat.SeatCode] = seat
		totalPrice += seat.Price
	}

	now := time.Now()
	var holdToken *string
	if req.Token != "" {
		holdToken = &req.Token
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderRef:     utils.GenerateOrderRef(),
		TripID:       tripID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		HoldToken:    holdToken,
		TotalSeats:   len(tripSeats),
		TotalPrice:   totalPrice,
		Status:       entity.BookingStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, tx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	details := make([]*entity.BookingDetail, len(req.Passengers))
	for i, passenger := range req.Passengers {
		code := utils.NormalizeSeatCodes([]string{passenger.SeatCode})[0]
		seat := seatByCode[code]
		details[i] = &entity.BookingDetail{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:     booking.ID,
			TripSeatID:    seat.ID,
			SeatCode:      code,
			PassengerName: passenger.PassengerName,
			Price:         seat.Price,
		}
	}

	if err := s.repo.BookingDetail.CreateBatch(ctx, tx, details); err != nil {
		return nil, fmt.Errorf("create booking details: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking transaction: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_ref", booking.OrderRef),
		zap.String("trip_id", req.TripID),
		zap.Int("seat_count", len(details)),
		zap.Float64("total_price", totalPrice),
	)

	return response.BookingToResponse(booking, details), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	details, err := s.repo.BookingDetail.FindByBookingID(ctx, s.db, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking details: %w", err)
	}

	return response.BookingToResponse(booking, details), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.Booking.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusConfirmed {
		return fmt.Errorf("booking status is %s, cannot cancel", booking.Status)
	}

	details, err := s.repo.BookingDetail.FindByBookingID(ctx, tx, booking.ID)
	if err != nil {
		return fmt.Errorf("load booking details: %w", err)
	}

	seatIDs := make([]uuid.UUID, len(details))
	seatCodes := make([]string, len(details))
	for i, detail := range details {
		seatIDs[i] = detail.TripSeatID
		seatCodes[i] = detail.SeatCode
	}

	// a confirmed booking owns its seats durably; give them back
	if booking.Status == entity.BookingStatusConfirmed {
		if err := s.repo.TripSeat.Unbook(ctx, tx, seatIDs); err != nil {
			return fmt.Errorf("unbook trip seats: %w", err)
		}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, tx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel transaction: %w", err)
	}

	// leases are advisory at this point; drop whatever is still live
	if booking.HoldToken != nil {
		if err := s.locks.Release(ctx, booking.TripID, seatCodes, *booking.HoldToken); err != nil {
			s.log.Warn("Failed to release leases on cancel", zap.Error(err))
		}
		if err := s.repo.SeatLease.ReleaseByToken(ctx, *booking.HoldToken); err != nil {
			s.log.Warn("Failed to mark lease shadow rows released", zap.Error(err))
		}
	}

	s.broadcast.Announce(booking.TripID, AnnounceReleased, seatCodes, nil)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("order_ref", booking.OrderRef),
	)

	return nil
}
