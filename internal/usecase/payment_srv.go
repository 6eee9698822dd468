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

type PaymentService interface {
	// InitPayment opens a payment attempt against a PENDING booking and
	// returns the provider-facing order id.
	InitPayment(ctx context.Context, req *request.InitPaymentRequest) (*response.PaymentResponse, error)

	// Finalize is the single entry point for gateway success callbacks.
	// Idempotent by order id: webhook retries and duplicates are no-ops.
	Finalize(ctx context.Context, orderID string, amount float64, payload map[string]any) error
}

type paymentService struct {
	db        database.PgxIface
	repo      *repository.Repository
	locks     SeatLockCoordinator
	broadcast Broadcaster
	log       *zap.Logger
}

func NewPaymentService(
	db database.PgxIface,
	repo *repository.Repository,
	locks SeatLockCoordinator,
	broadcast Broadcaster,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		db:        db,
		repo:      repo,
		locks:     locks,
		broadcast: broadcast,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitPayment(ctx context.Context, req *request.InitPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Init payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", req.BookingID)
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking status is %s, cannot start payment", booking.Status)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		OrderID:   utils.GeneratePaymentOrderID(),
		Provider:  req.Provider,
		Amount:    booking.TotalPrice,
		Status:    entity.PaymentStatusInit,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Payment initialized",
		zap.String("order_id", payment.OrderID),
		zap.String("booking_id", req.BookingID),
		zap.String("provider", req.Provider),
		zap.Float64("amount", payment.Amount),
	)

	paymentResp := response.PaymentToResponse(payment)
	return &paymentResp, nil
}

// Finalize durably converts a paid booking's held seats into booked
// seats, exactly once per order id. The lease was advisory UX
// exclusivity; the transactional re-read of trip seat state here is
// what actually prevents double-booking, so finalization still succeeds
// after lease TTL expiry as long as no one else booked the seats.
func (s *paymentService) Finalize(ctx context.Context, orderID string, amount float64, payload map[string]any) error {
	if orderID == "" {
		return fmt.Errorf("invalid order ID: empty")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin finalize transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	payment, err := s.repo.Payment.FindByOrderIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment with order ID %s not found", orderID)
	}

	if payment.Status == entity.PaymentStatusSuccess {
		s.log.Info("Duplicate finalize, payment already succeeded",
			zap.String("order_id", orderID),
		)
		return nil
	}

	booking, err := s.repo.Booking.FindByIDForUpdate(ctx, tx, payment.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", payment.BookingID.String())
	}

	// a cancelled booking or a duplicate webhook that raced us: no-op
	if booking.Status != entity.BookingStatusPending {
		s.log.Info("Finalize on non-pending booking, treating as no-op",
			zap.String("order_id", orderID),
			zap.String("booking_status", string(booking.Status)),
		)
		return tx.Commit(ctx)
	}

	if amount != booking.TotalPrice {
		if err := s.repo.Payment.UpdateStatus(ctx, tx, payment.ID, entity.PaymentStatusFailed); err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit finalize transaction: %w", err)
		}
		return fmt.Errorf("validation failed: payment amount %.2f does not match booking total %.2f", amount, booking.TotalPrice)
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

	// re-read under row locks: the durable arbiter against a lost
	// update between concurrent finalizations
	tripSeats, err := s.repo.TripSeat.FindForUpdate(ctx, tx, seatIDs)
	if err != nil {
		return fmt.Errorf("lock trip seats: %w", err)
	}

	var conflicted []string
	for _, seat := range tripSeats {
		if seat.IsBooked {
			conflicted = append(conflicted, seat.SeatCode)
		}
	}
	if len(conflicted) > 0 {
		if err := s.repo.Payment.UpdateStatus(ctx, tx, payment.ID, entity.PaymentStatusFailed); err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit finalize transaction: %w", err)
		}
		return &SeatConflictError{Seats: conflicted}
	}

	now := time.Now()
	if err := s.repo.TripSeat.MarkBooked(ctx, tx, seatIDs, now); err != nil {
		return fmt.Errorf("mark trip seats booked: %w", err)
	}
	if err := s.repo.Booking.UpdateStatus(ctx, tx, booking.ID, entity.BookingStatusConfirmed); err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	if err := s.repo.Payment.UpdateStatus(ctx, tx, payment.ID, entity.PaymentStatusSuccess); err != nil {
		return fmt.Errorf("mark payment succeeded: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit finalize transaction: %w", err)
	}

	// leases are done their job; drop them after commit
	if booking.HoldToken != nil {
		if err := s.locks.Release(ctx, booking.TripID, seatCodes, *booking.HoldToken); err != nil {
			s.log.Warn("Failed to release leases after finalize", zap.Error(err))
		}
		if err := s.repo.SeatLease.ReleaseByToken(ctx, *booking.HoldToken); err != nil {
			s.log.Warn("Failed to mark lease shadow rows released", zap.Error(err))
		}
	} else if err := s.locks.ReleaseAny(ctx, booking.TripID, seatCodes); err != nil {
		s.log.Warn("Failed to release leases after finalize", zap.Error(err))
	}

	s.broadcast.Announce(booking.TripID, AnnounceBooked, seatCodes, nil)

	s.log.Info("Booking finalized",
		zap.String("order_id", orderID),
		zap.String("booking_id", booking.ID.String()),
		zap.Strings("seats", seatCodes),
		zap.Float64("amount", amount),
	)

	return nil
}
