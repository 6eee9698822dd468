package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/response"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldService turns a seat list into an active lease set. It is
// concerned purely with mutual exclusion: durable availability is the
// booking flow's job, which keeps this layer free of the relational
// store on the hot path.
type HoldService interface {
	Hold(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (*response.HoldResponse, error)
	Release(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error
}

type holdService struct {
	locks      SeatLockCoordinator
	leases     repository.SeatLeaseRepository
	broadcast  Broadcaster
	defaultTTL time.Duration
	log        *zap.Logger
}

func NewHoldService(
	locks SeatLockCoordinator,
	leases repository.SeatLeaseRepository,
	broadcast Broadcaster,
	defaultTTL time.Duration,
	log *zap.Logger,
) HoldService {
	return &holdService{
		locks:      locks,
		leases:     leases,
		broadcast:  broadcast,
		defaultTTL: defaultTTL,
		log:        log.With(zap.String("service", "hold")),
	}
}

func (s *holdService) Hold(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (*response.HoldResponse, error) {
	codes := utils.NormalizeSeatCodes(seatCodes)
	if len(codes) == 0 {
		return nil, fmt.Errorf("invalid seat list: empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	token, err := s.locks.AcquireAll(ctx, tripID, codes, ttl)
	if err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, fmt.Errorf("acquire seat locks: %w", err)
	}

	expiresAt := time.Now().Add(ttl)

	// durable shadow rows for audit; the lease store TTL is the
	// functional unlock, so a failed insert only costs bookkeeping
	if err := s.leases.CreateBatch(ctx, buildLeaseRecords(tripID, codes, token, expiresAt)); err != nil {
		s.log.Warn("Failed to record lease shadow rows", zap.Error(err))
	}

	s.broadcast.Announce(tripID, AnnounceHeld, codes, &expiresAt)

	s.log.Info("Seats held",
		zap.String("trip_id", tripID.String()),
		zap.Strings("seats", codes),
		zap.Time("expires_at", expiresAt),
	)

	return &response.HoldResponse{
		Token:     token,
		SeatCodes: codes,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

func (s *holdService) Release(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error {
	codes := utils.NormalizeSeatCodes(seatCodes)
	if len(codes) == 0 {
		return fmt.Errorf("invalid seat list: empty")
	}
	if token == "" {
		return fmt.Errorf("invalid token: empty")
	}

	// guard against releasing seats this token never held, whether by
	// client error or a stale token
	if err := s.locks.AssertOwned(ctx, tripID, codes, token); err != nil {
		return err
	}

	if err := s.locks.Release(ctx, tripID, codes, token); err != nil {
		return fmt.Errorf("release seat locks: %w", err)
	}

	if err := s.leases.ReleaseByToken(ctx, token); err != nil {
		s.log.Warn("Failed to mark lease shadow rows released", zap.Error(err))
	}

	s.broadcast.Announce(tripID, AnnounceReleased, codes, nil)

	s.log.Info("Seats released",
		zap.String("trip_id", tripID.String()),
		zap.Strings("seats", codes),
	)

	return nil
}

func buildLeaseRecords(tripID uuid.UUID, codes []string, token string, expiresAt time.Time) []*entity.SeatLease {
	now := time.Now()
	leases := make([]*entity.SeatLease, len(codes))
	for i, code := range codes {
		leases[i] = &entity.SeatLease{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			TripID:    tripID,
			SeatCode:  code,
			Token:     token,
			Status:    entity.LeaseStatusActive,
			ExpiresAt: expiresAt,
		}
	}
	return leases
}
