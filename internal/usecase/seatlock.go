package usecase

import (
	"context"
	"fmt"
	"time"

	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatLockCoordinator wraps the lease store with per-seat lock semantics
// and all-or-nothing multi-seat acquisition. Per-seat mutual exclusion
// comes from the store's set-if-absent; there is no cross-seat atomicity
// beyond rollback, which is acceptable because any seat left locked by a
// crashed rollback self-heals via TTL.
type SeatLockCoordinator interface {
	// AcquireAll claims every seat under one fresh token. On any
	// failure it releases the seats it acquired and returns a
	// SeatConflictError naming the seats that were already held.
	AcquireAll(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (string, error)

	// Release compare-and-deletes each seat's lease by token.
	Release(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error

	// ReleaseAny deletes leases regardless of owner. Used by flows that
	// no longer know the token, such as finalization of an old booking.
	ReleaseAny(ctx context.Context, tripID uuid.UUID, seatCodes []string) error

	// AssertOwned fails with a SeatUnauthorizedError naming every seat
	// whose lease is absent or owned by a different token.
	AssertOwned(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error

	// PeekOwners reports current lease owners by seat code, best effort.
	PeekOwners(ctx context.Context, tripID uuid.UUID, seatCodes []string) (map[string]string, error)
}

type seatLockCoordinator struct {
	store leasestore.Store
	log   *zap.Logger
}

func NewSeatLockCoordinator(store leasestore.Store, log *zap.Logger) SeatLockCoordinator {
	return &seatLockCoordinator{
		store: store,
		log:   log.With(zap.String("service", "seatlock")),
	}
}

func leaseKey(tripID uuid.UUID, seatCode string) string {
	return fmt.Sprintf("seatlock:%s:%s", tripID.String(), seatCode)
}

func (c *seatLockCoordinator) AcquireAll(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (string, error) {
	seatCodes = utils.NormalizeSeatCodes(seatCodes)
	if len(seatCodes) == 0 {
		return "", fmt.Errorf("invalid seat list: empty")
	}

	token := utils.GenerateHoldToken()

	acquired := make([]string, 0, len(seatCodes))
	for i, code := range seatCodes {
		ok, err := c.store.Acquire(ctx, leaseKey(tripID, code), token, ttl)
		if err != nil {
			c.rollback(tripID, acquired, token)
			return "", fmt.Errorf("acquire lease for seat %s: %w", code, err)
		}
		if !ok {
			failed := []string{code}
			// best-effort probe of the seats we never attempted, so the
			// caller learns about every contested seat in one round trip
			if owners, peekErr := c.PeekOwners(ctx, tripID, seatCodes[i+1:]); peekErr == nil {
				for _, rest := range seatCodes[i+1:] {
					if _, held := owners[rest]; held {
						failed = append(failed, rest)
					}
				}
			}

			c.rollback(tripID, acquired, token)

			c.log.Info("Seat hold rejected",
				zap.String("trip_id", tripID.String()),
				zap.Strings("failed_seats", failed),
			)
			return "", &SeatConflictError{Seats: failed}
		}
		acquired = append(acquired, code)
	}

	c.log.Info("Seats locked",
		zap.String("trip_id", tripID.String()),
		zap.Strings("seats", seatCodes),
		zap.Duration("ttl", ttl),
	)

	return token, nil
}

// rollback releases seats acquired by a failed batch. Best effort: a
// lease that survives a failed release still expires via TTL.
func (c *seatLockCoordinator) rollback(tripID uuid.UUID, seatCodes []string, token string) {
	if len(seatCodes) == 0 {
		return
	}

	// detached context: rollback must run even when the caller's
	// context is already cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, code := range seatCodes {
		if err := c.store.Release(ctx, leaseKey(tripID, code), token); err != nil {
			c.log.Warn("Rollback release failed, lease will expire via TTL",
				zap.Error(err),
				zap.String("trip_id", tripID.String()),
				zap.String("seat_code", code),
			)
		}
	}
}

func (c *seatLockCoordinator) Release(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error {
	for _, code := range utils.NormalizeSeatCodes(seatCodes) {
		if err := c.store.Release(ctx, leaseKey(tripID, code), token); err != nil {
			return fmt.Errorf("release lease for seat %s: %w", code, err)
		}
	}

	return nil
}

func (c *seatLockCoordinator) ReleaseAny(ctx context.Context, tripID uuid.UUID, seatCodes []string) error {
	codes := utils.NormalizeSeatCodes(seatCodes)
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = leaseKey(tripID, code)
	}

	return c.store.ReleaseAny(ctx, keys...)
}

func (c *seatLockCoordinator) AssertOwned(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error {
	codes := utils.NormalizeSeatCodes(seatCodes)
	owners, err := c.PeekOwners(ctx, tripID, codes)
	if err != nil {
		return fmt.Errorf("read lease owners: %w", err)
	}

	var notOwned []string
	for _, code := range codes {
		if owners[code] != token {
			notOwned = append(notOwned, code)
		}
	}

	if len(notOwned) > 0 {
		return &SeatUnauthorizedError{Seats: notOwned}
	}

	return nil
}

func (c *seatLockCoordinator) PeekOwners(ctx context.Context, tripID uuid.UUID, seatCodes []string) (map[string]string, error) {
	codes := utils.NormalizeSeatCodes(seatCodes)
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = leaseKey(tripID, code)
	}

	byKey, err := c.store.PeekMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("peek leases: %w", err)
	}

	owners := make(map[string]string, len(byKey))
	for i, key := range keys {
		if owner, ok := byKey[key]; ok {
			owners[codes[i]] = owner
		}
	}

	return owners, nil
}
