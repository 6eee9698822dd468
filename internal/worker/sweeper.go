// Package worker holds background tasks owned by the process lifecycle.
package worker

import (
	"context"
	"time"

	"bus-booking/internal/data/repository"

	"go.uber.org/zap"
)

// Sweeper reconciles durable lease shadow rows whose expiry has passed,
// marking them expired in bulk. Bookkeeping only: the lease store's TTL
// already frees seats functionally, so a missed sweep never blocks a
// hold.
type Sweeper struct {
	leases   repository.SeatLeaseRepository
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(leases repository.SeatLeaseRepository, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		leases:   leases,
		interval: interval,
		log:      log.With(zap.String("worker", "lease_sweeper")),
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Lease sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Lease sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	trips, count, err := s.leases.ExpireStale(ctx, time.Now())
	if err != nil {
		s.log.Error("Lease sweep failed", zap.Error(err))
		return
	}

	if count == 0 {
		return
	}

	tripIDs := make([]string, len(trips))
	for i, tripID := range trips {
		tripIDs[i] = tripID.String()
	}

	s.log.Info("Stale leases expired",
		zap.Int64("leases", count),
		zap.Strings("trips", tripIDs),
	)
}
