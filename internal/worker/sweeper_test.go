package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLeaseRepo struct {
	sweeps atomic.Int64
}

func (r *countingLeaseRepo) CreateBatch(ctx context.Context, leases []*entity.SeatLease) error {
	return nil
}

func (r *countingLeaseRepo) ReleaseByToken(ctx context.Context, token string) error {
	return nil
}

func (r *countingLeaseRepo) ExpireStale(ctx context.Context, now time.Time) ([]uuid.UUID, int64, error) {
	r.sweeps.Add(1)
	return []uuid.UUID{uuid.New()}, 3, nil
}

func TestSweeperRunsOnIntervalUntilCancelled(t *testing.T) {
	repo := &countingLeaseRepo{}
	sweeper := NewSweeper(repo, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return repo.sweeps.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}

	after := repo.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, repo.sweeps.Load(), "no sweeps after shutdown")
}
