package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bus-booking/pkg/leasestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCoordinator() (SeatLockCoordinator, *leasestore.Memory) {
	store := leasestore.NewMemory()
	return NewSeatLockCoordinator(store, zap.NewNop()), store
}

func TestAcquireAllGrantsFreshToken(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	token, err := coordinator.AcquireAll(ctx, tripID, []string{"a1", "A2 ", "A1"}, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// duplicate and lowercase inputs collapse to two normalized seats
	owners, err := coordinator.PeekOwners(ctx, tripID, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": token, "A2": token}, owners)
}

func TestAcquireAllIsAllOrNothing(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	first, err := coordinator.AcquireAll(ctx, tripID, []string{"B2"}, time.Minute)
	require.NoError(t, err)

	_, err = coordinator.AcquireAll(ctx, tripID, []string{"B1", "B2", "B3"}, time.Minute)
	require.Error(t, err)

	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Contains(t, conflict.Seats, "B2")

	// B1 was acquired before the batch hit B2; it must have been rolled back
	owners, err := coordinator.PeekOwners(ctx, tripID, []string{"B1", "B2", "B3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"B2": first}, owners)
}

func TestAcquireAllReportsSeatsHeldBeyondTheFirstFailure(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	_, err := coordinator.AcquireAll(ctx, tripID, []string{"C2", "C4"}, time.Minute)
	require.NoError(t, err)

	_, err = coordinator.AcquireAll(ctx, tripID, []string{"C1", "C2", "C3", "C4"}, time.Minute)
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.ElementsMatch(t, []string{"C2", "C4"}, conflict.Seats)
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	const contenders = 32
	var wg sync.WaitGroup
	tokens := make([]string, contenders)
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = coordinator.AcquireAll(ctx, tripID, []string{"D1"}, time.Minute)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < contenders; i++ {
		if errs[i] == nil {
			winners++
			continue
		}
		var conflict *SeatConflictError
		assert.True(t, errors.As(errs[i], &conflict))
	}
	assert.Equal(t, 1, winners, "exactly one contender may hold the seat")
}

func TestReleaseRejectsForeignToken(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	token, err := coordinator.AcquireAll(ctx, tripID, []string{"E1"}, time.Minute)
	require.NoError(t, err)

	// compare-and-delete with a foreign token leaves the lease alive
	require.NoError(t, coordinator.Release(ctx, tripID, []string{"E1"}, "stranger"))

	owners, err := coordinator.PeekOwners(ctx, tripID, []string{"E1"})
	require.NoError(t, err)
	assert.Equal(t, token, owners["E1"])

	require.NoError(t, coordinator.Release(ctx, tripID, []string{"E1"}, token))

	_, err = coordinator.AcquireAll(ctx, tripID, []string{"E1"}, time.Minute)
	assert.NoError(t, err, "released seat is free to acquire again")
}

func TestAssertOwned(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	token, err := coordinator.AcquireAll(ctx, tripID, []string{"F1", "F2"}, time.Minute)
	require.NoError(t, err)

	assert.NoError(t, coordinator.AssertOwned(ctx, tripID, []string{"F1", "F2"}, token))

	err = coordinator.AssertOwned(ctx, tripID, []string{"F1", "F2", "F3"}, token)
	var unauthorized *SeatUnauthorizedError
	require.True(t, errors.As(err, &unauthorized))
	assert.Equal(t, []string{"F3"}, unauthorized.Seats)

	err = coordinator.AssertOwned(ctx, tripID, []string{"F1"}, "stranger")
	require.True(t, errors.As(err, &unauthorized))
	assert.Equal(t, []string{"F1"}, unauthorized.Seats)
}

func TestExpiredHoldIsReacquirable(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripID := uuid.New()

	first, err := coordinator.AcquireAll(ctx, tripID, []string{"G1"}, 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	second, err := coordinator.AcquireAll(ctx, tripID, []string{"G1"}, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// the stale token can neither release nor pass the ownership check
	var unauthorized *SeatUnauthorizedError
	err = coordinator.AssertOwned(ctx, tripID, []string{"G1"}, first)
	require.True(t, errors.As(err, &unauthorized))
}

func TestAcquireAllEmptySeatList(t *testing.T) {
	coordinator, _ := newTestCoordinator()

	_, err := coordinator.AcquireAll(context.Background(), uuid.New(), []string{"  ", ""}, time.Minute)
	assert.ErrorContains(t, err, "invalid seat list")
}

func TestLeasesAreScopedPerTrip(t *testing.T) {
	coordinator, _ := newTestCoordinator()
	ctx := context.Background()
	tripA := uuid.New()
	tripB := uuid.New()

	_, err := coordinator.AcquireAll(ctx, tripA, []string{"H1"}, time.Minute)
	require.NoError(t, err)

	_, err = coordinator.AcquireAll(ctx, tripB, []string{"H1"}, time.Minute)
	assert.NoError(t, err, "the same seat code on another trip is a different lock")
}
