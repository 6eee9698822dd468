package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const maxSeatsForTest = 4

func newTestAvailability(t *testing.T) (AvailabilityService, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := repository.NewRepository(mock, zap.NewNop())
	return NewAvailabilityService(repo, maxSeatsForTest, zap.NewNop()), mock
}

func tripWithBusRow(tripID, busID uuid.UUID, seatMapID *uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "bus_id", "origin", "destination", "departure_at", "created_at", "updated_at",
		"b_id", "name", "plate_number", "seat_map_id", "b_created_at", "b_updated_at",
	}).AddRow(
		tripID, busID, "Jakarta", "Bandung", now.Add(24*time.Hour), now, now,
		busID, "Big Bird 01", "B 1234 XY", seatMapID, now, now,
	)
}

func tripSeatRows(tripID uuid.UUID, seats ...[3]any) *pgxmock.Rows {
	// seats: {code, isBooked, isActive}
	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "trip_id", "seat_definition_id", "seat_code", "price",
		"is_booked", "booked_at", "created_at", "updated_at", "is_active",
	})
	for _, seat := range seats {
		rows.AddRow(
			uuid.New(), tripID, uuid.New(), seat[0], 150000.0,
			seat[1], (*time.Time)(nil), now, now, seat[2],
		)
	}
	return rows
}

func TestValidateSeatsResolvesInventory(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()
	busID := uuid.New()
	seatMapID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(tripWithBusRow(tripID, busID, &seatMapID))
	mock.ExpectQuery("FROM trip_seats ts").
		WithArgs(tripID).
		WillReturnRows(tripSeatRows(tripID,
			[3]any{"A1", false, true},
			[3]any{"A2", false, true},
			[3]any{"A3", false, true},
		))

	seats, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"a2", "A1"})
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "A2", seats[0].SeatCode)
	assert.Equal(t, "A1", seats[1].SeatCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSeatsRejectsEmptyAndOversized(t *testing.T) {
	service, mock := newTestAvailability(t)

	_, err := service.ValidateSeats(context.Background(), mock, uuid.New(), nil)
	assert.ErrorContains(t, err, "invalid seat list")

	_, err = service.ValidateSeats(context.Background(), mock, uuid.New(),
		[]string{"A1", "A2", "A3", "A4", "A5"})
	assert.ErrorContains(t, err, "exceeds the limit")

	// neither case may touch the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSeatsTripNotFound(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"A1"})
	assert.ErrorContains(t, err, "not found")
}

func TestValidateSeatsAggregatesUnknownCodes(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()
	busID := uuid.New()
	seatMapID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(tripWithBusRow(tripID, busID, &seatMapID))
	mock.ExpectQuery("FROM trip_seats ts").
		WithArgs(tripID).
		WillReturnRows(tripSeatRows(tripID, [3]any{"A1", false, true}))

	_, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"A1", "Z8", "Z9"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found in trip inventory")
	assert.ErrorContains(t, err, "Z8")
	assert.ErrorContains(t, err, "Z9")
}

func TestValidateSeatsRejectsInactiveSeats(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()
	busID := uuid.New()
	seatMapID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(tripWithBusRow(tripID, busID, &seatMapID))
	mock.ExpectQuery("FROM trip_seats ts").
		WithArgs(tripID).
		WillReturnRows(tripSeatRows(tripID,
			[3]any{"A1", false, true},
			[3]any{"A2", false, false},
		))

	_, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"A1", "A2"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "inactive")
	assert.ErrorContains(t, err, "A2")
}

func TestValidateSeatsBookedSeatIsConflict(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()
	busID := uuid.New()
	seatMapID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(tripWithBusRow(tripID, busID, &seatMapID))
	mock.ExpectQuery("FROM trip_seats ts").
		WithArgs(tripID).
		WillReturnRows(tripSeatRows(tripID,
			[3]any{"A1", false, true},
			[3]any{"A2", true, true},
		))

	_, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"A1", "A2"})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A2"}, conflict.Seats)
}

func TestValidateSeatsBusWithoutSeatMap(t *testing.T) {
	service, mock := newTestAvailability(t)
	tripID := uuid.New()
	busID := uuid.New()

	mock.ExpectQuery("FROM trips t").
		WithArgs(tripID).
		WillReturnRows(tripWithBusRow(tripID, busID, nil))

	_, err := service.ValidateSeats(context.Background(), mock, tripID, []string{"A1"})
	assert.ErrorContains(t, err, "no seat map")
}
