package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/pkg/leasestore"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type finalizeFixture struct {
	service   PaymentService
	mock      pgxmock.PgxPoolIface
	broadcast *fakeBroadcaster

	orderID   string
	paymentID uuid.UUID
	bookingID uuid.UUID
	tripID    uuid.UUID
	holdToken string
	seatIDs   []uuid.UUID
}

func newFinalizeFixture(t *testing.T) *finalizeFixture {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := repository.NewRepository(mock, zap.NewNop())
	locks := NewSeatLockCoordinator(leasestore.NewMemory(), zap.NewNop())
	broadcast := &fakeBroadcaster{}

	return &finalizeFixture{
		service:   NewPaymentService(mock, repo, locks, broadcast, zap.NewNop()),
		mock:      mock,
		broadcast: broadcast,
		orderID:   "PAY-20260901-0001",
		paymentID: uuid.New(),
		bookingID: uuid.New(),
		tripID:    uuid.New(),
		holdToken: uuid.NewString(),
		seatIDs:   []uuid.UUID{uuid.New(), uuid.New()},
	}
}

func (f *finalizeFixture) paymentRow(status entity.PaymentStatus, amount float64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "booking_id", "order_id", "provider", "amount", "status", "created_at", "updated_at",
	}).AddRow(f.paymentID, f.bookingID, f.orderID, "midtrans", amount, status, now, now)
}

func (f *finalizeFixture) bookingRow(status entity.BookingStatus, total float64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "order_ref", "trip_id", "contact_name", "contact_email",
		"hold_token", "total_seats", "total_price", "status", "created_at", "updated_at",
	}).AddRow(
		f.bookingID, "BOOK-20260901-0001", f.tripID, "Budi Santoso", "budi@example.com",
		&f.holdToken, 2, total, status, now, now,
	)
}

func (f *finalizeFixture) detailRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "booking_id", "trip_seat_id", "seat_code", "passenger_name", "price", "created_at",
	}).
		AddRow(uuid.New(), f.bookingID, f.seatIDs[0], "A1", "Budi Santoso", 150000.0, now).
		AddRow(uuid.New(), f.bookingID, f.seatIDs[1], "A2", "Siti Santoso", 150000.0, now)
}

func (f *finalizeFixture) lockedSeatRows(booked ...bool) *pgxmock.Rows {
	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "trip_id", "seat_definition_id", "seat_code", "price",
		"is_booked", "booked_at", "created_at", "updated_at",
	})
	codes := []string{"A1", "A2"}
	for i, id := range f.seatIDs {
		rows.AddRow(id, f.tripID, uuid.New(), codes[i], 150000.0, booked[i], (*time.Time)(nil), now, now)
	}
	return rows
}

func TestFinalizeConfirmsBookingAndMarksSeats(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(f.paymentRow(entity.PaymentStatusInit, 300000))
	f.mock.ExpectQuery("FROM bookings").
		WithArgs(f.bookingID).
		WillReturnRows(f.bookingRow(entity.BookingStatusPending, 300000))
	f.mock.ExpectQuery("FROM booking_details").
		WithArgs(f.bookingID).
		WillReturnRows(f.detailRows())
	f.mock.ExpectQuery("FROM trip_seats").
		WithArgs(f.seatIDs).
		WillReturnRows(f.lockedSeatRows(false, false))
	f.mock.ExpectExec("UPDATE trip_seats").
		WithArgs(f.seatIDs, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	f.mock.ExpectExec("UPDATE bookings").
		WithArgs(f.bookingID, entity.BookingStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectExec("UPDATE payments").
		WithArgs(f.paymentID, entity.PaymentStatusSuccess).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit()
	f.mock.ExpectExec("UPDATE seat_leases").
		WithArgs(f.holdToken, entity.LeaseStatusReleased, entity.LeaseStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	f.mock.ExpectRollback() // deferred rollback after commit is a no-op

	err := f.service.Finalize(context.Background(), f.orderID, 300000, nil)
	require.NoError(t, err)

	announcements := f.broadcast.all()
	require.Len(t, announcements, 1)
	assert.Equal(t, AnnounceBooked, announcements[0].kind)
	assert.Equal(t, f.tripID, announcements[0].tripID)
	assert.Equal(t, []string{"A1", "A2"}, announcements[0].seatCodes)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFinalizeDuplicateWebhookIsIdempotent(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(f.paymentRow(entity.PaymentStatusSuccess, 300000))
	f.mock.ExpectRollback()

	err := f.service.Finalize(context.Background(), f.orderID, 300000, nil)
	require.NoError(t, err, "a replayed success webhook is a no-op")

	assert.Empty(t, f.broadcast.all(), "duplicate must not re-announce")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFinalizeUnknownOrder(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	f.mock.ExpectRollback()

	err := f.service.Finalize(context.Background(), f.orderID, 300000, nil)
	assert.ErrorContains(t, err, "not found")
}

func TestFinalizeOnCancelledBookingIsNoOp(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(f.paymentRow(entity.PaymentStatusInit, 300000))
	f.mock.ExpectQuery("FROM bookings").
		WithArgs(f.bookingID).
		WillReturnRows(f.bookingRow(entity.BookingStatusCancelled, 300000))
	f.mock.ExpectCommit()
	f.mock.ExpectRollback()

	err := f.service.Finalize(context.Background(), f.orderID, 300000, nil)
	require.NoError(t, err)
	assert.Empty(t, f.broadcast.all())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFinalizeAmountMismatchFailsPayment(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(f.paymentRow(entity.PaymentStatusInit, 300000))
	f.mock.ExpectQuery("FROM bookings").
		WithArgs(f.bookingID).
		WillReturnRows(f.bookingRow(entity.BookingStatusPending, 300000))
	f.mock.ExpectExec("UPDATE payments").
		WithArgs(f.paymentID, entity.PaymentStatusFailed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit()
	f.mock.ExpectRollback()

	err := f.service.Finalize(context.Background(), f.orderID, 250000, nil)
	assert.ErrorContains(t, err, "validation failed")
	assert.Empty(t, f.broadcast.all())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFinalizeBookedSeatIsConflict(t *testing.T) {
	f := newFinalizeFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery("FROM payments").
		WithArgs(f.orderID).
		WillReturnRows(f.paymentRow(entity.PaymentStatusInit, 300000))
	f.mock.ExpectQuery("FROM bookings").
		WithArgs(f.bookingID).
		WillReturnRows(f.bookingRow(entity.BookingStatusPending, 300000))
	f.mock.ExpectQuery("FROM booking_details").
		WithArgs(f.bookingID).
		WillReturnRows(f.detailRows())
	f.mock.ExpectQuery("FROM trip_seats").
		WithArgs(f.seatIDs).
		WillReturnRows(f.lockedSeatRows(false, true))
	f.mock.ExpectExec("UPDATE payments").
		WithArgs(f.paymentID, entity.PaymentStatusFailed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit()
	f.mock.ExpectRollback()

	err := f.service.Finalize(context.Background(), f.orderID, 300000, nil)
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A2"}, conflict.Seats)
	assert.Empty(t, f.broadcast.all())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFinalizeEmptyOrderID(t *testing.T) {
	f := newFinalizeFixture(t)

	err := f.service.Finalize(context.Background(), "", 300000, nil)
	assert.ErrorContains(t, err, "invalid order ID")
}
