package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bus-booking/internal/dto/response"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockHoldService struct {
	mock.Mock
}

func (m *mockHoldService) Hold(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (*response.HoldResponse, error) {
	args := m.Called(ctx, tripID, seatCodes, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.HoldResponse), args.Error(1)
}

func (m *mockHoldService) Release(ctx context.Context, tripID uuid.UUID, seatCodes []string, token string) error {
	args := m.Called(ctx, tripID, seatCodes, token)
	return args.Error(0)
}

func setupHoldRouter(service usecase.HoldService) *chi.Mux {
	handler := NewHoldHandler(service, zap.NewNop())
	router := chi.NewRouter()
	router.Post("/api/trips/{id}/hold", handler.HoldSeats)
	router.Post("/api/trips/{id}/release", handler.ReleaseSeats)
	return router
}

func doJSON(t *testing.T, router *chi.Mux, method, url string, body any) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHoldSeatsCreated(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()

	expected := &response.HoldResponse{
		Token:     uuid.NewString(),
		SeatCodes: []string{"A1", "A2"},
		ExpiresAt: time.Now().Add(15 * time.Minute).Format(time.RFC3339),
	}
	service.On("Hold", mock.Anything, tripID, []string{"A1", "A2"}, time.Duration(0)).
		Return(expected, nil)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/hold",
		map[string]any{"seat_codes": []string{"A1", "A2"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, envelope.Status)
	service.AssertExpectations(t)
}

func TestHoldSeatsConflictListsSeats(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()

	service.On("Hold", mock.Anything, tripID, []string{"A1", "A2"}, mock.Anything).
		Return(nil, &usecase.SeatConflictError{Seats: []string{"A2"}})

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/hold",
		map[string]any{"seat_codes": []string{"A1", "A2"}})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, envelope.Status)
	assert.Equal(t, []any{"A2"}, envelope.Errors)
}

func TestHoldSeatsValidation(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()

	rec, _ := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/hold",
		map[string]any{"seat_codes": []string{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Hold")
}

func TestHoldSeatsInvalidTripID(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/trips/not-a-uuid/hold",
		map[string]any{"seat_codes": []string{"A1"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Hold")
}

func TestHoldSeatsLeaseStoreDown(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()

	service.On("Hold", mock.Anything, tripID, []string{"A1"}, mock.Anything).
		Return(nil, fmt.Errorf("acquire seat locks: %w", leasestore.ErrUnavailable))

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/hold",
		map[string]any{"seat_codes": []string{"A1"}})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, envelope.Status)
}

func TestReleaseSeatsUnauthorized(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()
	token := uuid.NewString()

	service.On("Release", mock.Anything, tripID, []string{"A1"}, token).
		Return(&usecase.SeatUnauthorizedError{Seats: []string{"A1"}})

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/release",
		map[string]any{"seat_codes": []string{"A1"}, "token": token})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []any{"A1"}, envelope.Errors)
}

func TestReleaseSeatsOK(t *testing.T) {
	service := new(mockHoldService)
	router := setupHoldRouter(service)
	tripID := uuid.New()
	token := uuid.NewString()

	service.On("Release", mock.Anything, tripID, []string{"A1", "A2"}, token).
		Return(nil)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/trips/"+tripID.String()+"/release",
		map[string]any{"seat_codes": []string{"A1", "A2"}, "token": token})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Status)
	service.AssertExpectations(t)
}
