package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// CreateTrip handles POST /api/admin/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	trip, err := h.service.CreateTrip(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create trip")
		return
	}

	utils.ResponseCreated(w, "success", trip)
}

// GetTrip handles GET /api/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		utils.ResponseBadRequest(w, "Trip ID is required", nil)
		return
	}

	trip, err := h.service.GetTrip(r.Context(), tripID)
	if err != nil {
		h.handleServiceError(w, err, "get trip")
		return
	}

	utils.ResponseSuccess(w, "success", trip)
}

// GetSeatStatuses handles GET /api/trips/{id}/seats
func (h *TripHandler) GetSeatStatuses(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	statuses, err := h.service.SeatStatuses(r.Context(), tripID)
	if err != nil {
		h.handleServiceError(w, err, "get seat statuses")
		return
	}

	utils.ResponseSuccess(w, "success", &response.SeatSnapshotResponse{
		TripID: tripID.String(),
		Seats:  statuses,
	})
}

// SetSeatActive handles PUT /api/admin/seat-definitions/{id}/active
func (h *TripHandler) SetSeatActive(w http.ResponseWriter, r *http.Request) {
	seatDefinitionID := chi.URLParam(r, "id")
	if seatDefinitionID == "" {
		utils.ResponseBadRequest(w, "Seat definition ID is required", nil)
		return
	}

	var req request.UpdateSeatActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.SetSeatActive(r.Context(), seatDefinitionID, *req.IsActive); err != nil {
		h.handleServiceError(w, err, "set seat active")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors for trip operations
func (h *TripHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
