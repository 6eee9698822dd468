package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HoldHandler struct {
	service usecase.HoldService
	log     *zap.Logger
}

func NewHoldHandler(service usecase.HoldService, log *zap.Logger) *HoldHandler {
	return &HoldHandler{
		service: service,
		log:     log.With(zap.String("handler", "hold")),
	}
}

// HoldSeats handles POST /api/trips/{id}/hold
func (h *HoldHandler) HoldSeats(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	var req request.HoldSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	hold, err := h.service.Hold(r.Context(), tripID, req.SeatCodes, ttl)
	if err != nil {
		h.handleServiceError(w, err, "hold seats")
		return
	}

	utils.ResponseCreated(w, "success", hold)
}

// ReleaseSeats handles POST /api/trips/{id}/release
func (h *HoldHandler) ReleaseSeats(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	var req request.ReleaseSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Release(r.Context(), tripID, req.SeatCodes, req.Token); err != nil {
		h.handleServiceError(w, err, "release seats")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors for hold operations
func (h *HoldHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var conflict *usecase.SeatConflictError
	var unauthorized *usecase.SeatUnauthorizedError

	switch {
	case errors.As(err, &conflict):
		h.log.Warn(operation+" failed - seats contested",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error(), conflict.Seats)

	case errors.As(err, &unauthorized):
		h.log.Warn(operation+" failed - token does not own seats",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, err.Error(), unauthorized.Seats)

	case errors.Is(err, leasestore.ErrUnavailable):
		h.log.Error(operation+" failed - lease store unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Seat locking temporarily unavailable")

	case strings.Contains(err.Error(), "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
