package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitPayment handles POST /api/payments/init
func (h *PaymentHandler) InitPayment(w http.ResponseWriter, r *http.Request) {
	var req request.InitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.InitPayment(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "init payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// Notify handles POST /api/payments/notify, the gateway webhook.
// Gateways retry on non-2xx, so anything already settled answers 200.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentNotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Finalize(r.Context(), req.OrderID, req.Amount, req.Payload); err != nil {
		h.handleServiceError(w, err, "finalize payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors for payment operations
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var conflict *usecase.SeatConflictError
	errMsg := err.Error()

	switch {
	case errors.As(err, &conflict):
		h.log.Warn(operation+" failed - seats booked by another order",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg, conflict.Seats)

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
