package adaptor

import (
	"bus-booking/internal/realtime"
	"bus-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Trip     *TripHandler
	Hold     *HoldHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Realtime *RealtimeHandler
}

func NewHandler(service *usecase.Service, hub *realtime.Hub, log *zap.Logger) *Handler {
	return &Handler{
		Trip:     NewTripHandler(service.Trip, log),
		Hold:     NewHoldHandler(service.Hold, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
		Realtime: NewRealtimeHandler(hub, log),
	}
}
