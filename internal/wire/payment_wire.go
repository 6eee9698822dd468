package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	// POST /api/payments/init - Open a payment attempt for a pending booking
	r.Post("/api/payments/init", paymentHandler.InitPayment)

	// POST /api/payments/notify - Gateway webhook, finalizes the booking
	r.Post("/api/payments/notify", paymentHandler.Notify)
}
