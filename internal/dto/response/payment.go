package response

import (
	"time"

	"bus-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID        string               `json:"id"`
	BookingID string               `json:"booking_id"`
	OrderID   string               `json:"order_id"`
	Provider  string               `json:"provider"`
	Amount    float64              `json:"amount"`
	Status    entity.PaymentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID.String(),
		BookingID: payment.BookingID.String(),
		OrderID:   payment.OrderID,
		Provider:  payment.Provider,
		Amount:    payment.Amount,
		Status:    payment.Status,
		CreatedAt: payment.CreatedAt,
	}
}
