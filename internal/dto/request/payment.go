package request

type InitPaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Provider  string `json:"provider" validate:"required,oneof=midtrans xendit"`
}

// PaymentNotifyRequest is the gateway webhook payload. Signature
// verification happens in the payments integration layer before this
// reaches the finalizer.
type PaymentNotifyRequest struct {
	OrderID string         `json:"order_id" validate:"required"`
	Amount  float64        `json:"amount" validate:"required,gt=0"`
	Payload map[string]any `json:"payload,omitempty"`
}
