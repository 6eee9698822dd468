package request

type PassengerSeat struct {
	SeatCode      string `json:"seat_code" validate:"required,min=1"`
	PassengerName string `json:"passenger_name" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	TripID       string          `json:"trip_id" validate:"required,uuid4"`
	ContactName  string          `json:"contact_name" validate:"required,min=1"`
	ContactEmail string          `json:"contact_email" validate:"required,email"`
	Passengers   []PassengerSeat `json:"passengers" validate:"required,min=1,dive"`

	// Token is the hold ownership token, optional: booking creation may
	// run without a prior hold, the finalizer is the durable gate.
	Token string `json:"token,omitempty" validate:"omitempty,uuid4"`
}
