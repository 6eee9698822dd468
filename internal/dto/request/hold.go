package request

type HoldSeatsRequest struct {
	SeatCodes  []string `json:"seat_codes" validate:"required,min=1,dive,min=1"`
	TTLSeconds int      `json:"ttl_seconds,omitempty" validate:"omitempty,min=1,max=3600"`
}

type ReleaseSeatsRequest struct {
	SeatCodes []string `json:"seat_codes" validate:"required,min=1,dive,min=1"`
	Token     string   `json:"token" validate:"required,uuid4"`
}
