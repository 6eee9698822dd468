package request

import "time"

// IsActive is a pointer so an explicit false passes validation.
type UpdateSeatActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CreateTripRequest struct {
	BusID       string    `json:"bus_id" validate:"required,uuid4"`
	Origin      string    `json:"origin" validate:"required,min=1"`
	Destination string    `json:"destination" validate:"required,min=1"`
	DepartureAt time.Time `json:"departure_at" validate:"required"`
}
