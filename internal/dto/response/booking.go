package response

import (
	"time"

	"bus-booking/internal/data/entity"
)

type BookingSeat struct {
	SeatCode      string  `json:"seat_code"`
	PassengerName string  `json:"passenger_name"`
	Price         float64 `json:"price"`
}

type BookingResponse struct {
	ID           string               `json:"id"`
	OrderRef     string               `json:"order_ref"`
	TripID       string               `json:"trip_id"`
	ContactName  string               `json:"contact_name"`
	ContactEmail string               `json:"contact_email"`
	TotalSeats   int                  `json:"total_seats"`
	TotalPrice   float64              `json:"total_price"`
	Status       entity.BookingStatus `json:"status"`
	Seats        []BookingSeat        `json:"seats,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking, details []*entity.BookingDetail) *BookingResponse {
	seats := make([]BookingSeat, len(details))
	for i, detail := range details {
		seats[i] = BookingSeat{
			SeatCode:      detail.SeatCode,
			PassengerName: detail.PassengerName,
			Price:         detail.Price,
		}
	}

	return &BookingResponse{
		ID:           booking.ID.String(),
		OrderRef:     booking.OrderRef,
		TripID:       booking.TripID.String(),
		ContactName:  booking.ContactName,
		ContactEmail: booking.ContactEmail,
		TotalSeats:   booking.TotalSeats,
		TotalPrice:   booking.TotalPrice,
		Status:       booking.Status,
		Seats:        seats,
		CreatedAt:    booking.CreatedAt,
	}
}
