package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/booking - Create a pending booking for held seats
	r.Post("/api/booking", bookingHandler.CreateBooking)

	// GET /api/bookings/{id} - Booking details with passenger seats
	r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)

	// ==================== ADMIN ROUTES ====================
	// PUT /api/admin/bookings/{id}/cancel - Cancel any booking (admin)
	r.Put("/api/admin/bookings/{id}/cancel", bookingHandler.CancelBooking)
}
