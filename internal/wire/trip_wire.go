package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	holdHandler *adaptor.HoldHandler,
	realtimeHandler *adaptor.RealtimeHandler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/trips/{id}", func(r chi.Router) {
		// GET /api/trips/{id} - Trip details
		r.Get("/", tripHandler.GetTrip)

		// GET /api/trips/{id}/seats - Seat availability snapshot
		r.Get("/seats", tripHandler.GetSeatStatuses)

		// POST /api/trips/{id}/hold - Hold seats, returns ownership token
		r.Post("/hold", holdHandler.HoldSeats)

		// POST /api/trips/{id}/release - Release held seats by token
		r.Post("/release", holdHandler.ReleaseSeats)

		// GET /api/trips/{id}/ws - Websocket stream of seat-state transitions
		r.Get("/ws", realtimeHandler.Subscribe)
	})

	// ==================== ADMIN ROUTES ====================
	// POST /api/admin/trips - Create trip, materializing its seat inventory
	r.Post("/api/admin/trips", tripHandler.CreateTrip)

	// PUT /api/admin/seat-definitions/{id}/active - Toggle a seat's active flag
	r.Put("/api/admin/seat-definitions/{id}/active", tripHandler.SetSeatActive)
}
