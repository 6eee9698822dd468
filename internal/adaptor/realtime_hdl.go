package adaptor

import (
	"net/http"

	"bus-booking/internal/realtime"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	hub *realtime.Hub
	log *zap.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, log *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		log: log.With(zap.String("handler", "realtime")),
	}
}

// Subscribe handles GET /api/trips/{id}/ws, upgrading to a websocket
// that streams seat-state transitions for the trip.
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	h.hub.ServeWS(w, r, tripID)
}
